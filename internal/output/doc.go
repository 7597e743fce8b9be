// Package output writes crawl records to files.
//
// Supported formats:
//
//	csv       header "actor,movie_or_TV_name", one row per record
//	jsonl     one JSON object per line
//	markdown  associations table, shared works table and a mermaid pie chart
//	sqlite    table associations(actor, movie_or_tv_name)
//
// Every Writer is safe for concurrent use.
package output
