// Package imdb holds the page rules for the IMDb title, full-credits and
// performer pages: which URL follows a title page, where cast links live,
// and how a filmography row is recognised as an acting credit.
//
// The functions are pure. They take a parsed markup.Document and return
// plain values; fetching and scheduling live in the crawler package.
package imdb
