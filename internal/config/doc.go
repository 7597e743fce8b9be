// Package config provides the configuration for castcrawl.
//
// A Config is built from defaults (NewConfig), overlaid with an optional
// YAML file (LoadConfigFile, ApplyFile) and finally with explicitly set
// command line flags. Validate is called once before crawling starts.
package config
