package config

import "time"

// File is the on-disk YAML representation of the configuration.
// Durations are written as Go duration strings ("250ms", "30s").
// Pointer fields distinguish "not set" from a meaningful zero value.
type File struct {
	Seeds            []string          `yaml:"seeds"`
	Spider           string            `yaml:"spider"`
	BaseURL          string            `yaml:"base_url"`
	Output           string            `yaml:"output"`
	Format           string            `yaml:"format"`
	Concurrency      int               `yaml:"concurrency"`
	Delay            *time.Duration    `yaml:"delay"`
	Timeout          time.Duration     `yaml:"timeout"`
	Retries          *int              `yaml:"retries"`
	MaxPages         int               `yaml:"max_pages"`
	MaxBodySize      int64             `yaml:"max_body_size"`
	UserAgent        string            `yaml:"user_agent"`
	Proxy            string            `yaml:"proxy"`
	RespectRobots    *bool             `yaml:"respect_robots"`
	Headers          map[string]string `yaml:"headers"`
	Cookie           string            `yaml:"cookie"`
	CreditCategories []string          `yaml:"credit_categories"`
	Limits           []LimitRule       `yaml:"limits"`
}
