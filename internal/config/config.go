package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/adrg/xdg"

	"github.com/gerunddev/notion2md/internal/frontmatter"
	"github.com/gerunddev/notion2md/internal/notion"
)

// TokenEnv is the environment variable that overrides notion_token
const TokenEnv = "NOTION_TOKEN"

// DefaultOutputTemplate places each page under its publish date and slug
const DefaultOutputTemplate = `output/{{.Publish.Format "2006/01"}}/{{.Slug}}`

// Config represents the notion2md configuration
type Config struct {
	NotionToken         string                 `json:"notion_token,omitempty"`
	DatabaseID          string                 `json:"database_id"`
	OutputTemplate      string                 `json:"output_template"`
	LogFile             string                 `json:"log_file,omitempty"`
	LogLevel            string                 `json:"log_level,omitempty"`
	PageTimeout         time.Duration          `json:"-"` // Custom JSON handling below
	Concurrency         int                    `json:"concurrency"`
	MaxRetries          int                    `json:"max_retries"`
	EnableColor         bool                   `json:"enable_color"`
	UnsupportedComments bool                   `json:"unsupported_comments"`
	FrontMatter         frontmatter.FieldNames `json:"front_matter"`
	Properties          notion.PropertyNames   `json:"properties"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		OutputTemplate: DefaultOutputTemplate,
		LogLevel:       "info",
		PageTimeout:    2 * time.Minute,
		Concurrency:    4,
		MaxRetries:     3,
		FrontMatter:    frontmatter.DefaultFieldNames(),
		Properties:     notion.DefaultPropertyNames(),
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "notion2md", "config.json")
	}
	return filepath.Join(home, ".config", "notion2md", "config.json")
}

// rawConfig mirrors Config with the duration as a string
type rawConfig struct {
	NotionToken         string                 `json:"notion_token,omitempty"`
	DatabaseID          string                 `json:"database_id"`
	OutputTemplate      string                 `json:"output_template"`
	LogFile             string                 `json:"log_file,omitempty"`
	LogLevel            string                 `json:"log_level,omitempty"`
	PageTimeout         string                 `json:"page_timeout"`
	Concurrency         int                    `json:"concurrency"`
	MaxRetries          int                    `json:"max_retries"`
	EnableColor         bool                   `json:"enable_color"`
	UnsupportedComments bool                   `json:"unsupported_comments"`
	FrontMatter         frontmatter.FieldNames `json:"front_matter"`
	Properties          notion.PropertyNames   `json:"properties"`
}

// Load reads configuration from the config directory. A missing file
// yields the defaults; the token environment variable wins over the file.
func Load() (*Config, error) {
	cfg, err := load(ConfigPath())
	if err != nil {
		return nil, err
	}

	if token := os.Getenv(TokenEnv); token != "" {
		cfg.NotionToken = token
	}

	// Expand paths
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	def := DefaultConfig()

	// Use custom struct for JSON parsing to handle duration as string
	raw := rawConfig{
		OutputTemplate: def.OutputTemplate,
		LogLevel:       def.LogLevel,
		PageTimeout:    def.PageTimeout.String(),
		Concurrency:    def.Concurrency,
		MaxRetries:     def.MaxRetries,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	timeout, err := time.ParseDuration(raw.PageTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid page_timeout format '%s': %w", raw.PageTimeout, err)
	}

	cfg := &Config{
		NotionToken:         raw.NotionToken,
		DatabaseID:          raw.DatabaseID,
		OutputTemplate:      raw.OutputTemplate,
		LogFile:             raw.LogFile,
		LogLevel:            raw.LogLevel,
		PageTimeout:         timeout,
		Concurrency:         raw.Concurrency,
		MaxRetries:          raw.MaxRetries,
		EnableColor:         raw.EnableColor,
		UnsupportedComments: raw.UnsupportedComments,
		FrontMatter:         raw.FrontMatter.WithDefaults(),
		Properties:          withDefaultProperties(raw.Properties),
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Use custom struct for JSON to handle duration as string
	raw := rawConfig{
		NotionToken:         c.NotionToken,
		DatabaseID:          c.DatabaseID,
		OutputTemplate:      c.OutputTemplate,
		LogFile:             c.LogFile,
		LogLevel:            c.LogLevel,
		PageTimeout:         c.PageTimeout.String(),
		Concurrency:         c.Concurrency,
		MaxRetries:          c.MaxRetries,
		EnableColor:         c.EnableColor,
		UnsupportedComments: c.UnsupportedComments,
		FrontMatter:         c.FrontMatter,
		Properties:          c.Properties,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold a token
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is usable for talking to Notion
func (c *Config) Validate() error {
	if c.NotionToken == "" {
		return fmt.Errorf("notion_token cannot be empty (set it in the config or %s)", TokenEnv)
	}
	if c.DatabaseID == "" {
		return fmt.Errorf("database_id cannot be empty")
	}
	if _, err := notion.NormalizeID(c.DatabaseID); err != nil {
		return fmt.Errorf("invalid database_id: %w", err)
	}
	if c.OutputTemplate == "" {
		return fmt.Errorf("output_template cannot be empty")
	}
	if _, err := template.New("output").Parse(c.OutputTemplate); err != nil {
		return fmt.Errorf("invalid output_template: %w", err)
	}
	if c.PageTimeout <= 0 {
		return fmt.Errorf("page_timeout must be positive")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	validLevels := map[string]bool{
		"":      true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

func withDefaultProperties(p notion.PropertyNames) notion.PropertyNames {
	d := notion.DefaultPropertyNames()
	if p.Title == "" {
		p.Title = d.Title
	}
	if p.Type == "" {
		p.Type = d.Type
	}
	if p.PublishedAt == "" {
		p.PublishedAt = d.PublishedAt
	}
	if p.RequestPublishing == "" {
		p.RequestPublishing = d.RequestPublishing
	}
	if p.CrawledAt == "" {
		p.CrawledAt = d.CrawledAt
	}
	if p.Tags == "" {
		p.Tags = d.Tags
	}
	if p.Description == "" {
		p.Description = d.Description
	}
	if p.Slug == "" {
		p.Slug = d.Slug
	}
	return p
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
