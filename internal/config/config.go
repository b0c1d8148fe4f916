package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/pager"
)

// Category guesses the category of new expenses whose title matches Pattern.
type Category struct {
	Name    string `yaml:"name" toml:"name"`
	Pattern string `yaml:"pattern" toml:"pattern"`
}

type Config struct {
	APIURL     string        `yaml:"api_url" toml:"api_url"`
	PageSize   int           `yaml:"page_size" toml:"page_size"`
	Currency   string        `yaml:"currency" toml:"currency"`
	Categories []Category    `yaml:"categories" toml:"categories"`
	Logger     logger.Config `yaml:"logger" toml:"logger"`
}

const (
	defaultAPIURL    = "http://localhost:8080"
	defaultPageSize  = pager.DefaultSize
	defaultCurrency  = "₹"
	defaultLogLevel  = logger.LevelInfo
	defaultLogFormat = logger.FormatText
	defaultLogOutput = "stderr"
)

// Parse reads the configuration file, when present, and applies the
// environment overrides on top of it.
func Parse(configPath string) (*Config, error) {
	conf := &Config{}

	content, err := os.ReadFile(configPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}

	if err == nil {
		if err = decode(configPath, content, conf); err != nil {
			return nil, fmt.Errorf("decoding config %s: %w", configPath, err)
		}
	}

	if err = conf.parseEnv(); err != nil {
		return nil, err
	}

	conf.setDefaults()

	if err = conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func decode(path string, content []byte, conf *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(content, conf)
	default:
		return yaml.Unmarshal(content, conf)
	}
}

func (c *Config) parseEnv() error {
	if apiURL := os.Getenv("EXPENSEDESK_API_URL"); apiURL != "" {
		c.APIURL = apiURL
	}

	if size := os.Getenv("EXPENSEDESK_PAGE_SIZE"); size != "" {
		value, err := strconv.Atoi(size)
		if err != nil {
			return fmt.Errorf("invalid EXPENSEDESK_PAGE_SIZE %q: %w", size, err)
		}
		c.PageSize = value
	}

	if currency := os.Getenv("EXPENSEDESK_CURRENCY"); currency != "" {
		c.Currency = currency
	}

	if level := os.Getenv("EXPENSEDESK_LOG_LEVEL"); level != "" {
		c.Logger.Level = logger.Level(level)
	}

	if format := os.Getenv("EXPENSEDESK_LOG_FORMAT"); format != "" {
		c.Logger.Format = logger.Format(format)
	}

	if output := os.Getenv("EXPENSEDESK_LOG_OUTPUT"); output != "" {
		c.Logger.Output = output
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}

	if c.PageSize == 0 {
		c.PageSize = defaultPageSize
	}

	if c.Currency == "" {
		c.Currency = defaultCurrency
	}

	if c.Logger.Level == "" {
		c.Logger.Level = defaultLogLevel
	}

	if c.Logger.Format == "" {
		c.Logger.Format = defaultLogFormat
	}

	if c.Logger.Output == "" {
		c.Logger.Output = defaultLogOutput
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid api_url %q: must be an absolute URL", c.APIURL))
	}

	if !slices.Contains(pager.AllowedSizes, c.PageSize) {
		problems = append(problems, fmt.Sprintf("invalid page_size %d: must be one of %v", c.PageSize, pager.AllowedSizes))
	}

	for _, c := range c.Categories {
		if c.Name == "" {
			problems = append(problems, fmt.Sprintf("category with pattern %q has no name", c.Pattern))
		}
		if _, err := regexp.Compile(c.Pattern); err != nil {
			problems = append(problems, fmt.Sprintf("invalid pattern for category %q: %v", c.Name, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}
