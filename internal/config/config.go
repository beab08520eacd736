// Package config holds the configuration context shared by every resource
// of the uptime stack.
//
// The context is loaded from a YAML document:
//
//	region: us-east-1
//	environment: prod
//	handler: weather
//	code:
//	  bucket: my-artifacts
//	  key: uptime/bootstrap.zip
//	tags:
//	  Owner: sre
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Variant selects which handler body the function runs.
type Variant string

const (
	// VariantStatic returns a fixed body naming the bucket.
	VariantStatic Variant = "static"
	// VariantCount counts the objects in the bucket.
	VariantCount Variant = "count"
	// VariantWeather fetches a weather report and stores it in the bucket.
	VariantWeather Variant = "weather"
)

// Defaults applied by Load and New.
const (
	DefaultPath         = "uptime.yaml"
	DefaultProject      = "uptime"
	DefaultEnvironment  = "dev"
	DefaultArchitecture = "arm64"
	DefaultMemorySize   = 128
	DefaultTimeout      = 10
)

var (
	// ErrRegionRequired is returned when no region is configured.
	ErrRegionRequired = errors.New("region is required")
	// ErrCodeRequired is returned when the code archive location is missing.
	ErrCodeRequired = errors.New("code.bucket and code.key are required")
	// ErrUnknownVariant is returned for a handler value other than static, count or weather.
	ErrUnknownVariant = errors.New("unknown handler variant")
)

// Config is the configuration context of the stack.
type Config struct {
	Region       string            `yaml:"region"`
	Project      string            `yaml:"project"`
	Environment  string            `yaml:"environment"`
	Handler      Variant           `yaml:"handler"`
	Code         Code              `yaml:"code"`
	Architecture string            `yaml:"architecture"`
	MemorySize   int               `yaml:"memorySize"`
	Timeout      int               `yaml:"timeout"`
	Tags         map[string]string `yaml:"tags"`
}

// Code is the S3 location of the zipped bootstrap binary.
type Code struct {
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
}

// New returns a Config for region with every other field defaulted.
func New(region string) *Config {
	cfg := &Config{Region: region}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes the configuration file at path and applies defaults without
// validating, so that flag overrides can fill required fields first.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return decode(data)
}

// Parse decodes and validates a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Project == "" {
		c.Project = DefaultProject
	}
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if c.Handler == "" {
		c.Handler = VariantStatic
	}
	if c.Architecture == "" {
		c.Architecture = DefaultArchitecture
	}
	if c.MemorySize == 0 {
		c.MemorySize = DefaultMemorySize
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("invalid config: %w", ErrRegionRequired)
	}
	if c.Code.Bucket == "" || c.Code.Key == "" {
		return fmt.Errorf("invalid config: %w", ErrCodeRequired)
	}
	switch c.Handler {
	case VariantStatic, VariantCount, VariantWeather:
	default:
		return fmt.Errorf("invalid config: %w: %q", ErrUnknownVariant, c.Handler)
	}
	return nil
}

// Override replaces the region and environment when the values are non-empty.
func (c *Config) Override(region, environment string) {
	if region != "" {
		c.Region = region
	}
	if environment != "" {
		c.Environment = environment
	}
}

// Tag is a key/value pair applied to every taggable resource.
type Tag struct {
	Key   string
	Value string
}

// DefaultTags returns the Environment and Project tags plus the configured
// extra tags, sorted by key. Environment and Project cannot be overridden.
func (c *Config) DefaultTags() []Tag {
	merged := make(map[string]string, len(c.Tags)+2)
	for k, v := range c.Tags {
		merged[k] = v
	}
	merged["Environment"] = c.Environment
	merged["Project"] = c.Project

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]Tag, len(keys))
	for i, k := range keys {
		tags[i] = Tag{Key: k, Value: merged[k]}
	}
	return tags
}
