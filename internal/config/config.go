package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config carries every recognized option. Values layer in order: defaults,
// then an optional TOML file, then SHARDPDF_* environment variables.
// Command-line flags override on top of the loaded config.
type Config struct {
	// Conversion
	InputFile       string `toml:"input_file"`
	OutputDir       string `toml:"output_dir"`
	NumFiles        int    `toml:"num_files"`
	Format          string `toml:"format"` // pdf or docx
	ForceSequential bool   `toml:"force_sequential"`
	TimeoutSeconds  int    `toml:"timeout"` // per-file budget
	Workers         int    `toml:"workers"` // 0 = derive from hardware
	VerifyOutput    bool   `toml:"verify_output"`
	Verbose         bool   `toml:"verbose"`

	// HTTP service mode
	Port          string `toml:"port"`
	APIKey        string `toml:"api_key"`
	MaxBodyBytes  int64  `toml:"max_body_bytes"`
	JobTTLMinutes int    `toml:"job_ttl_minutes"`
	MaxActiveJobs int    `toml:"max_active_jobs"`
}

func Default() Config {
	return Config{
		InputFile:      "test.json",
		OutputDir:      "output_pdfs",
		NumFiles:       40,
		Format:         "pdf",
		TimeoutSeconds: 300,

		Port:          "8091",
		MaxBodyBytes:  52428800, // 50MB
		JobTTLMinutes: 60,
		MaxActiveJobs: 4,
	}
}

// Load builds the effective config. When path is empty, shardpdf.toml in
// the working directory is used if present.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("shardpdf.toml"); err == nil {
			path = "shardpdf.toml"
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) JobTTL() time.Duration {
	return time.Duration(c.JobTTLMinutes) * time.Minute
}

func (c Config) Validate() error {
	switch c.Format {
	case "pdf", "docx":
	default:
		return fmt.Errorf("unsupported format %q (want pdf or docx)", c.Format)
	}
	if c.InputFile == "" {
		return fmt.Errorf("input_file is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	return nil
}

func (c *Config) applyEnv() {
	c.InputFile = envOr("SHARDPDF_INPUT", c.InputFile)
	c.OutputDir = envOr("SHARDPDF_OUTPUT_DIR", c.OutputDir)
	c.NumFiles = envInt("SHARDPDF_NUM_FILES", c.NumFiles)
	c.Format = envOr("SHARDPDF_FORMAT", c.Format)
	c.ForceSequential = envBool("SHARDPDF_SEQUENTIAL", c.ForceSequential)
	c.TimeoutSeconds = envInt("SHARDPDF_TIMEOUT", c.TimeoutSeconds)
	c.Workers = envInt("SHARDPDF_WORKERS", c.Workers)
	c.VerifyOutput = envBool("SHARDPDF_VERIFY", c.VerifyOutput)
	c.Verbose = envBool("SHARDPDF_VERBOSE", c.Verbose)

	c.Port = envOr("SHARDPDF_PORT", c.Port)
	c.APIKey = envOr("SHARDPDF_API_KEY", c.APIKey)
	c.MaxBodyBytes = envInt64("SHARDPDF_MAX_BODY_BYTES", c.MaxBodyBytes)
	c.JobTTLMinutes = envInt("SHARDPDF_JOB_TTL_MINUTES", c.JobTTLMinutes)
	c.MaxActiveJobs = envInt("SHARDPDF_MAX_ACTIVE_JOBS", c.MaxActiveJobs)
}

// normalize snaps zero or negative values back to their defaults.
func (c *Config) normalize() {
	def := Default()
	if c.NumFiles <= 0 {
		c.NumFiles = def.NumFiles
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = def.MaxBodyBytes
	}
	if c.JobTTLMinutes <= 0 {
		c.JobTTLMinutes = def.JobTTLMinutes
	}
	if c.MaxActiveJobs <= 0 {
		c.MaxActiveJobs = def.MaxActiveJobs
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.Port == "" {
		c.Port = def.Port
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
