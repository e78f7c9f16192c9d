package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/ajkula/dirtidy/domain/model"
)

// Config holds the global service configuration
type Config struct {
	// General configuration
	General struct {
		// NodeID identifies this host; derived from the machine id when empty
		NodeID string `yaml:"nodeId" env:"DIRTIDY_NODE_ID"`

		// DataDir holds the journal and the instance lock
		DataDir string `yaml:"dataDir" env:"DIRTIDY_DATA_DIR"`

		// LogLevel is the logging level
		LogLevel string `yaml:"logLevel" env:"DIRTIDY_LOG_LEVEL"`

		// Development enables development mode
		Development bool `yaml:"development" env:"DIRTIDY_DEVELOPMENT"`
	} `yaml:"general"`

	// Organizer configuration
	Organizer struct {
		// RetryAttempts is the number of rename attempts on a busy file
		RetryAttempts int `yaml:"retryAttempts" env:"DIRTIDY_RETRY_ATTEMPTS"`

		// RetryDelay is the pause between two attempts
		RetryDelay time.Duration `yaml:"retryDelay" env:"DIRTIDY_RETRY_DELAY"`

		// LedgerFileName is written inside the others folder
		LedgerFileName string `yaml:"ledgerFileName" env:"DIRTIDY_LEDGER_FILE"`

		// FolderNames overrides destination folder names, keyed by selector
		FolderNames map[string]string `yaml:"folderNames"`

		// IgnorePatterns are globs of file names never moved; empty moves everything
		IgnorePatterns []string `yaml:"ignorePatterns" env:"DIRTIDY_IGNORE_PATTERNS" env-separator:","`
	} `yaml:"organizer"`

	// Watch configuration
	Watch struct {
		// Debounce collapses bursts of writes to one file; 0 disables it
		Debounce time.Duration `yaml:"debounce" env:"DIRTIDY_WATCH_DEBOUNCE"`

		// BufferSize is the watcher event channel capacity
		BufferSize int `yaml:"bufferSize" env:"DIRTIDY_WATCH_BUFFER"`

		// Directories are organized when the server starts
		Directories []DirectoryConfig `yaml:"directories"`
	} `yaml:"watch"`

	// Storage configuration
	Storage struct {
		// JournalEnabled persists move outcomes
		JournalEnabled bool `yaml:"journalEnabled" env:"DIRTIDY_JOURNAL_ENABLED"`

		// JournalPath is relative to DataDir unless absolute
		JournalPath string `yaml:"journalPath" env:"DIRTIDY_JOURNAL_PATH"`
	} `yaml:"storage"`

	// HTTP server configuration
	HTTP struct {
		// Enabled enables the HTTP server
		Enabled bool `yaml:"enabled" env:"DIRTIDY_HTTP_ENABLED"`

		// Address to bind the HTTP server
		Address string `yaml:"address" env:"DIRTIDY_HTTP_ADDRESS"`

		// Port to bind the HTTP server
		Port int `yaml:"port" env:"DIRTIDY_HTTP_PORT"`

		// JWT configuration
		JWT struct {
			// Secret is the signing key for tokens; derived from the host when empty
			Secret string `yaml:"secret" env:"DIRTIDY_JWT_SECRET"`

			// ExpirationMinutes is the token validity duration
			ExpirationMinutes int `yaml:"expirationMinutes" env:"DIRTIDY_JWT_EXPIRATION"`
		} `yaml:"jwt"`
	} `yaml:"http"`

	// gRPC server configuration
	GRPC struct {
		// Enabled enables the gRPC health server
		Enabled bool `yaml:"enabled" env:"DIRTIDY_GRPC_ENABLED"`

		// Address to bind the gRPC server
		Address string `yaml:"address" env:"DIRTIDY_GRPC_ADDRESS"`

		// Port to bind the gRPC server
		Port int `yaml:"port" env:"DIRTIDY_GRPC_PORT"`
	} `yaml:"grpc"`

	// Security configuration
	Security struct {
		// EnableAuthentication requires a bearer token on /api routes
		EnableAuthentication bool `yaml:"enableAuthentication" env:"DIRTIDY_AUTH_ENABLED"`
	} `yaml:"security"`

	Logging struct {
		Level       string `yaml:"level" env:"DIRTIDY_LOGGING_LEVEL"` // "ERROR", "WARN", "INFO", "DEBUG"
		ChannelSize int    `yaml:"channelSize" env:"DIRTIDY_LOGGING_CHANNEL_SIZE"`
		Format      string `yaml:"format" env:"DIRTIDY_LOGGING_FORMAT"` // "json", "text", "auto"
		Output      string `yaml:"output" env:"DIRTIDY_LOGGING_OUTPUT"` // "stdout", "stderr", "file"
		FilePath    string `yaml:"filePath" env:"DIRTIDY_LOGGING_FILE"`
	} `yaml:"logging"`
}

// DirectoryConfig is a folder organized at startup
type DirectoryConfig struct {
	// Path of the folder to organize
	Path string `yaml:"path" json:"path"`

	// Categories is a selector list such as "4,6,3" or "todos"
	Categories string `yaml:"categories" json:"categories"`
}

// Selection parses the directory's category list
func (d DirectoryConfig) Selection() (model.Selection, error) {
	return model.ParseSelection(d.Categories)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	c := &Config{}

	// General configuration
	c.General.NodeID = ""
	c.General.DataDir = "./data"
	c.General.LogLevel = "info"
	c.General.Development = false

	// Organizer configuration
	c.Organizer.RetryAttempts = 5
	c.Organizer.RetryDelay = time.Second
	c.Organizer.LedgerFileName = "extensoes.txt"
	c.Organizer.FolderNames = map[string]string{}
	c.Organizer.IgnorePatterns = []string{}

	// Watch configuration
	c.Watch.Debounce = 0
	c.Watch.BufferSize = 100
	c.Watch.Directories = []DirectoryConfig{}

	// Storage configuration
	c.Storage.JournalEnabled = true
	c.Storage.JournalPath = "journal.db"

	// HTTP server configuration
	c.HTTP.Enabled = true
	c.HTTP.Address = "127.0.0.1"
	c.HTTP.Port = 8686
	c.HTTP.JWT.Secret = ""
	c.HTTP.JWT.ExpirationMinutes = 60

	// gRPC server configuration
	c.GRPC.Enabled = false
	c.GRPC.Address = "127.0.0.1"
	c.GRPC.Port = 50061

	// Security configuration
	c.Security.EnableAuthentication = false

	// Logging configuration defaults
	c.Logging.Level = "INFO"
	c.Logging.ChannelSize = 1000
	c.Logging.Format = "auto"
	c.Logging.Output = "stdout"
	c.Logging.FilePath = ""

	return c
}

// LoadConfig loads the configuration from a file, then applies environment overrides.
// An empty path loads the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	baseDir := "."

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		baseDir = filepath.Dir(path)
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Complete relative paths
	if !filepath.IsAbs(config.General.DataDir) {
		dir, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		config.General.DataDir = filepath.Join(dir, config.General.DataDir)
	}

	if !filepath.IsAbs(config.Storage.JournalPath) {
		config.Storage.JournalPath = filepath.Join(config.General.DataDir, config.Storage.JournalPath)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LockPath is the single instance lock file of the server
func (c *Config) LockPath() string {
	return filepath.Join(c.General.DataDir, "dirtidy.lock")
}

// BaseURL is where the CLI reaches a running server
func (c *Config) BaseURL() string {
	host := c.HTTP.Address
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, c.HTTP.Port)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	logLevel := strings.ToLower(config.General.LogLevel)
	if logLevel != "debug" && logLevel != "info" && logLevel != "warn" && logLevel != "error" {
		return fmt.Errorf("invalid log level: %s", config.General.LogLevel)
	}

	if config.Organizer.RetryAttempts < 1 {
		return fmt.Errorf("invalid retry attempts: %d", config.Organizer.RetryAttempts)
	}
	if config.Organizer.RetryDelay < 0 {
		return fmt.Errorf("invalid retry delay: %s", config.Organizer.RetryDelay)
	}
	if config.Organizer.LedgerFileName == "" || strings.ContainsAny(config.Organizer.LedgerFileName, `/\`) {
		return fmt.Errorf("invalid ledger file name: %q", config.Organizer.LedgerFileName)
	}

	if config.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch debounce: %s", config.Watch.Debounce)
	}
	for i, dir := range config.Watch.Directories {
		if dir.Path == "" {
			return fmt.Errorf("watch directory %d has no path", i+1)
		}
		if _, err := dir.Selection(); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir.Path, err)
		}
	}

	// check ports
	if config.HTTP.Enabled && (config.HTTP.Port < 1 || config.HTTP.Port > 65535) {
		return fmt.Errorf("invalid HTTP port: %d", config.HTTP.Port)
	}

	if config.GRPC.Enabled && (config.GRPC.Port < 1 || config.GRPC.Port > 65535) {
		return fmt.Errorf("invalid gRPC port: %d", config.GRPC.Port)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text", "auto":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	switch strings.ToLower(config.Logging.Output) {
	case "stdout", "stderr":
	case "file":
		if config.Logging.FilePath == "" {
			return fmt.Errorf("log output is file but no filePath is set")
		}
	default:
		return fmt.Errorf("invalid log output: %s", config.Logging.Output)
	}

	return nil
}
