package config

import "time"

// safe for API structure: no signing secret
type PublicConfig struct {
	General struct {
		NodeID   string `json:"nodeId"`
		DataDir  string `json:"dataDir"`
		LogLevel string `json:"logLevel"`
	} `json:"general"`

	Organizer struct {
		RetryAttempts  int               `json:"retryAttempts"`
		RetryDelay     string            `json:"retryDelay"`
		LedgerFileName string            `json:"ledgerFileName"`
		FolderNames    map[string]string `json:"folderNames"`
		IgnorePatterns []string          `json:"ignorePatterns"`
	} `json:"organizer"`

	Watch struct {
		Debounce    string            `json:"debounce"`
		BufferSize  int               `json:"bufferSize"`
		Directories []DirectoryConfig `json:"directories"`
	} `json:"watch"`

	Storage struct {
		JournalEnabled bool   `json:"journalEnabled"`
		JournalPath    string `json:"journalPath"`
	} `json:"storage"`

	HTTP struct {
		Address           string `json:"address"`
		Port              int    `json:"port"`
		ExpirationMinutes int    `json:"jwtExpirationMinutes"`
	} `json:"http"`

	GRPC struct {
		Enabled bool   `json:"enabled"`
		Address string `json:"address"`
		Port    int    `json:"port"`
	} `json:"grpc"`

	Security struct {
		EnableAuthentication bool `json:"enableAuthentication"`
	} `json:"security"`

	Logging struct {
		Level  string `json:"level"`
		Format string `json:"format"`
		Output string `json:"output"`
	} `json:"logging"`
}

// Public returns the exposable view of c
func (c *Config) Public() PublicConfig {
	var p PublicConfig

	p.General.NodeID = c.General.NodeID
	p.General.DataDir = c.General.DataDir
	p.General.LogLevel = c.General.LogLevel

	p.Organizer.RetryAttempts = c.Organizer.RetryAttempts
	p.Organizer.RetryDelay = c.Organizer.RetryDelay.String()
	p.Organizer.LedgerFileName = c.Organizer.LedgerFileName
	p.Organizer.FolderNames = c.Organizer.FolderNames
	p.Organizer.IgnorePatterns = c.Organizer.IgnorePatterns

	p.Watch.Debounce = durationOrOff(c.Watch.Debounce)
	p.Watch.BufferSize = c.Watch.BufferSize
	p.Watch.Directories = c.Watch.Directories

	p.Storage.JournalEnabled = c.Storage.JournalEnabled
	p.Storage.JournalPath = c.Storage.JournalPath

	p.HTTP.Address = c.HTTP.Address
	p.HTTP.Port = c.HTTP.Port
	p.HTTP.ExpirationMinutes = c.HTTP.JWT.ExpirationMinutes

	p.GRPC.Enabled = c.GRPC.Enabled
	p.GRPC.Address = c.GRPC.Address
	p.GRPC.Port = c.GRPC.Port

	p.Security.EnableAuthentication = c.Security.EnableAuthentication

	p.Logging.Level = c.Logging.Level
	p.Logging.Format = c.Logging.Format
	p.Logging.Output = c.Logging.Output

	return p
}

func durationOrOff(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}
