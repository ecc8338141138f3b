package domain

import "time"

// Config represents the application configuration. It is constructed once
// at process start and passed into the components that need it; nothing
// reads environment variables at module level.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Download DownloadConfig `mapstructure:"download"`
	Engine   EngineConfig   `mapstructure:"engine"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig contains download pipeline settings
type DownloadConfig struct {
	// DefaultDir is the destination offered to desktop users
	DefaultDir string `mapstructure:"default_dir"`
	// ScratchRoot is where per-request scratch directories are created;
	// empty means the OS temp directory.
	ScratchRoot string `mapstructure:"scratch_root"`
	// ScratchMaxAge is how long an abandoned scratch directory may live
	// before the startup sweep removes it.
	ScratchMaxAge time.Duration `mapstructure:"scratch_max_age"`
	// HistoryDatabasePath is the sqlite file recording completed desktop
	// downloads.
	HistoryDatabasePath string `mapstructure:"history_database_path"`
}

// EngineConfig contains settings for the yt-dlp engine wrapper
type EngineConfig struct {
	Binary              string `mapstructure:"binary"`
	AcceleratorBinary   string `mapstructure:"accelerator_binary"`
	CookieFile          string `mapstructure:"cookie_file"`
	ConcurrentFragments int    `mapstructure:"concurrent_fragments"`
	// YoutubeClients selects the player clients the extractor should
	// impersonate; empty disables the extractor argument.
	YoutubeClients []string `mapstructure:"youtube_clients"`
}

// SMTPConfig contains settings for the verification mailer. An empty Host
// puts the mailer into dev fallback mode (codes are logged, not sent).
type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	UseTLS   bool          `mapstructure:"use_tls"`
	UseSSL   bool          `mapstructure:"use_ssl"`
	Timeout  time.Duration `mapstructure:"timeout"`
	AppName  string        `mapstructure:"app_name"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Download: DownloadConfig{
			DefaultDir:          "$HOME/Downloads",
			ScratchRoot:         "",
			ScratchMaxAge:       24 * time.Hour,
			HistoryDatabasePath: "$HOME/.parser/history.db",
		},
		Engine: EngineConfig{
			Binary:              "yt-dlp",
			AcceleratorBinary:   "aria2c",
			ConcurrentFragments: 4,
			YoutubeClients:      []string{"android", "ios"},
		},
		SMTP: SMTPConfig{
			Port:    587,
			UseTLS:  true,
			Timeout: 10 * time.Second,
			AppName: "Parser",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
