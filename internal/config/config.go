package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Mail     MailConfig     `toml:"mail"`
	Session  SessionConfig  `toml:"session"`
	Storage  StorageConfig  `toml:"storage"`
	Security SecurityConfig `toml:"security"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// AuthConfig contains Google OAuth settings.
type AuthConfig struct {
	GoogleClientID     string `toml:"google_client_id"`
	GoogleClientSecret string `toml:"google_client_secret"`
	CallbackURL        string `toml:"callback_url"`
}

// MailConfig contains the Gmail transport settings.
// Account is the Gmail address the message is sent through; Recipient is
// where quote requests are delivered (defaults to Account).
type MailConfig struct {
	Account      string `toml:"account"`
	Recipient    string `toml:"recipient"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
}

// SessionConfig contains session cookie settings.
type SessionConfig struct {
	Secret     string `toml:"secret"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// SecurityConfig contains CORS and response header settings.
type SecurityConfig struct {
	CORS                  CORSConfig `toml:"cors"`
	ContentSecurityPolicy string     `toml:"content_security_policy"`
}

// CORSConfig contains CORS header values.
type CORSConfig struct {
	Origin      string `toml:"origin"`
	Methods     string `toml:"methods"`
	Headers     string `toml:"headers"`
	Credentials bool   `toml:"credentials"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if config.Mail.Recipient == "" {
		config.Mail.Recipient = config.Mail.Account
	}

	return config, nil
}

// applyEnvOverrides applies LUMINA_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("LUMINA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LUMINA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if id := os.Getenv("LUMINA_GOOGLE_CLIENT_ID"); id != "" {
		config.Auth.GoogleClientID = id
	}
	if secret := os.Getenv("LUMINA_GOOGLE_CLIENT_SECRET"); secret != "" {
		config.Auth.GoogleClientSecret = secret
	}
	if url := os.Getenv("LUMINA_CALLBACK_URL"); url != "" {
		config.Auth.CallbackURL = url
	}
	if account := os.Getenv("LUMINA_MAIL_ACCOUNT"); account != "" {
		config.Mail.Account = account
	}
	if recipient := os.Getenv("LUMINA_MAIL_RECIPIENT"); recipient != "" {
		config.Mail.Recipient = recipient
	}
	if id := os.Getenv("LUMINA_MAIL_CLIENT_ID"); id != "" {
		config.Mail.ClientID = id
	}
	if secret := os.Getenv("LUMINA_MAIL_CLIENT_SECRET"); secret != "" {
		config.Mail.ClientSecret = secret
	}
	if token := os.Getenv("LUMINA_MAIL_REFRESH_TOKEN"); token != "" {
		config.Mail.RefreshToken = token
	}
	if secret := os.Getenv("LUMINA_SESSION_SECRET"); secret != "" {
		config.Session.Secret = secret
	}
	if ttl := os.Getenv("LUMINA_SESSION_TTL_MINUTES"); ttl != "" {
		if m, err := strconv.Atoi(ttl); err == nil {
			config.Session.TTLMinutes = m
		}
	}
	if badgerPath := os.Getenv("LUMINA_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if origin := os.Getenv("LUMINA_CORS_ORIGIN"); origin != "" {
		config.Security.CORS.Origin = origin
	}
	if methods := os.Getenv("LUMINA_CORS_METHODS"); methods != "" {
		config.Security.CORS.Methods = methods
	}
	if headers := os.Getenv("LUMINA_CORS_HEADERS"); headers != "" {
		config.Security.CORS.Headers = headers
	}
	if creds := os.Getenv("LUMINA_CORS_CREDENTIALS"); creds != "" {
		config.Security.CORS.Credentials = creds == "true"
	}
	if csp := os.Getenv("LUMINA_CSP_VALUE"); csp != "" {
		config.Security.ContentSecurityPolicy = csp
	}
	if level := os.Getenv("LUMINA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate reports configuration issues that prevent a useful deployment.
// Page serving works with an empty config, so only out-of-range values and
// half-configured integrations are reported.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	googleSet := c.Auth.GoogleClientID != "" || c.Auth.GoogleClientSecret != "" || c.Auth.CallbackURL != ""
	if googleSet && !c.GoogleAuthEnabled() {
		issues = append(issues, "auth: google_client_id, google_client_secret and callback_url must all be set to enable Google sign-in")
	}

	mailSet := c.Mail.Account != "" || c.Mail.ClientID != "" || c.Mail.ClientSecret != "" || c.Mail.RefreshToken != ""
	if mailSet && !c.MailEnabled() {
		issues = append(issues, "mail: account, client_id, client_secret and refresh_token must all be set to enable the contact form transport")
	}

	if c.Session.TTLMinutes < 0 {
		issues = append(issues, fmt.Sprintf("session.ttl_minutes must not be negative (got %d)", c.Session.TTLMinutes))
	}

	return issues
}

// GoogleAuthEnabled reports whether the Google OAuth flow is configured.
func (c *Config) GoogleAuthEnabled() bool {
	return c.Auth.GoogleClientID != "" && c.Auth.GoogleClientSecret != "" && c.Auth.CallbackURL != ""
}

// MailEnabled reports whether the Gmail transport is configured.
func (c *Config) MailEnabled() bool {
	return c.Mail.Account != "" && c.Mail.ClientID != "" && c.Mail.ClientSecret != "" && c.Mail.RefreshToken != ""
}
