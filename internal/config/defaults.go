package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4361,
			Host: "localhost",
		},
		Session: SessionConfig{
			TTLMinutes: 10,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/lumina",
			},
		},
		Security: SecurityConfig{
			CORS: CORSConfig{
				Origin:  "*",
				Methods: "GET, POST, OPTIONS",
				Headers: "Content-Type",
			},
			ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
