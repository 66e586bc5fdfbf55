package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (DOCSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", os.Getenv("DOCSHIP_URL"), &cfg.URL)
	s.setString("key", os.Getenv("DOCSHIP_KEY"), &cfg.Key)
	s.setSecret("secret", os.Getenv("DOCSHIP_SECRET"), &cfg.Secret)
	s.setString("user-agent", os.Getenv("DOCSHIP_USER_AGENT"), &cfg.UserAgent)
	s.setString("log-level", os.Getenv("DOCSHIP_LOG_LEVEL"), &cfg.LogLevel)

	return s.setDuration("debounce", os.Getenv("DOCSHIP_DEBOUNCE"), &cfg.Debounce)
}
