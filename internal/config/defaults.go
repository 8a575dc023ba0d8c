package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

// DefaultConfig returns the baseline values every other source overrides.
func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"environment": "development",
		"log": map[string]interface{}{
			"level": "info",
		},
		"server": map[string]interface{}{
			"address":          ":5000",
			"mode":             "debug",
			"read_timeout":     "10s",
			"write_timeout":    "15s",
			"shutdown_timeout": "10s",
			"trusted_proxies":  []string{"127.0.0.1", "::1"},
		},
		"cors": map[string]interface{}{
			"allowed_origins": []string{"*"},
		},
		"database": map[string]interface{}{
			"dsn":               "",
			"host":              "",
			"port":              "5432",
			"user":              "",
			"password":          "",
			"name":              "",
			"ssl_mode":          "disable",
			"max_retries":       5,
			"retry_delay":       "5s",
			"max_idle_conns":    10,
			"max_open_conns":    100,
			"conn_max_lifetime": "1h",
			"auto_migrate":      true,
		},
		"jwt": map[string]interface{}{
			"secret": "",
			"expiry": "24h",
			"issuer": "selfcare",
		},
		"security": map[string]interface{}{
			"bcrypt_cost": 10,
		},
		"email": map[string]interface{}{
			"sendgrid_api_key": "",
			"from_email":       "no-reply@roadtoselfcare.app",
			"from_name":        "Road to Self-Care",
		},
		"reminder": map[string]interface{}{
			"enabled":    true,
			"interval":   "1m",
			"batch_size": 50,
		},
		"pagination": map[string]interface{}{
			"default_limit": 5,
			"max_limit":     100,
		},
	}
}

// NewDefaultProvider wraps DefaultConfig as a koanf provider.
func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
