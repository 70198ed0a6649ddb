package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/userfeedback/internal/flagx"
	"github.com/dmitrijs2005/userfeedback/internal/timex"
)

// JsonConfig mirrors Config for unmarshalling. Pointer fields distinguish
// "absent" from a zero value so a partial file only overrides what it names.
type JsonConfig struct {
	HTTPAddr     *string         `json:"http_addr"`
	DatabaseDSN  *string         `json:"database_dsn"`
	SecretKey    *string         `json:"secret_key"`
	SessionTTL   *timex.Duration `json:"session_ttl"`
	CookieName   *string         `json:"cookie_name"`
	CookieSecure *bool           `json:"cookie_secure"`
	LogLevel     *string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return err
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CookieName, c.CookieName)
	setString(&config.LogLevel, c.LogLevel)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
