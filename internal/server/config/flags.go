package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/userfeedback/internal/flagx"
)

// parseFlags overlays values from command-line flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     database DSN (postgres URL, or sqlite:/file: for SQLite)
//	-s string     session signing key
//	-t duration   session lifetime (e.g. "12h")
//	-n string     session cookie name
//	-l string     log level
//
// Other arguments are filtered out first so subcommands and -c survive.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-n", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.CookieName, "n", config.CookieName, "session cookie name")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
