package config

import (
	"flag"
	"os"
	"time"

	"github.com/avorobjovs/taskdeck/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN of the task database
//	-l string   path of the local sqlite database
//	-auth string  base URL of the authentication service
//	-i int      session check interval in seconds
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-auth", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN of the task database")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "path of the local database file")
	fs.StringVar(&cfg.AuthBaseURL, "auth", cfg.AuthBaseURL, "base URL of the authentication service")
	checkInterval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionCheckInterval = time.Duration(*checkInterval) * time.Second
}
