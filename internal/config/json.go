package config

import (
	"encoding/json"
	"os"

	"github.com/avorobjovs/taskdeck/internal/flagx"
	"github.com/avorobjovs/taskdeck/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both string values
// such as "90s" and integer nanoseconds. After unmarshalling, its fields are
// copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DatabaseDSN          string         `json:"database_dsn"`
	LocalDBPath          string         `json:"local_db_path"`
	AuthBaseURL          string         `json:"auth_base_url"`
	S3RootUser           string         `json:"s3_root_user"`
	S3RootPassword       string         `json:"s3_root_password"`
	S3Bucket             string         `json:"s3_bucket"`
	S3Region             string         `json:"s3_region"`
	S3BaseEndpoint       string         `json:"s3_base_endpoint"`
	SessionCheckInterval timex.Duration `json:"session_check_interval"`
	CacheCleanupInterval timex.Duration `json:"cache_cleanup_interval"`
	MaxAuthRetries       int            `json:"max_auth_retries"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.LocalDBPath = c.LocalDBPath
	config.AuthBaseURL = c.AuthBaseURL
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.SessionCheckInterval = c.SessionCheckInterval.Duration
	config.CacheCleanupInterval = c.CacheCleanupInterval.Duration
	config.MaxAuthRetries = c.MaxAuthRetries
}
