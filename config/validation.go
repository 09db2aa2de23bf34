package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateConfig checks that the configuration is usable before the server
// starts; a bad value here is a deployment error, not a runtime one.
func ValidateConfig(cfg *Config) error {
	var problems []string

	if cfg.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}

	if cfg.ServerPort == "" {
		problems = append(problems, "SERVER_PORT is required")
	} else if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("SERVER_PORT %q is not a number", cfg.ServerPort))
	}

	if cfg.DBHost == "" {
		problems = append(problems, "DB_HOST is required")
	}
	if cfg.DBName == "" {
		problems = append(problems, "DB_NAME is required")
	}
	if cfg.DBUser == "" {
		problems = append(problems, "DB_USER is required")
	}

	switch cfg.DBSSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		problems = append(problems, fmt.Sprintf("DB_SSL_MODE %q is not valid", cfg.DBSSLMode))
	}

	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		problems = append(problems, "AWS_REGION is required when S3_BUCKET_NAME is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
