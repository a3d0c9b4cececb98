package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/osse101/TapQuest_Go/internal/logger"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars lists all environment variables the API server needs
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"API_KEY",
}

// SessionRequiredEnvVars lists all environment variables the session runtime needs
var SessionRequiredEnvVars = []string{
	"API_BASE_URL",
	"SESSION_IDENTITY",
}

// ValidateEnv checks that all required server variables are set
// and that the schema version matches expectations
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	if schemaVersion == "" {
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	}

	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	return checkRequired(RequiredEnvVars)
}

// ValidateSessionEnv checks that all required session variables are set
func ValidateSessionEnv() error {
	return checkRequired(SessionRequiredEnvVars)
}

func checkRequired(vars []string) error {
	var missing []string
	for _, envVar := range vars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for non-critical issues (like using default values)
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv("DB_PASSWORD") == "change_this_secure_password" {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	if os.Getenv("API_KEY") == "generate_with_openssl_rand_hex_32" {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}

	if os.Getenv("TRUSTED_PROXIES") == "" {
		warnings = append(warnings, "TRUSTED_PROXIES is empty - X-Forwarded-For will be ignored when keying rate limits")
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if _, ok := logger.ParseLevel(lvl); !ok {
			warnings = append(warnings, fmt.Sprintf("LOG_LEVEL %q is not recognised - falling back to info", lvl))
		}
	}

	return warnings, nil
}
