package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// DefaultEnvFiles are tried in order when no env file is given.
var DefaultEnvFiles = []string{".env", "/etc/samwise/samwise.env"}

// LoadEnv loads environment variables from envFile, or from whichever of
// DefaultEnvFiles exist. Variables already set in the environment win.
func LoadEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, f := range DefaultEnvFiles {
		godotenv.Load(f)
	}
	return nil
}
