package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const envFile = ".env"

// loadEnvFile loads variables from ./.env when present. Variables already set
// in the process environment win over the file.
func loadEnvFile() error {
	if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(envFile)
}
