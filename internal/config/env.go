package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// LoadEnvFile loads READER_ENV_FILE, or .env when present, into the process
// environment. Variables already set take precedence. A missing default
// file is not an error; a missing explicit file is.
func LoadEnvFile() (string, error) {
	file, explicit := os.LookupEnv("READER_ENV_FILE")
	if !explicit || file == "" {
		file = defaultEnvFile
		explicit = false
	}

	if err := godotenv.Load(file); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return file, err
	}

	return file, nil
}

// getEnv gets an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an environment variable as an integer with a fallback
func getIntEnv(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return intValue
}

// getMillisEnv reads a non-negative millisecond count as a duration
func getMillisEnv(key string, fallback time.Duration) time.Duration {
	ms := getIntEnv(key, -1)
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
