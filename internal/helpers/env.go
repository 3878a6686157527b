package helpers

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file into the process environment. Variables already set are kept.
// A missing file is not fatal; the error is returned so the caller can log it.
func LoadEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}

// GetEnvVariable returns the trimmed value of key, or "" if unset.
func GetEnvVariable(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// GetEnvOrDefault returns the value of key, or fallback when unset or blank.
func GetEnvOrDefault(key, fallback string) string {
	if value := GetEnvVariable(key); value != "" {
		return value
	}
	return fallback
}

// RequireEnvVariable returns the value of key or an error naming the missing variable.
func RequireEnvVariable(key string) (string, error) {
	value := GetEnvVariable(key)
	if value == "" {
		return "", fmt.Errorf("%s not set", key)
	}
	return value, nil
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
