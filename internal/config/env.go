package config

import "os"

// Get returns the value of the environment variable name, or fallback when
// it is unset or empty.
func Get(name, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && value != "" {
		return value
	}
	return fallback
}
