package utils

import "concierge/config"

// GetEnv returns the application environment
func GetEnv() string {
	return config.GetEnv()
}

// IsProduction checks if the environment is production
func IsProduction() bool {
	return config.IsProduction()
}
