package global

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(GetEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(GetEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(GetEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// SplitCSV splits a comma separated env value, dropping blanks.
func SplitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GetDefaultTimer() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
