package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL combines a base URL with a database name, keeping any
// existing query parameters intact. With an empty name the base URL is
// returned as-is.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	baseURL = strings.TrimRight(baseURL, "/")

	if strings.Contains(baseURL, "?") {
		parts := strings.SplitN(baseURL, "?", 2)
		return fmt.Sprintf("%s/%s?%s", parts[0], databaseName, parts[1])
	}
	return fmt.Sprintf("%s/%s", baseURL, databaseName)
}
