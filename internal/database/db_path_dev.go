//go:build !prod

package database

// GetDefaultDBPath returns the database path for development mode.
// In dev mode, the database sits in the working directory for easy access.
func GetDefaultDBPath() string {
	return "sidesearch.db"
}

func IsDevelopment() bool {
	return true
}
