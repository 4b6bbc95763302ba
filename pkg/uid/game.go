package uid

import "github.com/google/uuid"

// GenerateGameID returns a random identifier for a session or stored game.
func GenerateGameID() string {
	return uuid.NewString()
}

// IsGameID reports whether s has the shape GenerateGameID produces.
func IsGameID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
