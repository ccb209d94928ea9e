package utils

import "github.com/google/uuid"

// GenerateID returns a new random UUID string, used for user, note and
// session identifiers.
func GenerateID() string {
	return uuid.New().String()
}
