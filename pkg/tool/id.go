package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID; rows created together sort
// together, which keeps primary key indexes append-mostly.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
