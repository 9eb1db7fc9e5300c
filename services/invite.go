package services

import (
	"crypto/rand"
	"fmt"
)

const (
	// Invite codes are short, shareable and uppercase. Teams get 8
	// characters, tournaments 10.
	TeamCodeLength       = 8
	TournamentCodeLength = 10

	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// Attempts to generate a code before giving up on a persistent
	// unique-constraint conflict.
	codeMaxAttempts = 3
)

// generateInviteCode returns a random uppercase code of the given length.
// The alphabet omits easily confused characters (0/O, 1/I).
func generateInviteCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
