package session

import (
	"strings"

	"github.com/bulbousnub/wats-go/internal/dependencies/random"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 4
	// CodeAlphabet is the characters used in room codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateCode produces a new uppercase room code
func GenerateCode(rnd random.Random) string {
	return rnd.String(CodeLength, CodeAlphabet)
}

// NormalizeCode upper-cases a user-entered room code for comparison
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
