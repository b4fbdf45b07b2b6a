package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateHandle builds a login handle for externally authenticated accounts:
// the email local part plus a fragment of the provider subject id.
func GenerateHandle(email, subject string) string {
	local := sanitizeHandle(localPart(email))
	frag := subject
	if len(frag) > 6 {
		frag = frag[:6]
	}
	if frag == "" {
		return HandleWithRandomSuffix(email)
	}
	return local + "_" + frag
}

// HandleWithRandomSuffix is the retry variant used when the generated
// handle collides with an existing account.
func HandleWithRandomSuffix(email string) string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return sanitizeHandle(localPart(email)) + "_" + hex.EncodeToString(b)
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

func sanitizeHandle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
