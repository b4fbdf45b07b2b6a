package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateHandle(t *testing.T) {
	assert.Equal(t, "alice_109876", GenerateHandle("alice@example.com", "1098765432"))
	assert.Equal(t, "alice_42", GenerateHandle("alice@example.com", "42"))

	// local part is lowered and stripped of anything outside [a-z0-9.-_]
	assert.Equal(t, "al.ice-x_109876", GenerateHandle("Al.ice+-X@example.com", "1098765432"))
}

func TestGenerateHandleWithoutSubjectFallsBackToRandom(t *testing.T) {
	h := GenerateHandle("alice@example.com", "")
	assert.True(t, strings.HasPrefix(h, "alice_"), "got %q", h)
	assert.Len(t, h, len("alice_")+6)
}

func TestGenerateHandleEmptyLocalPart(t *testing.T) {
	h := GenerateHandle("@@@", "1098765432")
	assert.Equal(t, "user_109876", h)
}

func TestHandleWithRandomSuffix(t *testing.T) {
	h := HandleWithRandomSuffix("bob@example.com")
	assert.True(t, strings.HasPrefix(h, "bob_"), "got %q", h)
	assert.Len(t, h, len("bob_")+6)
}
