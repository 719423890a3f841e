package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`)

	a, err := GenerateInviteCode()
	require.NoError(t, err)
	b, err := GenerateInviteCode()
	require.NoError(t, err)

	assert.Regexp(t, pattern, a)
	assert.NotEqual(t, a, b)
}

func TestNormalizeInviteCode(t *testing.T) {
	assert.Equal(t, "AB12-CD34-EF56", NormalizeInviteCode("  ab12-cd34-ef56 "))
}
