package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	// Same input, different salt, different hash.
	second, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, second)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	match, err := VerifyPassword(hash, "password123")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword(hash, "password124")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{name: "plain digits", phone: "252600000000", want: true},
		{name: "with plus", phone: "+252600000000", want: true},
		{name: "too short", phone: "12345", want: false},
		{name: "too long", phone: "1234567890123456", want: false},
		{name: "letters", phone: "+2526000abc00", want: false},
		{name: "empty", phone: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhoneNumber(tt.phone))
		})
	}
}
