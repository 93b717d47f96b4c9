package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserRecord_Normalization(t *testing.T) {
	u, err := NewUserRecord("12345", "", "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "Гость", u.FirstName)
	assert.Equal(t, "ru", u.LanguageCode)
	assert.Equal(t, "RU", u.Locale())
	assert.False(t, u.LastSeenAt.IsZero())
}

func TestNewUserRecord_RequiresID(t *testing.T) {
	_, err := NewUserRecord("  ", "Kittix", "", "", "ru")
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestUserRecord_Locale(t *testing.T) {
	u, err := NewUserRecord("1", "Kittix", "", "kittix", "de")
	require.NoError(t, err)

	assert.Equal(t, "DE", u.Locale())
	assert.Equal(t, "Kittix", u.DisplayName())
}
