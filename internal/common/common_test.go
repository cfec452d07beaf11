package common

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomDigits_LengthAndAlphabet(t *testing.T) {
	s, err := RandomDigits(OtpLength)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), s)
}

func TestRandomDigits_Zero(t *testing.T) {
	s, err := RandomDigits(0)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestAccountKey(t *testing.T) {
	assert.Equal(t, "wishlist_42", AccountKey(WishlistKeyPrefix, "42"))
	assert.Equal(t, "portfolio_status_u1", AccountKey(PortfolioStatusKey, "u1"))
}
