package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	t.Parallel()

	for _, digits := range []int{OTPDigits, TicketDigits} {
		seen := make(map[string]struct{})
		for range 50 {
			code, err := GenerateNumericCode(digits)
			require.NoError(t, err)
			require.Len(t, code, digits)
			for _, r := range code {
				require.True(t, r >= '0' && r <= '9', "code %q has non-digit", code)
			}
			seen[code] = struct{}{}
		}
		require.Greater(t, len(seen), 40, "codes should not repeat often")
	}
}

func TestGenerateNumericCode_InvalidLength(t *testing.T) {
	t.Parallel()

	_, err := GenerateNumericCode(0)
	require.Error(t, err)
	_, err = GenerateNumericCode(19)
	require.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	b, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	require.Len(t, a, 22)
	require.NotEqual(t, a, b)

	_, err = GenerateToken(0)
	require.Error(t, err)
}
