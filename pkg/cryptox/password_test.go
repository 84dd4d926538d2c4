package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		secret string
	}{
		{"password", "correct horse battery"},
		{"pin", "0420"},
		{"empty", ""},
		{"unicode answer", "ciudad de méxico"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash, err := HashPassword(tt.secret)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
			require.Len(t, strings.Split(hash, "$"), 6)

			require.NoError(t, VerifyPassword(tt.secret, hash))
			require.ErrorIs(t, VerifyPassword(tt.secret+"x", hash), ErrMismatch)
			require.False(t, NeedsRehash(hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("1234")
	require.NoError(t, err)
	b, err := HashPassword("1234")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, VerifyPassword("1234", a))
	require.NoError(t, VerifyPassword("1234", b))
}

func TestVerifyPassword_Bcrypt(t *testing.T) {
	t.Parallel()

	legacy, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, VerifyPassword("1234", string(legacy)))
	require.ErrorIs(t, VerifyPassword("4321", string(legacy)), ErrMismatch)
	require.True(t, NeedsRehash(string(legacy)))
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"plaintext", "1234"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := VerifyPassword("1234", tt.hash)
			require.ErrorIs(t, err, ErrUnknownHash)
		})
	}
}

func TestNeedsRehash_OldParameters(t *testing.T) {
	t.Parallel()

	require.True(t, NeedsRehash("$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"))
}
