package cryptox_test

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suinership/auth/pkg/cryptox"
)

func TestMain(m *testing.M) {
	// Point the pepper at a throwaway location so tests never touch a real one.
	cryptox.SetPepperPath(filepath.Join(testTempDir(), "pepper"))
	m.Run()
}

func testTempDir() string {
	dir, err := filepath.Abs("testdata")
	if err != nil {
		panic(err)
	}
	return dir
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("Pw12345!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("Pw12345!", hash))
	require.Error(t, cryptox.VerifyPassword("wrong-password", hash))
}

func TestHashPasswordIsSalted(t *testing.T) {
	h1, err := cryptox.HashPassword("Pw12345!")
	require.NoError(t, err)
	h2, err := cryptox.HashPassword("Pw12345!")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	require.Error(t, cryptox.VerifyPassword("pw", "not-a-phc-hash"))
	require.Error(t, cryptox.VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$a$b"))
}

func TestGenerateToken(t *testing.T) {
	tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 43) // 32 bytes base64url, no padding

	other, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, tok, other)

	_, err = cryptox.GenerateToken(0)
	require.Error(t, err)
}

func TestGenerateNumericCode(t *testing.T) {
	for range 50 {
		code, err := cryptox.GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 1000000)
	}
}

func TestGenerateSalt(t *testing.T) {
	salt, err := cryptox.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, 32) // 16 bytes hex
}
