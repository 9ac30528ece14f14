package gdrive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testSecrets = `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SERVER1_CLIENT2_121", "SERVER1_CLIENT2_121"},
		{"it's", `it\'s`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeQuery(tt.in))
	}
}

func TestParseTime(t *testing.T) {
	got := parseTime("2024-05-01T10:20:30.000Z")
	assert.Equal(t, time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC), got.UTC())
	assert.True(t, parseTime("").IsZero())
}

func TestReadClientSecrets(t *testing.T) {
	b, err := ReadClientSecrets(testSecrets, "does-not-exist.json")
	require.NoError(t, err)
	assert.JSONEq(t, testSecrets, string(b))

	_, err = ReadClientSecrets("{not json", "")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "client_secrets.json")
	require.NoError(t, os.WriteFile(path, []byte(testSecrets), 0o600))
	b, err = ReadClientSecrets("", path)
	require.NoError(t, err)
	assert.JSONEq(t, testSecrets, string(b))
}

func TestIsServiceAccount(t *testing.T) {
	assert.True(t, IsServiceAccount([]byte(`{"type":"service_account"}`)))
	assert.False(t, IsServiceAccount([]byte(testSecrets)))
	assert.False(t, IsServiceAccount([]byte(`nope`)))
}

func TestAuthorizer_TokenLifecycle(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "nested", "credentials.json"))
	auth, err := NewAuthorizer([]byte(testSecrets), "http://localhost:5000/cb", store)
	require.NoError(t, err)

	assert.False(t, auth.Authorized())
	_, err = auth.Token()
	assert.ErrorIs(t, err, ErrNotAuthorized)

	valid := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(valid))

	assert.True(t, auth.Authorized())
	got, err := auth.Token()
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)

	url := auth.AuthCodeURL("state-123")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "redirect_uri=http%3A%2F%2Flocalhost%3A5000%2Fcb")
}
