package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jakechorley/publication-allocator/internal/config"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store := &TokenStore{Dir: filepath.Join(t.TempDir(), "tokens")}
	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, store.Save("test", &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       expiry,
	}))

	token, err := store.Load("test")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, expiry.Equal(token.Expiry))

	info, err := os.Stat(filepath.Join(store.Dir, "token-test.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())
}

func TestTokenStore_LoadMissingReturnsNil(t *testing.T) {
	store := &TokenStore{Dir: t.TempDir()}

	token, err := store.Load("prod")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenStore_Delete(t *testing.T) {
	store := &TokenStore{Dir: t.TempDir()}
	require.NoError(t, store.Save("test", &oauth2.Token{AccessToken: "a"}))

	require.NoError(t, store.Delete("test"))
	require.NoError(t, store.Delete("test"))

	token, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenStore_LoadCorruptFile(t *testing.T) {
	store := &TokenStore{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "token-test.json"), []byte("{"), 0600))

	_, err := store.Load("test")
	assert.Error(t, err)
}

func TestGetOAuthConfig_SheetsScopeAndLocalRedirect(t *testing.T) {
	cfg := &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client",
			ProjectID:               "project",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}

	oauthConfig, err := GetOAuthConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{ScopeSheets}, oauthConfig.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", oauthConfig.RedirectURL)
	assert.Equal(t, "client", oauthConfig.ClientID)
}
