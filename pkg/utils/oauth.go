package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jakechorley/publication-allocator/internal/config"
)

const (
	AuthPort       = 3000
	authTimeout    = 5 * time.Minute
	callbackPath   = "/oauth/callback"
	tokenDirName   = ".publication-allocator/tokens"
	tokenFilePerms = 0600
	tokenDirPerms  = 0700
	tokenInfoURL   = "https://oauth2.googleapis.com/tokeninfo"
)

// ScopeSheets is the only scope the allocator needs: publishing runs to a spreadsheet
const ScopeSheets = "https://www.googleapis.com/auth/spreadsheets"

var (
	tokenCache   *oauth2.Token
	tokenCacheMu sync.Mutex
)

// GetOAuthConfig creates an OAuth2 config for the Sheets scope with a local redirect
func GetOAuthConfig(oauthCfg *config.OAuthClientConfig) (*oauth2.Config, error) {
	raw, err := json.Marshal(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oauth config: %w", err)
	}

	googleConfig, err := google.ConfigFromJSON(raw, ScopeSheets)
	if err != nil {
		return nil, fmt.Errorf("failed to create google config: %w", err)
	}

	googleConfig.RedirectURL = fmt.Sprintf("http://localhost:%d%s", AuthPort, callbackPath)
	return googleConfig, nil
}

// TokenStore persists one OAuth token per environment under Dir
type TokenStore struct {
	Dir string
}

// DefaultTokenStore stores tokens under ~/.publication-allocator/tokens
func DefaultTokenStore() (*TokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &TokenStore{Dir: filepath.Join(home, tokenDirName)}, nil
}

func (s *TokenStore) path(env string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("token-%s.json", env))
}

// Load returns the stored token, or nil when none has been saved yet
func (s *TokenStore) Load(env string) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path(env))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// Save writes the token readable by the owner only
func (s *TokenStore) Save(env string, token *oauth2.Token) error {
	if err := os.MkdirAll(s.Dir, tokenDirPerms); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path(env), data, tokenFilePerms); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Delete removes the stored token; a missing file is not an error
func (s *TokenStore) Delete(env string) error {
	if err := os.Remove(s.path(env)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// GetTokenWithFlow returns a valid Sheets token for env, refreshing or re-authorising as needed.
// Only one flow runs at a time.
func GetTokenWithFlow(ctx context.Context, oauthConfig *oauth2.Config, env string) (*oauth2.Token, error) {
	tokenCacheMu.Lock()
	defer tokenCacheMu.Unlock()

	if tokenCache != nil && tokenCache.Valid() {
		return tokenCache, nil
	}

	store, err := DefaultTokenStore()
	if err != nil {
		return nil, err
	}

	if token := reuseStoredToken(ctx, oauthConfig, store, env); token != nil {
		tokenCache = token
		return token, nil
	}

	fmt.Println("No valid token found - starting OAuth flow")
	authURL := oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline)
	fmt.Printf("\nVisit this URL to authorize the application:\n%s\n\n", authURL)

	code, err := listenForAuthCallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if err := validateTokenScopes(ctx, token); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if err := store.Save(env, token); err != nil {
		fmt.Printf("Warning: failed to save token to file: %v\n", err)
	}

	tokenCache = token
	return token, nil
}

// reuseStoredToken returns the stored token (refreshed if expired) when it still carries the
// Sheets scope. Unusable tokens are deleted.
func reuseStoredToken(ctx context.Context, oauthConfig *oauth2.Config, store *TokenStore, env string) *oauth2.Token {
	stored, err := store.Load(env)
	if err != nil {
		fmt.Printf("Warning: failed to load token from file: %v\n", err)
		return nil
	}
	if stored == nil {
		return nil
	}

	token := stored
	if !stored.Valid() {
		if stored.RefreshToken == "" {
			return nil
		}
		refreshed, err := oauthConfig.TokenSource(ctx, stored).Token()
		if err != nil || refreshed.AccessToken == stored.AccessToken {
			return nil
		}
		token = refreshed
	}

	if err := validateTokenScopes(ctx, token); err != nil {
		fmt.Printf("Stored token is missing required scopes: %v\n", err)
		_ = store.Delete(env)
		return nil
	}

	if token != stored {
		if err := store.Save(env, token); err != nil {
			fmt.Printf("Warning: failed to save refreshed token: %v\n", err)
		}
	}
	return token
}

// validateTokenScopes asks Google's tokeninfo endpoint which scopes the token carries
func validateTokenScopes(ctx context.Context, token *oauth2.Token) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenInfoURL+"?access_token="+token.AccessToken, nil)
	if err != nil {
		return fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tokeninfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tokeninfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if !slices.Contains(strings.Fields(info.Scope), ScopeSheets) {
		return fmt.Errorf("token is missing scope %s", ScopeSheets)
	}
	return nil
}

// listenForAuthCallback serves the redirect URI until a code arrives, the context ends or
// the authorisation times out
func listenForAuthCallback(ctx context.Context) (string, error) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window.</p></body></html>")
		codeChan <- code
	})

	server := &http.Server{Addr: fmt.Sprintf(":%d", AuthPort), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	var code string
	var authErr error
	select {
	case code = <-codeChan:
	case authErr = <-errChan:
	case <-timeoutCtx.Done():
		authErr = fmt.Errorf("authorization timeout after %v", authTimeout)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	return code, authErr
}
