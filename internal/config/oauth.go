package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOAuthClientNotFound is returned when no oauthClient file exists in the search paths
var ErrOAuthClientNotFound = errors.New("oauth client file not found in current directory or home directory")

// OAuthClientConfig is the Google OAuth desktop client downloaded from the cloud console.
// Only publishing to Sheets needs it.
type OAuthClientConfig struct {
	Installed OAuthInstalled `json:"installed" validate:"required"`
}

// OAuthInstalled is the "installed" section of the client file
type OAuthInstalled struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// LoadOAuthClientWithEnv loads oauthClient.<env>.json (or oauthClient.json when env is empty)
func LoadOAuthClientWithEnv(env string) (*OAuthClientConfig, error) {
	name := "oauthClient.json"
	if env != "" {
		name = "oauthClient." + env + ".json"
	}

	path, err := locate(name)
	if err != nil {
		return nil, err
	}

	return LoadOAuthClientFromPath(path)
}

// LoadOAuthClientFromPath loads and validates the OAuth client configuration from a specific path
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := validate.Struct(&oauthCfg); err != nil {
		return nil, fmt.Errorf("oauth client validation failed: %w", err)
	}

	return &oauthCfg, nil
}

// locate returns name from the working directory, falling back to the home directory
func locate(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	path := filepath.Join(home, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrOAuthClientNotFound)
	}
	return path, nil
}
