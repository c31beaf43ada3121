package internal

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AuthTokens is the persisted credential pair. The access token proves
// identity on bearer-authenticated calls; the refresh token is stored
// for the server's refresh flow but never inspected client-side.
type AuthTokens struct {
	AccessToken  string `yaml:"access_token" json:"access_token"`
	RefreshToken string `yaml:"refresh_token" json:"refresh_token"`
}

// TokenStore is the single accessor for on-disk credentials. All reads
// and writes of authentication state go through it.
type TokenStore struct {
	path string
}

// NewTokenStore returns a store rooted at the config directory.
func NewTokenStore() (*TokenStore, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, &CredentialError{Op: "read", Err: err}
	}
	return NewTokenStoreAt(filepath.Join(dir, "credentials.yaml")), nil
}

// NewTokenStoreAt returns a store backed by an explicit file path.
func NewTokenStoreAt(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the stored tokens. A missing file is not an error; it
// yields empty tokens.
func (ts *TokenStore) Load() (AuthTokens, error) {
	var tokens AuthTokens
	data, err := os.ReadFile(ts.path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokens, nil
		}
		return tokens, &CredentialError{Path: ts.path, Op: "read", Err: err}
	}
	if err := yaml.Unmarshal(data, &tokens); err != nil {
		return AuthTokens{}, &CredentialError{Path: ts.path, Op: "read", Err: err}
	}
	return tokens, nil
}

// Save persists both tokens, creating the config directory as needed.
// The file is user-only readable; it holds live credentials.
func (ts *TokenStore) Save(tokens AuthTokens) error {
	if err := os.MkdirAll(filepath.Dir(ts.path), 0755); err != nil {
		return &CredentialError{Path: ts.path, Op: "write", Err: err}
	}
	data, err := yaml.Marshal(tokens)
	if err != nil {
		return &CredentialError{Path: ts.path, Op: "write", Err: err}
	}
	if err := os.WriteFile(ts.path, data, 0600); err != nil {
		return &CredentialError{Path: ts.path, Op: "write", Err: err}
	}
	return nil
}

// Clear removes the stored credentials. Clearing an empty store is a
// no-op.
func (ts *TokenStore) Clear() error {
	if err := os.Remove(ts.path); err != nil && !os.IsNotExist(err) {
		return &CredentialError{Path: ts.path, Op: "clear", Err: err}
	}
	return nil
}

// IsAuthenticated reports whether a non-empty access token is stored.
// No expiry check and no validation of the token contents; the server
// is the authority on token validity.
func (ts *TokenStore) IsAuthenticated() bool {
	tokens, err := ts.Load()
	if err != nil {
		return false
	}
	return tokens.AccessToken != ""
}

// AccessToken returns the stored access token, or "" when absent.
func (ts *TokenStore) AccessToken() string {
	tokens, err := ts.Load()
	if err != nil {
		return ""
	}
	return tokens.AccessToken
}
