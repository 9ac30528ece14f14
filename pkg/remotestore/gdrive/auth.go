package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

// ErrNotAuthorized means no Drive token has been stored yet.
var ErrNotAuthorized = errors.New("gdrive: not authorized, run the drive authorization flow")

// ReadClientSecrets returns the OAuth client secrets document. Inline JSON
// (e.g. from an environment variable) wins over the file.
func ReadClientSecrets(inlineJSON, file string) ([]byte, error) {
	if inlineJSON != "" {
		if !json.Valid([]byte(inlineJSON)) {
			return nil, errors.New("gdrive: inline client secrets are not valid JSON")
		}
		return []byte(inlineJSON), nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read client secrets %s: %w", file, err)
	}
	return b, nil
}

// IsServiceAccount reports whether the secrets document is a service account
// key rather than an OAuth client.
func IsServiceAccount(secrets []byte) bool {
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(secrets, &doc); err != nil {
		return false
	}
	return doc.Type == "service_account"
}

// TokenStore persists the user token as a JSON file.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

func (s *TokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotAuthorized
		}
		return nil, fmt.Errorf("read token %s: %w", s.path, err)
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", s.path, err)
	}
	return tok, nil
}

func (s *TokenStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write token %s: %w", s.path, err)
	}
	return nil
}

// Authorizer owns the OAuth client config and the stored token. It is an
// oauth2.TokenSource that refreshes and persists on expiry, so a Store built
// on it starts working as soon as the authorization flow saves a token.
type Authorizer struct {
	conf   *oauth2.Config
	tokens *TokenStore
	mu     sync.Mutex
}

var _ oauth2.TokenSource = (*Authorizer)(nil)

func NewAuthorizer(secrets []byte, redirectURL string, tokens *TokenStore) (*Authorizer, error) {
	conf, err := google.ConfigFromJSON(secrets, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	if redirectURL != "" {
		conf.RedirectURL = redirectURL
	}
	return &Authorizer{conf: conf, tokens: tokens}, nil
}

// AuthCodeURL asks for offline access so a refresh token comes back.
func (a *Authorizer) AuthCodeURL(state string) string {
	return a.conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (a *Authorizer) Exchange(ctx context.Context, code string) error {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}
	return a.tokens.Save(tok)
}

func (a *Authorizer) Authorized() bool {
	_, err := a.tokens.Load()
	return err == nil
}

func (a *Authorizer) Token() (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, err := a.tokens.Load()
	if err != nil {
		return nil, err
	}
	if current.Valid() {
		return current, nil
	}

	fresh, err := a.conf.TokenSource(context.Background(), current).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh drive token: %w", err)
	}
	if err := a.tokens.Save(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}
