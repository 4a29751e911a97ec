package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/daily-work-journal/internal/logs"
)

// Calendar read access plus a refresh token.
var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// OAuth2Config returns the device code flow configuration for a tenant and
// client.
func OAuth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// TokenFile persists OAuth2 tokens as JSON.
type TokenFile struct {
	Path string
}

// DefaultTokenFile is <dataDir>/auth/msgraph_tokens.json.
func DefaultTokenFile(dataDir string) TokenFile {
	return TokenFile{Path: filepath.Join(dataDir, "auth", "msgraph_tokens.json")}
}

// Load returns the saved token, or nil when none was saved yet.
func (f TokenFile) Load() (*oauth2.Token, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("token file: %w", err)
	}
	defer file.Close()

	tok := new(oauth2.Token)
	if err := json.NewDecoder(file).Decode(tok); err != nil {
		return nil, fmt.Errorf("token file %s is unreadable, delete it to sign in again: %w", f.Path, err)
	}
	return tok, nil
}

// Save replaces the token file atomically. The file is only readable by the
// owner.
func (f TokenFile) Save(tok *oauth2.Token) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("token dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tok); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replacing token file: %w", err)
	}
	return nil
}

// Authenticate returns a usable token. A saved valid token is returned as is,
// an expired one is refreshed, and otherwise the device code flow runs with
// its instructions written to prompt.
func Authenticate(ctx context.Context, cfg *oauth2.Config, tokens TokenFile, prompt io.Writer) (*oauth2.Token, error) {
	tok, err := tokens.Load()
	if err != nil {
		logs.Logger.Printf("warning: %v", err)
		tok = nil
	}
	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := tokens.Save(refreshed); err != nil {
				logs.Logger.Printf("warning: could not save refreshed token: %v", err)
			}
			return refreshed, nil
		}
		logs.Logger.Printf("token refresh failed (%v), re-authenticating", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting device sign-in: %w", err)
	}
	fmt.Fprintf(prompt, "\nSign in to Outlook: open %s and enter the code %s\n\n", resp.VerificationURI, resp.UserCode)

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("waiting for device sign-in: %w", err)
	}
	if err := tokens.Save(newTok); err != nil {
		logs.Logger.Printf("warning: could not save token: %v", err)
	}
	return newTok, nil
}
