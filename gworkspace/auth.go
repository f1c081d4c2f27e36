/*
Package gworkspace implements the orders collaborator interfaces over Google
Sheets, Docs and Drive.

PURPOSE:
  Workbook (sheets.go), Documents (docs.go) and Files (drive.go) each wrap
  one generated API client. They share one authenticated *http.Client built
  here.

CREDENTIALS (first match wins):
  1. Service account JSON from the GOOGLE_CREDENTIALS environment variable
  2. Service account key file (credentials.service_account)
  3. Installed-app OAuth client (credentials.client_secret) with a cached
     token file (credentials.token). Without a cached token the user is sent
     to the consent URL and pastes the code back. Refreshed tokens are written
     back to the cache.

SCOPES:
  spreadsheets, documents and drive, all read/write. Changing scopes needs a
  fresh token: delete the token file.

SEE ALSO:
  - config/config.go: credential paths
  - orders/workbook.go: the interfaces implemented here
*/
package gworkspace

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

// Scopes requested by every credential flow.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	docs.DocumentsScope,
	drive.DriveScope,
}

// CredentialsEnv holds a service account key as inline JSON.
const CredentialsEnv = "GOOGLE_CREDENTIALS"

// ErrNoCredentials is returned when no credential source is configured.
var ErrNoCredentials = errors.New("no Google credentials configured")

// Credentials names where credentials come from.
type Credentials struct {
	ServiceAccountFile string
	ClientSecretFile   string
	TokenFile          string

	// Prompt is used by the installed-app flow when no token is cached.
	In  io.Reader
	Out io.Writer
}

// Client returns an authenticated HTTP client.
func (c Credentials) Client(ctx context.Context) (*http.Client, error) {
	if js := os.Getenv(CredentialsEnv); js != "" {
		return serviceAccountClient(ctx, []byte(js))
	}
	if c.ServiceAccountFile != "" {
		if b, err := os.ReadFile(c.ServiceAccountFile); err == nil {
			return serviceAccountClient(ctx, b)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read service account key: %w", err)
		}
	}
	if c.ClientSecretFile != "" {
		b, err := os.ReadFile(c.ClientSecretFile)
		if err != nil {
			return nil, fmt.Errorf("read client secret: %w", err)
		}
		return c.installedAppClient(ctx, b)
	}
	return nil, ErrNoCredentials
}

func serviceAccountClient(ctx context.Context, key []byte) (*http.Client, error) {
	conf, err := google.JWTConfigFromJSON(key, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return conf.Client(ctx), nil
}

func (c Credentials) installedAppClient(ctx context.Context, secret []byte) (*http.Client, error) {
	conf, err := google.ConfigFromJSON(secret, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}

	tok, err := loadToken(c.TokenFile)
	if err != nil {
		tok, err = c.tokenFromWeb(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err := saveToken(c.TokenFile, tok); err != nil {
			return nil, err
		}
	}

	src := &savingTokenSource{
		base: conf.TokenSource(ctx, tok),
		path: c.TokenFile,
		last: tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

func (c Credentials) tokenFromWeb(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	if c.In == nil || c.Out == nil {
		return nil, fmt.Errorf("%w: no cached token and no terminal to authorize", ErrNoCredentials)
	}
	url := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(c.Out, "Go to the following link in your browser, then type the authorization code:\n%v\n", url)

	code, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && code == "" {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	tok, err := conf.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

// savingTokenSource writes every newly refreshed token to the cache file.
type savingTokenSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	path string
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := saveToken(s.path, tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
