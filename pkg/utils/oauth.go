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

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jakechorley/internship-allocation/internal/config"
)

const (
	AuthPort     = 3000
	authTimeout  = 5 * time.Minute
	callbackPath = "/oauth/callback"
	tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

	defaultTokenDir = ".internship-allocation/tokens"
)

// ScopeSheetsReadonly is the only scope the sheets record source needs
const ScopeSheetsReadonly = "https://www.googleapis.com/auth/spreadsheets.readonly"

var requiredScopes = []string{ScopeSheetsReadonly}

// GetOAuthConfig builds the oauth2 config for the installed app client, with
// the redirect pointed at the local callback server
func GetOAuthConfig(oauthCfg *config.OAuthClientConfig) (*oauth2.Config, error) {
	raw, err := json.Marshal(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oauth config: %w", err)
	}

	cfg, err := google.ConfigFromJSON(raw, requiredScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google config: %w", err)
	}
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d%s", AuthPort, callbackPath)

	return cfg, nil
}

// TokenStore keeps one token file per environment in a directory
type TokenStore struct {
	dir string
}

// NewTokenStore creates a store rooted at dir
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

// DefaultTokenStore returns the store under ~/.internship-allocation/tokens
func DefaultTokenStore() (*TokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewTokenStore(filepath.Join(home, defaultTokenDir)), nil
}

// Path returns the token file for env
func (s *TokenStore) Path(env string) string {
	if env == "" {
		env = "default"
	}
	return filepath.Join(s.dir, "token-"+env+".json")
}

// Load returns the stored token for env, or nil when there is none
func (s *TokenStore) Load(env string) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path(env))
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

// Save writes the token for env, readable by the owner only
func (s *TokenStore) Save(env string, token *oauth2.Token) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(s.Path(env), data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Delete removes the token for env. A missing file is not an error.
func (s *TokenStore) Delete(env string) error {
	if err := os.Remove(s.Path(env)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Authorizer hands out an access token for one environment. It reuses the
// token it already holds, then the stored one, and only then asks the user to
// authorize in the browser.
type Authorizer struct {
	config *oauth2.Config
	store  *TokenStore
	env    string
	logger *zap.Logger
	prompt io.Writer

	// checkScopes verifies a token was granted requiredScopes
	checkScopes func(ctx context.Context, token *oauth2.Token) error

	mu    sync.Mutex
	token *oauth2.Token
}

// NewAuthorizer creates an authorizer. The authorization URL is written to prompt.
func NewAuthorizer(cfg *oauth2.Config, store *TokenStore, env string, logger *zap.Logger, prompt io.Writer) *Authorizer {
	return &Authorizer{
		config:      cfg,
		store:       store,
		env:         env,
		logger:      logger,
		prompt:      prompt,
		checkScopes: grantedScopes,
	}
}

// Token returns a valid token, running the browser flow when nothing usable is stored
func (a *Authorizer) Token(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token.Valid() {
		return a.token, nil
	}

	if token := a.storedToken(ctx); token != nil {
		a.token = token
		return token, nil
	}

	token, err := a.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(a.env, token); err != nil {
		a.logger.Warn("Failed to save token, it will only be kept in memory", zap.Error(err))
	}

	a.token = token
	return token, nil
}

// storedToken loads the token on disk, refreshing it if it has expired.
// Tokens without the required scopes are deleted.
func (a *Authorizer) storedToken(ctx context.Context) *oauth2.Token {
	stored, err := a.store.Load(a.env)
	if err != nil {
		a.logger.Warn("Failed to load stored token", zap.Error(err))
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
		refreshed, err := a.config.TokenSource(ctx, stored).Token()
		if err != nil {
			a.logger.Debug("Stored token could not be refreshed", zap.Error(err))
			return nil
		}
		token = refreshed
	}

	if err := a.checkScopes(ctx, token); err != nil {
		a.logger.Warn("Stored token is missing required scopes, deleting it", zap.Error(err))
		if err := a.store.Delete(a.env); err != nil {
			a.logger.Warn("Failed to delete token file", zap.Error(err))
		}
		return nil
	}

	if token != stored {
		a.logger.Info("Token refreshed")
		if err := a.store.Save(a.env, token); err != nil {
			a.logger.Warn("Failed to save refreshed token", zap.Error(err))
		}
	}
	return token
}

func (a *Authorizer) authorize(ctx context.Context) (*oauth2.Token, error) {
	a.logger.Info("No valid token found, starting OAuth flow")

	state := uuid.NewString()
	fmt.Fprintf(a.prompt, "\nVisit this URL to authorize read access to the spreadsheet:\n%s\n\n",
		a.config.AuthCodeURL(state, oauth2.AccessTypeOffline))

	code, err := waitForCode(ctx, fmt.Sprintf(":%d", AuthPort), state)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	if err := a.checkScopes(ctx, token); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	return token, nil
}

// waitForCode serves the OAuth callback on addr until a code arrives, the
// callback fails or authTimeout passes
func waitForCode(ctx context.Context, addr, state string) (string, error) {
	codes := make(chan string, 1)
	errs := make(chan error, 2)

	mux := http.NewServeMux()
	mux.Handle(callbackPath, callbackHandler(state, codes, errs))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("callback server error: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	select {
	case code := <-codes:
		return code, nil
	case err := <-errs:
		return "", err
	case <-timeoutCtx.Done():
		return "", fmt.Errorf("authorization timeout after %v", authTimeout)
	}
}

// callbackHandler accepts the first callback carrying the expected state and a code
func callbackHandler(state string, codes chan<- string, errs chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "Authorization failed: state mismatch", http.StatusBadRequest)
			return
		}

		code := query.Get("code")
		if code == "" {
			reason := query.Get("error")
			if reason == "" {
				reason = "no authorization code received"
			}
			select {
			case errs <- fmt.Errorf("authorization denied: %s", reason):
			default:
			}
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Authorization Successful</title></head>
<body><h1>Authorization successful!</h1><p>You can close this window and return to the terminal.</p></body></html>`)

		select {
		case codes <- code:
		default:
		}
	}
}

// grantedScopes asks the tokeninfo endpoint which scopes the token carries
// and fails if any required scope is missing
func grantedScopes(ctx context.Context, token *oauth2.Token) error {
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

	granted := strings.Fields(info.Scope)
	var missing []string
	for _, scope := range requiredScopes {
		if !slices.Contains(granted, scope) {
			missing = append(missing, scope)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("token is missing required scopes %v, grant every permission during the OAuth flow", missing)
	}
	return nil
}
