package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/term"

	"github.com/viktorsm/audiokeep/internal/common"
)

// TokenFileProvider keeps a JWT access token in a file next to the
// library database. The token is issued elsewhere (the storage account
// console or a companion app); this provider only stores it, checks its
// expiry claim and hands it out. The signature is not verified — the
// backend does that; a forged token only buys a rejected request.
type TokenFileProvider struct {
	path  string
	clock clockwork.Clock

	mu     sync.Mutex
	token  string
	claims jwt.RegisteredClaims
}

func NewTokenFileProvider(path string, clock clockwork.Clock) *TokenFileProvider {
	return &TokenFileProvider{path: path, clock: clock}
}

func (p *TokenFileProvider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	claims, err := parseClaims(token)
	if err != nil {
		// a corrupt stored token is equivalent to not being signed in
		p.token = ""
		return nil
	}

	p.token = token
	p.claims = claims
	return nil
}

func (p *TokenFileProvider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token != "" && !p.expired()
}

func (p *TokenFileProvider) AccessToken() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token == "" {
		return "", fmt.Errorf("access token: %w", common.ErrorNotSignedIn)
	}
	if p.expired() {
		return "", fmt.Errorf("access token: %w", common.ErrorTokenExpired)
	}
	return p.token, nil
}

// SignIn prompts for a token on the terminal (without echo), validates
// its claims and persists it with owner-only permissions.
func (p *TokenFileProvider) SignIn(ctx context.Context) error {
	fmt.Print("Paste access token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	return p.Accept(strings.TrimSpace(string(raw)))
}

// Accept validates and stores a token obtained elsewhere. Split out of
// SignIn so non-interactive callers and tests can use it.
func (p *TokenFileProvider) Accept(token string) error {
	claims, err := parseClaims(token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(p.clock.Now()) {
		return common.ErrorTokenExpired
	}

	if err := os.WriteFile(p.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	p.mu.Lock()
	p.token = token
	p.claims = claims
	p.mu.Unlock()
	return nil
}

// expired must be called with mu held.
func (p *TokenFileProvider) expired() bool {
	return p.claims.ExpiresAt != nil && !p.claims.ExpiresAt.After(p.clock.Now())
}

func parseClaims(token string) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return jwt.RegisteredClaims{}, err
	}
	return claims, nil
}
