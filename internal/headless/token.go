package headless

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	apperr "github.com/AxelMcKenna/Liquorfy-sub000/pkg/errors"
)

// evaluator is the slice of the browser the bootstrap needs
type evaluator interface {
	Evaluate(ctx context.Context, url, expression string) (json.RawMessage, error)
}

// BootstrapConfig describes where one chain's storefront keeps its API
// token at runtime.
type BootstrapConfig struct {
	Chain string

	// URL is the storefront page that boots the web app
	URL string

	// TokenExpr is a JavaScript expression yielding the bearer token
	// once the app has initialized
	TokenExpr string
}

// TokenBootstrap captures an API bearer token by loading the retailer
// storefront like a real client and reading the token out of the app's
// runtime config. The token is cached until Invalidate.
type TokenBootstrap struct {
	browser evaluator
	cfg     BootstrapConfig

	mu    sync.Mutex
	token string
}

// NewTokenBootstrap creates a browser-backed token source
func NewTokenBootstrap(browser evaluator, cfg BootstrapConfig) *TokenBootstrap {
	return &TokenBootstrap{browser: browser, cfg: cfg}
}

// Token returns the cached token, bootstrapping a fresh session when
// none is held
func (b *TokenBootstrap) Token(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.token != "" {
		return b.token, nil
	}

	raw, err := b.browser.Evaluate(ctx, b.cfg.URL, b.cfg.TokenExpr)
	if err != nil {
		return "", apperr.NewAuth(b.cfg.Chain, "storefront session failed", err)
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", apperr.NewAuth(b.cfg.Chain, "token expression returned a non-string", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperr.NewAuth(b.cfg.Chain, "storefront exposed no token", nil)
	}

	b.token = token
	return token, nil
}

// Invalidate drops the cached token so the next Token call bootstraps
// again
func (b *TokenBootstrap) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
}
