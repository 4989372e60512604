// Package client is the Go counterpart of the storefront's browser auth
// controller: it requests a nonce, builds and signs the challenge, submits
// it for verification and tracks the resulting authentication state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/vitrin-shop/vitrin/adapters/siwe"
)

// State is the client-side authentication state. It is a UI hint only:
// the server session is the sole authorization source, and IsAdmin is
// dropped the moment the observed wallet address changes.
type State struct {
	Authenticated bool
	IsAdmin       bool
	Address       string
}

// Config configures a Client.
type Config struct {
	BaseURL   string
	Domain    string // challenge domain, e.g. "shop.example.com"
	URI       string // challenge URI, e.g. "https://shop.example.com"
	Statement string
	ChainID   int
	// HTTPClient is optional; a cookie jar is attached when the provided
	// (or default) client has none, since the session rides on a cookie.
	HTTPClient *http.Client
}

// Client talks to the auth endpoints with a persistent cookie session.
type Client struct {
	cfg    Config
	http   *http.Client
	signer Signer

	mu    sync.Mutex
	state State
}

// New creates a client around the given wallet signer.
func New(cfg Config, signer Signer) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = 1
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{cfg: cfg, http: httpClient, signer: signer}, nil
}

// State returns the current local authentication state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetSigner swaps the wallet. When the address changes, authenticated and
// admin state are dropped immediately — an account switch revokes stale
// affordances before any explicit sign-out.
func (c *Client) SetSigner(signer Signer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.signer == nil || !strings.EqualFold(c.signer.Address(), signer.Address()) {
		c.state = State{}
	}
	c.signer = signer
}

// Nonce requests a fresh challenge nonce for this session.
func (c *Client) Nonce(ctx context.Context) (string, error) {
	var resp struct {
		Success bool   `json:"success"`
		Nonce   string `json:"nonce"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/nonce", nil, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Nonce == "" {
		return "", fmt.Errorf("nonce request failed: %s", resp.Message)
	}
	return resp.Nonce, nil
}

// SignIn runs the full flow: nonce, challenge construction, wallet
// signature, verification. On success the local state reflects the
// server's answer.
func (c *Client) SignIn(ctx context.Context) (State, error) {
	c.mu.Lock()
	signer := c.signer
	c.mu.Unlock()
	if signer == nil {
		return State{}, fmt.Errorf("no wallet signer configured")
	}

	nonce, err := c.Nonce(ctx)
	if err != nil {
		return State{}, err
	}

	message := siwe.BuildMessage(siwe.MessageParams{
		Domain:    c.cfg.Domain,
		Address:   signer.Address(),
		Statement: c.cfg.Statement,
		URI:       c.cfg.URI,
		ChainID:   c.cfg.ChainID,
		Nonce:     nonce,
		IssuedAt:  time.Now().UTC(),
	})

	signature, err := signer.SignMessage([]byte(message))
	if err != nil {
		return State{}, fmt.Errorf("wallet signing failed: %w", err)
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		IsAdmin bool   `json:"isAdmin"`
		Address string `json:"address"`
	}
	body := map[string]string{"message": message, "signature": signature}
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify", body, &resp); err != nil {
		return State{}, err
	}

	state := State{Authenticated: true, IsAdmin: resp.IsAdmin, Address: resp.Address}
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return state, nil
}

// Status asks the server for the session state and mirrors it locally.
func (c *Client) Status(ctx context.Context) (State, error) {
	var resp struct {
		Success       bool   `json:"success"`
		Authenticated bool   `json:"authenticated"`
		Address       string `json:"address"`
		IsAdmin       bool   `json:"isAdmin"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &resp); err != nil {
		return State{}, err
	}

	state := State{Authenticated: resp.Authenticated, IsAdmin: resp.IsAdmin, Address: resp.Address}
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return state, nil
}

// SignOut destroys the server session and clears local state. Safe to call
// when not signed in.
func (c *Client) SignOut(ctx context.Context) error {
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, &resp)

	c.mu.Lock()
	c.state = State{}
	c.mu.Unlock()
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Message == "" {
			envelope.Message = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, envelope.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
