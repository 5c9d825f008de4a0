// Package client is the Go API client. It owns the token-renewal loop:
// a proactive ticker that refreshes a soon-to-expire access token, and
// a reactive path that refreshes once after a 401 and replays the
// original request. Both funnel through one in-flight renewal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"tastebook/api/internal/security"
)

// ErrUnauthenticated is the signal that renewal is exhausted and the
// caller should send the user to login.
var ErrUnauthenticated = errors.New("not authenticated")

// renewWindow is how close to expiry the proactive loop lets the
// access token get before exchanging it.
const renewWindow = 2 * time.Minute

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	renewGroup singleflight.Group
	log        zerolog.Logger
}

func New(baseURL string, store TokenStore, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
		log:        log,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type authData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates and seeds the token store.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return c.authenticateRaw(ctx, "/api/register", body)
}

func (c *Client) authenticate(ctx context.Context, path string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.authenticateRaw(ctx, path, body)
}

func (c *Client) authenticateRaw(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	env, err := readEnvelope(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s: %s", path, env.Message)
	}

	var auth authData
	if err := json.Unmarshal(env.Data, &auth); err != nil {
		return fmt.Errorf("decode auth payload: %w", err)
	}
	return c.store.Save(security.TokenPair{
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
	})
}

// Logout clears the local store. The server keeps no session state, so
// there is nothing else to revoke.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout", nil)
	if err == nil {
		if resp, doErr := c.httpClient.Do(req); doErr == nil {
			resp.Body.Close()
		}
	}
	return c.store.Clear()
}

// Do performs an authenticated JSON request. A 401 answer triggers
// exactly one renewal and one replay; a second 401 (or a failed
// renewal) comes back as ErrUnauthenticated.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		if err := c.renew(ctx); err != nil {
			_ = c.store.Clear()
			return ErrUnauthenticated
		}

		resp, err = c.send(ctx, method, path, body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return ErrUnauthenticated
		}
	}
	defer resp.Body.Close()

	env, err := readEnvelope(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: %s", method, path, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	pair, err := c.store.Load()
	if err == nil && pair.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	}

	return c.httpClient.Do(req)
}

// renew exchanges the stored refresh token for a fresh pair. The
// proactive ticker and any number of 401-triggered callers share a
// single outstanding renewal call; last write wins is avoided because
// there is only ever one write.
func (c *Client) renew(ctx context.Context) error {
	_, err, _ := c.renewGroup.Do("renew", func() (any, error) {
		pair, err := c.store.Load()
		if err != nil {
			return nil, err
		}
		if pair.RefreshToken == "" {
			return nil, ErrUnauthenticated
		}

		body, err := json.Marshal(map[string]string{"refreshToken": pair.RefreshToken})
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/renew", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		env, err := readEnvelope(resp)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, ErrUnauthenticated
		}

		var auth authData
		if err := json.Unmarshal(env.Data, &auth); err != nil {
			return nil, fmt.Errorf("decode renew payload: %w", err)
		}
		return nil, c.store.Save(security.TokenPair{
			AccessToken:  auth.AccessToken,
			RefreshToken: auth.RefreshToken,
		})
	})
	return err
}

// StartAutoRenew runs the proactive half of the loop until ctx ends:
// every interval it inspects (unverified decode, never a trust
// decision) the stored access token's expiry and renews inside the
// window. A failed renewal signs the client out locally.
func (c *Client) StartAutoRenew(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !c.needsRenew() {
					continue
				}
				if err := c.renew(ctx); err != nil {
					c.log.Warn().Err(err).Msg("proactive renew failed, signing out")
					_ = c.store.Clear()
				}
			}
		}
	}()
}

func (c *Client) needsRenew() bool {
	pair, err := c.store.Load()
	if err != nil || pair.AccessToken == "" {
		return false
	}
	claims, err := security.Decode(pair.AccessToken)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < renewWindow
}

func readEnvelope(resp *http.Response) (envelope, error) {
	var env envelope
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, fmt.Errorf("read response: %w", err)
	}
	if len(data) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
