// services/auth0.go - Auth0 Management API Client
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"
)

// Auth0Client talks to the Auth0 management API. The management token is
// cached on the client itself with its expiry, never in package state, so
// every consumer sees an explicit dependency.
type Auth0Client struct {
	domain       string
	clientID     string
	clientSecret string
	http         *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewAuth0ClientFromEnv builds a client from AUTH0_* environment variables.
func NewAuth0ClientFromEnv() *Auth0Client {
	return &Auth0Client{
		domain:       os.Getenv("AUTH0_DOMAIN"),
		clientID:     os.Getenv("AUTH0_CLIENT_ID"),
		clientSecret: os.Getenv("AUTH0_CLIENT_SECRET"),
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the environment carries Auth0 credentials.
func (c *Auth0Client) Configured() bool {
	return c.domain != "" && c.clientID != "" && c.clientSecret != ""
}

// managementToken returns a cached management token, refreshing it one
// minute before expiry.
func (c *Auth0Client) managementToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"audience":      fmt.Sprintf("https://%s/api/v2/", c.domain),
		"grant_type":    "client_credentials",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("https://%s/oauth/token", c.domain), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth0 token request failed: %s", resp.Status)
	}

	var tokenInfo struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return "", err
	}

	c.token = tokenInfo.AccessToken
	ttl := time.Duration(tokenInfo.ExpiresIn) * time.Second
	// Refresh a minute early, but never turn a short-lived token into an
	// already-expired cache entry
	if ttl > time.Minute {
		ttl -= time.Minute
	}
	c.tokenExpiry = time.Now().Add(ttl)
	return c.token, nil
}

// userIDByEmail looks up the Auth0 user ID for an email address.
func (c *Auth0Client) userIDByEmail(ctx context.Context, token, email string) (string, error) {
	endpoint := fmt.Sprintf("https://%s/api/v2/users-by-email?email=%s",
		c.domain, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth0 user lookup failed: %s", resp.Status)
	}

	var users []struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", fmt.Errorf("no auth0 user for %s", email)
	}
	return users[0].UserID, nil
}

// patchUser applies a partial update to an Auth0 user.
func (c *Auth0Client) patchUser(ctx context.Context, token, userID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("https://%s/api/v2/users/%s", c.domain, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("auth0 user patch failed: %s", resp.Status)
	}
	return nil
}

// SetBlockedByEmail blocks or unblocks the Auth0 user with the given email.
func (c *Auth0Client) SetBlockedByEmail(ctx context.Context, email string, blocked bool) error {
	token, err := c.managementToken(ctx)
	if err != nil {
		return err
	}
	userID, err := c.userIDByEmail(ctx, token, email)
	if err != nil {
		return err
	}
	return c.patchUser(ctx, token, userID, map[string]bool{"blocked": blocked})
}

// SetTierMetadata pushes the subscription tier into the user's metadata.
func (c *Auth0Client) SetTierMetadata(ctx context.Context, email string, tier int) error {
	token, err := c.managementToken(ctx)
	if err != nil {
		return err
	}
	userID, err := c.userIDByEmail(ctx, token, email)
	if err != nil {
		return err
	}
	return c.patchUser(ctx, token, userID, map[string]interface{}{
		"user_metadata": map[string]int{"tier": tier},
	})
}
