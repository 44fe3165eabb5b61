// Package connect is a minimal client for the 1Password Connect REST API,
// covering the three calls this action needs: vault listing, item lookup by
// title, and the heartbeat probe.
package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
	"github.com/chriswardell-glean/1password-actions/internal/secure"
)

// DefaultTimeout bounds a single HTTP exchange with the Connect server.
const DefaultTimeout = 30 * time.Second

// maxErrorBody limits how much of an error response is carried into error
// messages.
const maxErrorBody = 512

// Client talks to one Connect server. The bearer token stays sealed in a
// memory enclave and is only decrypted for the duration of a request.
type Client struct {
	baseURL    string
	token      *secure.Token
	httpClient *http.Client
}

// New creates a client for the Connect server at baseURL.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   secure.NewToken(token),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Close destroys the sealed token. The client must not be used afterwards.
func (c *Client) Close() error {
	c.token.Destroy()
	return nil
}

// ListVaults returns every vault the token can read.
func (c *Client) ListVaults(ctx context.Context) ([]Vault, error) {
	var vaults []Vault
	if err := c.get(ctx, "/v1/vaults", "list vaults", &vaults); err != nil {
		return nil, err
	}
	return vaults, nil
}

// GetItemByTitle fetches the full item whose title matches exactly. The
// Connect API needs two round trips: a filtered listing that returns
// summaries without fields, then the single-item endpoint for field values.
// When several items share the title the first summary wins.
func (c *Client) GetItemByTitle(ctx context.Context, vaultID, title string) (*Item, error) {
	filter := url.Values{}
	filter.Set("filter", fmt.Sprintf("title eq %q", title))
	path := fmt.Sprintf("/v1/vaults/%s/items?%s", url.PathEscape(vaultID), filter.Encode())

	var summaries []Item
	if err := c.get(ctx, path, "find item", &summaries); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, acterrors.SecretNotFoundError{Vault: vaultID, Item: title}
	}

	var item Item
	itemPath := fmt.Sprintf("/v1/vaults/%s/items/%s", url.PathEscape(vaultID), url.PathEscape(summaries[0].ID))
	if err := c.get(ctx, itemPath, "get item", &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Heartbeat probes the server's liveness endpoint.
func (c *Client) Heartbeat(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/heartbeat", nil)
	if err != nil {
		return acterrors.TransportError{Operation: "heartbeat", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return acterrors.TransportError{Operation: "heartbeat", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return acterrors.TransportError{Operation: "heartbeat", StatusCode: resp.StatusCode}
	}
	return nil
}

// get performs an authenticated GET and decodes a JSON response into out.
func (c *Client) get(ctx context.Context, path, operation string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return acterrors.TransportError{Operation: operation, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return acterrors.TransportError{Operation: operation, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return acterrors.TransportError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return acterrors.TransportError{
			Operation: operation,
			Err:       fmt.Errorf("decoding response: %w", err),
		}
	}
	return nil
}

// authorize attaches the bearer token, materializing it only briefly.
func (c *Client) authorize(req *http.Request) error {
	locked, err := c.token.Open()
	if err != nil {
		return acterrors.UserError{
			Message:    "Failed to access the Connect token",
			Details:    err.Error(),
			Suggestion: "Check that the connect-server-token input is set",
			Err:        err,
		}
	}
	defer locked.Destroy()

	// The header needs its own copy; Destroy wipes the buffer's memory.
	req.Header.Set("Authorization", "Bearer "+string(locked.Bytes()))
	return nil
}
