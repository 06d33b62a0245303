/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/magicleague-tdbot/internal"
)

// DefaultBaseURL is the league server every client talks to unless the
// Config overrides it.
const DefaultBaseURL = "https://beta.mysticleague.org"

// Config carries everything a Client needs. The zero value works for
// read-only use against the public server; WritePairings additionally
// requires Token.
type Config struct {
	// BaseURL is the league server root, without a trailing slash.
	BaseURL string

	// Token authorizes pairing writes. Read endpoints ignore it.
	Token string

	// HTTPClient lets callers supply a cached or instrumented client;
	// http.DefaultClient when nil.
	HTTPClient *http.Client
}

// Client talks to the league server. Construct with NewClient; methods
// are safe for concurrent use.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{cfg: cfg}
}

// getJSON fetches path relative to the base URL and decodes the response
// body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	url := c.cfg.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("unable to fetch %v (new): %w", url, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("unable to fetch %v (do): %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unable to fetch %v: http status: %v", url,
			resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to parse %v: %w", url, err)
	}
	return nil
}

// postJSON sends body as JSON to path with the configured bearer token.
func (c *Client) postJSON(ctx context.Context, path string, body any) error {
	url := c.cfg.BaseURL + path
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("unable to encode %v request: %w", url, err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url,
		bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unable to post %v (new): %w", url, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("unable to post %v (do): %w", url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unable to post %v: http status: %v", url,
			resp.StatusCode)
	}
	return nil
}

// fetchDoc gets the HTML document at path using the configured
// User-Agent, for the scraping fallbacks.
func (c *Client) fetchDoc(ctx context.Context, path string) (*goquery.Document, error) {
	url := c.cfg.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
