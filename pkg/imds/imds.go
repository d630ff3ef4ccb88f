// Package imds fetches instance addresses from the EC2 metadata service,
// used to self-register the host's own domains at startup.
package imds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

const (
	baseURL       = "http://169.254.169.254"
	tokenPath     = "/latest/api/token"
	publicIPPath  = "/latest/meta-data/public-ipv4"
	privateIPPath = "/latest/meta-data/local-ipv4"

	tokenTTLHeader = "X-aws-ec2-metadata-token-ttl-seconds"
	tokenHeader    = "X-aws-ec2-metadata-token"
)

// Client talks IMDSv2: a session token is fetched first and presented on
// every metadata read.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client with a short transport timeout.
func NewClient() *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PublicIPv4 returns the instance's public IPv4 address. Instances without
// one return an error.
func (c *Client) PublicIPv4(ctx context.Context) (netip.Addr, error) {
	return c.fetchAddr(ctx, publicIPPath)
}

// PrivateIPv4 returns the instance's primary private IPv4 address.
func (c *Client) PrivateIPv4(ctx context.Context) (netip.Addr, error) {
	return c.fetchAddr(ctx, privateIPPath)
}

func (c *Client) fetchAddr(ctx context.Context, path string) (netip.Addr, error) {
	token, err := c.fetchToken(ctx)
	if err != nil {
		return netip.Addr{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return netip.Addr{}, err
	}
	req.Header.Set(tokenHeader, token)

	body, err := c.do(req)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("fetching %s: %w", path, err)
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(body))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parsing instance address %q: %w", body, err)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("instance address %s is not IPv4", addr)
	}
	return addr, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+tokenPath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set(tokenTTLHeader, "30")

	token, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("fetching IMDSv2 token: %w", err)
	}
	return token, nil
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata service returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
