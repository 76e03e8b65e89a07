package hcloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/chzner/internal/config"
)

const (
	defaultPublicIPURL  = "https://ipv4.icanhazip.com"
	defaultPollInterval = 5 * time.Second
)

// RealClient implements InfrastructureManager using the Hetzner Cloud API.
type RealClient struct {
	client       *hcloud.Client
	timeouts     *config.Timeouts
	httpClient   *http.Client
	publicIPURL  string
	pollInterval time.Duration
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHTTPClient sets the HTTP client used for requests outside the Hetzner API.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.httpClient = hc
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// WithPublicIPURL overrides the service GetPublicIP asks.
func WithPublicIPURL(url string) ClientOption {
	return func(c *RealClient) {
		c.publicIPURL = url
	}
}

// WithPollInterval sets how often cleanup polls for resources to disappear.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *RealClient) {
		c.pollInterval = d
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client:       hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("chzner", "")),
		timeouts:     config.LoadTimeouts(),
		httpClient:   http.DefaultClient,
		publicIPURL:  defaultPublicIPURL,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetPublicIP returns the public IPv4 address of the host.
func (c *RealClient) GetPublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.publicIPURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("public ip lookup returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
