package ofx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/BarakBinyamin/ofxpostern/internal/common"
	"github.com/BarakBinyamin/ofxpostern/internal/interfaces"
	"github.com/BarakBinyamin/ofxpostern/internal/models"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second
	DefaultUserAgent = "InetClntApp/3.0"

	contentTypeOFX = "application/x-ofx"
)

// Client implements the OFXClient interface over HTTP/HTTPS.
type Client struct {
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	userAgent  string
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with requests. OFX
// servers are known to reject unfamiliar agents, so the default imitates
// a desktop finance client.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new OFX client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:    common.NewSilentLogger(),
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RequestError represents a failed protocol exchange
type RequestError struct {
	StatusCode  int
	RequestName string
	URL         string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("OFX request failed: %s (status: %d, url: %s)", e.RequestName, e.StatusCode, e.URL)
}

// SendRequest issues the named request against the identity. The call
// blocks until the exchange completes; it is not retried on failure.
func (c *Client) SendRequest(ctx context.Context, requestName string, identity models.ServerIdentity) (*models.OFXResponse, error) {
	var body string
	switch requestName {
	case RequestNameProfile:
		body = buildProfileRequest(identity, time.Now())
	default:
		return nil, fmt.Errorf("unknown request name: %q", requestName)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, identity.URL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeOFX)
	req.Header.Set("Accept", contentTypeOFX+", */*")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().Str("url", identity.URL).Str("request", requestName).Msg("OFX request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			StatusCode:  resp.StatusCode,
			RequestName: requestName,
			URL:         identity.URL,
		}
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	result := &models.OFXResponse{
		Headers: headers,
		Text:    string(respBody),
		Status:  resp.StatusCode,
	}

	if resp.TLS != nil && len(resp.TLS.PeerCertificates) > 0 {
		cert := resp.TLS.PeerCertificates[0]
		result.TLS = models.TLSInfo{
			Subject:   cert.Subject.String(),
			Issuer:    cert.Issuer.String(),
			NotAfter:  cert.NotAfter,
			NotBefore: cert.NotBefore,
		}
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(respBody)).
		Msg("OFX response")

	return result, nil
}

// Ensure Client implements OFXClient
var _ interfaces.OFXClient = (*Client)(nil)
