package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Mingyu-Kim/IotWebConfLite/internal/logging"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/portal"
	"github.com/Mingyu-Kim/IotWebConfLite/internal/version"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// ConfigPath is the path of the config page
	ConfigPath = "/config"
)

// Client talks to a config portal over HTTP
type Client struct {
	// BaseURL is the base URL for the portal (e.g., "http://192.168.4.1")
	BaseURL string

	// Username for HTTP Basic Auth (default: "admin")
	Username string

	// Password for HTTP Basic Auth, the AP password of the device
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool
}

// NewClient creates a client for the portal at ip:port
func NewClient(ip string, port int, password string) *Client {
	return NewClientWithURL("http://"+net.JoinHostPort(ip, strconv.Itoa(port)), password)
}

// NewClientWithURL creates a new client with a full base URL
func NewClientWithURL(baseURL, password string) *Client {
	return &Client{
		BaseURL:               strings.TrimSuffix(baseURL, "/"),
		Username:              portal.AdminUser,
		Password:              password,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// retry runs attempt until it succeeds, fails with a non-retryable error,
// runs out of attempts or ctx is done.
func (c *Client) retry(ctx context.Context, op string, attempt func() error) error {
	var lastErr error
	currentDelay := c.RetryDelay

	for i := 0; i <= c.MaxRetries; i++ {
		if i > 0 {
			logging.Debug("Retrying portal request",
				zap.String("op", op),
				zap.Int("attempt", i),
				zap.Duration("delay", currentDelay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return NewNetworkError(op+" cancelled", ctx.Err())
			case <-time.After(currentDelay):
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return err
		}
	}
	return lastErr
}

// do sends one request and checks the status code.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	req.SetBasicAuth(c.Username, c.Password)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(op+" failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewAuthError("authentication failed (check the AP password)")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}
	return body, nil
}

// Ping performs a simple health check on the portal
func (c *Client) Ping(ctx context.Context) error {
	return c.retry(ctx, "ping", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
		if err != nil {
			return NewValidationError("failed to create ping request: " + err.Error())
		}
		_, err = c.do(req, "ping")
		return err
	})
}

// FetchForm retrieves and parses the config page
func (c *Client) FetchForm(ctx context.Context) (*Form, error) {
	var form *Form
	err := c.retry(ctx, "fetch", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+ConfigPath, nil)
		if err != nil {
			return NewValidationError("failed to create GET request: " + err.Error())
		}
		body, err := c.do(req, "GET request")
		if err != nil {
			return err
		}
		form, err = ParseForm(bytes.NewReader(body))
		return err
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

// Submit posts values to the config page. A rejected submission returns the
// re-rendered form together with an error carrying the field messages.
func (c *Client) Submit(ctx context.Context, values url.Values) (*Form, error) {
	data := url.Values{}
	for k, v := range values {
		data[k] = append([]string(nil), v...)
	}
	data.Set(portal.SaveMarker, "true")
	encoded := data.Encode()

	var form *Form
	err := c.retry(ctx, "submit", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+ConfigPath, strings.NewReader(encoded))
		if err != nil {
			return NewValidationError("failed to create POST request: " + err.Error())
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		body, err := c.do(req, "POST request")
		if err != nil {
			return err
		}
		form, err = ParseForm(bytes.NewReader(body))
		return err
	})
	if err != nil {
		return nil, err
	}
	if !form.Saved {
		return form, NewRejectedError(form.Errors())
	}
	logging.Info("Portal accepted configuration", zap.String("url", c.BaseURL), zap.Int("fields", len(data)-1))
	return form, nil
}

// Set changes the given parameters and keeps every other value as it is on
// the portal. It returns the form the overrides were applied to, so callers
// can look up field types.
func (c *Client) Set(ctx context.Context, overrides map[string]string) (*Form, error) {
	current, err := c.FetchForm(ctx)
	if err != nil {
		return nil, err
	}
	if current.Saved {
		return nil, NewParseError("config page has no form", nil)
	}

	values := current.Values()
	if err := current.Apply(values, overrides); err != nil {
		return current, err
	}
	_, err = c.Submit(ctx, values)
	return current, err
}
