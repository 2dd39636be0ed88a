package omada

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/observability/telemetry"
)

// Controller error codes that mean the cached token is no longer valid.
const (
	codeTokenExpired = -44112
	codeNotLoggedIn  = -1200
)

type Config struct {
	Host               string
	Port               int
	Username           string
	Password           string
	SiteID             string
	OmadacID           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

type BreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	MinRequests uint32
	FailureRate float64
}

// Client talks to a TP-Link Omada controller over its v2 HTTP API. Each
// instance holds one controller's session: the CSRF token plus the cookie
// jar the controller pairs it with.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger

	mu    sync.Mutex
	token string
}

type apiResponse struct {
	ErrorCode int             `json:"errorCode"`
	Msg       string          `json:"msg"`
	Result    json.RawMessage `json:"result"`
}

func NewClient(cfg Config, breakerCfg BreakerConfig, log *zap.Logger) *Client {
	jar, _ := cookiejar.New(nil)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("omada-%s", cfg.Host),
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerCfg.MinRequests {
				return false
			}
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRate >= breakerCfg.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Controller circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
			},
		},
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

func (c *Client) baseURL() string {
	return fmt.Sprintf("https://%s:%d/%s", c.cfg.Host, c.cfg.Port, c.cfg.OmadacID)
}

func (c *Client) siteURL(path string) string {
	return fmt.Sprintf("%s/api/v2/sites/%s%s", c.baseURL(), c.cfg.SiteID, path)
}

// login obtains a fresh CSRF token. Callers hold no lock; login serializes
// itself so concurrent expiries trigger a single re-login.
func (c *Client) login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	body := map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	}

	var result struct {
		Token string `json:"token"`
	}
	resp, err := c.send(ctx, http.MethodPost, c.baseURL()+"/api/v2/login", body, "")
	if err != nil {
		return err
	}
	if resp.ErrorCode != 0 {
		c.log.Warn("Controller rejected login",
			zap.String("host", c.cfg.Host),
			zap.Int("error_code", resp.ErrorCode),
			zap.String("msg", resp.Msg),
		)
		return domain.ErrAuthenticationFailed
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil || result.Token == "" {
		return domain.ErrAuthenticationFailed
	}

	c.token = result.Token
	return nil
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// call wraps send with token management: it logs in when no token is held
// and retries exactly once when the controller reports an expired session.
func (c *Client) call(ctx context.Context, method, url string, body interface{}) (*apiResponse, error) {
	if c.currentToken() == "" {
		if err := c.login(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.sendTransientRetry(ctx, method, url, body, c.currentToken())
	if err != nil {
		return nil, err
	}

	if resp.ErrorCode == codeTokenExpired || resp.ErrorCode == codeNotLoggedIn {
		if err := c.login(ctx); err != nil {
			return nil, err
		}
		resp, err = c.sendTransientRetry(ctx, method, url, body, c.currentToken())
		if err != nil {
			return nil, err
		}
	}

	if resp.ErrorCode != 0 {
		return nil, fmt.Errorf("omada: controller error %d: %s", resp.ErrorCode, resp.Msg)
	}
	return resp, nil
}

// sendTransientRetry gives a transient failure one more attempt. A
// controller that stays down trips the breaker, which bounds the repeats.
func (c *Client) sendTransientRetry(ctx context.Context, method, url string, body interface{}, token string) (*apiResponse, error) {
	resp, err := c.send(ctx, method, url, body, token)
	if err != nil && errors.Is(err, domain.ErrGatewayUnavailable) && ctx.Err() == nil {
		c.log.Debug("Retrying controller request after transient failure", zap.String("url", url))
		resp, err = c.send(ctx, method, url, body, token)
	}
	return resp, err
}

func (c *Client) send(ctx context.Context, method, url string, body interface{}, token string) (*apiResponse, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("omada: encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("omada: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Csrf-Token", token)
	}

	start := time.Now()
	raw, err := c.breaker.Execute(func() (interface{}, error) {
		httpResp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("controller returned status %d", httpResp.StatusCode)
		}

		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, err
		}
		return data, nil
	})
	telemetry.ControllerLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Warn("Controller request failed",
			zap.String("host", c.cfg.Host),
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	var resp apiResponse
	if err := json.Unmarshal(raw.([]byte), &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response", domain.ErrGatewayUnavailable)
	}
	return &resp, nil
}

// AuthorizeClient grants network access to a device for the given duration.
// The controller expects the duration in seconds and rate limits in Kbps.
func (c *Client) AuthorizeClient(ctx context.Context, mac string, duration time.Duration, uploadKbps, downloadKbps int) error {
	body := map[string]interface{}{
		"mac":      mac,
		"duration": int64(duration.Seconds()),
	}
	if uploadKbps > 0 {
		body["uploadLimit"] = uploadKbps
	}
	if downloadKbps > 0 {
		body["downloadLimit"] = downloadKbps
	}

	_, err := c.call(ctx, http.MethodPost, c.siteURL("/cmd/authorize-guest"), body)
	if err != nil {
		telemetry.ControllerRequestsTotal.WithLabelValues("authorize", "error").Inc()
		return err
	}

	telemetry.ControllerRequestsTotal.WithLabelValues("authorize", "success").Inc()
	c.log.Info("Client authorized on controller",
		zap.String("mac", mac),
		zap.Duration("duration", duration),
	)
	return nil
}

func (c *Client) BlockClient(ctx context.Context, mac string) error {
	body := map[string]interface{}{"mac": mac}

	_, err := c.call(ctx, http.MethodPost, c.siteURL("/cmd/unauthorize-guest"), body)
	if err != nil {
		telemetry.ControllerRequestsTotal.WithLabelValues("unauthorize", "error").Inc()
		return err
	}

	telemetry.ControllerRequestsTotal.WithLabelValues("unauthorize", "success").Inc()
	c.log.Info("Client unauthorized on controller", zap.String("mac", mac))
	return nil
}

func (c *Client) TestConnection(ctx context.Context) (*domain.ConnectionTest, error) {
	resp, err := c.call(ctx, http.MethodGet, c.baseURL()+"/api/v2/info", nil)
	if err != nil {
		return &domain.ConnectionTest{
			Success: false,
			Message: fmt.Sprintf("Connection failed: %v", err),
		}, nil
	}

	var info struct {
		Version string `json:"controllerVer"`
	}
	if len(resp.Result) > 0 {
		_ = json.Unmarshal(resp.Result, &info)
	}

	return &domain.ConnectionTest{
		Success: true,
		Message: "Connection successful",
		Version: info.Version,
	}, nil
}

func (c *Client) GetStatistics(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.call(ctx, http.MethodGet, c.siteURL("/stat"), nil)
	if err != nil {
		return nil, err
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(resp.Result, &stats); err != nil {
		return nil, fmt.Errorf("omada: decode statistics: %w", err)
	}
	return stats, nil
}

func (c *Client) GetAccessPoints(ctx context.Context) ([]map[string]interface{}, error) {
	return c.listSiteResource(ctx, "/eaps")
}

func (c *Client) GetClients(ctx context.Context) ([]map[string]interface{}, error) {
	return c.listSiteResource(ctx, "/clients")
}

// listSiteResource decodes the two list shapes the API uses: a bare array
// or a paginated object with a data field.
func (c *Client) listSiteResource(ctx context.Context, path string) ([]map[string]interface{}, error) {
	resp, err := c.call(ctx, http.MethodGet, c.siteURL(path), nil)
	if err != nil {
		return nil, err
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(resp.Result, &items); err == nil {
		return items, nil
	}

	var paged struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(resp.Result, &paged); err != nil {
		return nil, fmt.Errorf("omada: decode list %s: %w", path, err)
	}
	return paged.Data, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.currentToken() == "" {
		return nil
	}

	_, err := c.call(ctx, http.MethodPost, c.baseURL()+"/api/v2/logout", nil)

	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	return err
}
