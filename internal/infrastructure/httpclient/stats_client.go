package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatsClient reads the public endpoints of a running deployment.
type StatsClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewStatsClient creates a client for the deployment at baseURL.
func NewStatsClient(baseURL string, timeout time.Duration, logger *zap.Logger) *StatsClient {
	return &StatsClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("StatsClient"),
	}
}

// GetText fetches path and returns the body as text.
func (c *StatsClient) GetText(ctx context.Context, path string) (string, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetCirculating fetches the default /circulating body.
func (c *StatsClient) GetCirculating(ctx context.Context) (*CirculatingPayload, error) {
	var out CirculatingPayload
	if err := c.getJSON(ctx, "/circulating", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPool fetches the default /pool body.
func (c *StatsClient) GetPool(ctx context.Context) (*PoolPayload, error) {
	var out PoolPayload
	if err := c.getJSON(ctx, "/pool", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *StatsClient) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w. Body: %s", path, err, string(body))
	}
	return nil
}

func (c *StatsClient) get(ctx context.Context, path string) ([]byte, error) {
	requestURL := c.baseURL + path
	c.logger.Debug("Requesting stats endpoint", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	// resp is released on return, so copy the body out.
	body := append([]byte(nil), resp.Body()...)
	if resp.StatusCode() != fasthttp.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s failed with status %d: %s", requestURL, resp.StatusCode(), apiErr.Error)
		}
		return nil, fmt.Errorf("%s failed with status %d: %s", requestURL, resp.StatusCode(), string(body))
	}
	return body, nil
}
