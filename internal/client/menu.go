package client

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"admin/access/internal/config"
	"admin/access/internal/domain"
)

const codeSuccess = 200

type MenuClient interface {
	FetchMenus(ctx context.Context) ([]domain.MenuNode, error)
}

type menuClient struct {
	rl         ratelimit.Limiter
	config     config.BackendConfig
	httpClient *resty.Client
}

func NewMenuClient(cfg config.BackendConfig) MenuClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json")

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &menuClient{
		rl:         ratelimit.New(rps),
		config:     cfg,
		httpClient: client,
	}
}

// FetchMenus loads the menu tree of the current user from the admin API.
// A successful response without data yields a nil slice.
func (c *menuClient) FetchMenus(ctx context.Context) ([]domain.MenuNode, error) {
	c.rl.Take()

	var envelope domain.Envelope[[]domain.MenuNode]
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get(c.config.MenuPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch menus: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if envelope.Code != codeSuccess {
		return nil, fmt.Errorf("menu API error: code %d: %s", envelope.Code, envelope.Message)
	}

	log.Debugf("Fetched %d top-level menus from %s", len(envelope.Data), c.config.MenuPath)
	return envelope.Data, nil
}
