package matchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/yungbote/carbonmatch-backend/internal/observability"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/yungbote/carbonmatch-backend/internal/pkg/errors"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/httpx"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

const (
	DefaultBestMatchPath    = "/get_best_match/"
	DefaultFetchTokenPath   = "/token/getapitoken/"
	DefaultRefreshTokenPath = "/token/refresh/"

	maxErrorBody = 2048
)

// Client talks to the external product/material matching service and its
// token endpoints.
type Client interface {
	// BestMatch runs a single-item match query. A response without an entry
	// for query yields an empty MatchResult, not an error.
	BestMatch(ctx context.Context, token, query string) (*MatchResult, error)
	// FetchToken obtains a new token pair using the static developer token.
	FetchToken(ctx context.Context) (TokenPair, error)
	// RefreshToken exchanges a refresh token for a new token pair.
	RefreshToken(ctx context.Context, refresh string) (TokenPair, error)
}

type Config struct {
	BaseURL        string
	DeveloperToken string
	Timeout        time.Duration
	// RequestsPerSecond caps outbound calls; 0 disables the limiter.
	RequestsPerSecond float64

	BestMatchPath    string
	FetchTokenPath   string
	RefreshTokenPath string

	HTTPClient *http.Client
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing MATCH_API_BASE_URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BestMatchPath == "" {
		cfg.BestMatchPath = DefaultBestMatchPath
	}
	if cfg.FetchTokenPath == "" {
		cfg.FetchTokenPath = DefaultFetchTokenPath
	}
	if cfg.RefreshTokenPath == "" {
		cfg.RefreshTokenPath = DefaultRefreshTokenPath
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return &client{
		log:        log.With("client", "MatchAPI"),
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

func (c *client) BestMatch(ctx context.Context, token, query string) (*MatchResult, error) {
	ctx, finish := observability.StartSpan(ctx, "matchapi.best_match", attribute.String("match.query", query))
	var err error
	defer func() { finish(err) }()

	if strings.TrimSpace(token) == "" {
		err = fmt.Errorf("best match: %w", pkgerrors.ErrCredentialFetch)
		return nil, err
	}
	body := BestMatchRequest{
		InputItems:          []string{query},
		IncludeProductData:  true,
		IncludeMaterialData: true,
	}
	var resp BestMatchResponse
	if err = c.do(ctx, "best match", http.MethodPost, c.cfg.BestMatchPath, token, body, &resp); err != nil {
		return nil, err
	}

	out := &MatchResult{}
	raw, ok := resp.Results[query]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		c.log.Warn("Match response has no entry for query", append(ctxutil.LogFields(ctx), "query", query)...)
		return out, nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		err = fmt.Errorf("best match: decode result: %w: %w", pkgerrors.ErrExternalService, err)
		return nil, err
	}
	out.Raw = raw
	return out, nil
}

func (c *client) FetchToken(ctx context.Context) (TokenPair, error) {
	ctx, finish := observability.StartSpan(ctx, "matchapi.fetch_token")
	var (
		pair TokenPair
		err  error
	)
	defer func() { finish(err) }()

	err = c.do(ctx, "fetch token", http.MethodGet, c.cfg.FetchTokenPath, c.cfg.DeveloperToken, nil, &pair)
	return pair, err
}

func (c *client) RefreshToken(ctx context.Context, refresh string) (TokenPair, error) {
	ctx, finish := observability.StartSpan(ctx, "matchapi.refresh_token")
	var (
		pair TokenPair
		err  error
	)
	defer func() { finish(err) }()

	if strings.TrimSpace(refresh) == "" {
		err = fmt.Errorf("refresh token: empty refresh token")
		return pair, err
	}
	err = c.do(ctx, "refresh token", http.MethodPost, c.cfg.RefreshTokenPath, "", refreshRequest{Refresh: refresh}, &pair)
	return pair, err
}

// do sends one JSON request. Transport failures, timeouts and non-2xx answers
// are all reported wrapped in ErrExternalService.
func (c *client) do(ctx context.Context, op, method, path, bearer string, body any, out any) error {
	ctx = ctxutil.Default(ctx)
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit: %w: %w", op, pkgerrors.ErrExternalService, err)
		}
	}

	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		reader = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Match API request failed",
			append(ctxutil.LogFields(ctx),
				"op", op,
				"path", path,
				"timeout", httpx.IsTimeout(err),
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)...,
		)
		return fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	c.log.Debug("Match API response",
		append(ctxutil.LogFields(ctx),
			"op", op,
			"path", path,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)...,
	)

	if !httpx.IsSuccess(resp.StatusCode) {
		statusErr := &httpx.StatusError{Op: op, StatusCode: resp.StatusCode, Body: httpx.BodySnippet(resp, maxErrorBody)}
		return fmt.Errorf("%w: %w", pkgerrors.ErrExternalService, statusErr)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w: %w", op, pkgerrors.ErrExternalService, err)
	}
	return nil
}
