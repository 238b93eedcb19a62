package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/minicms-backend/internal/platform/ctxutil"
	"github.com/yungbote/minicms-backend/internal/platform/httpx"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
)

const defaultBaseURL = "https://api.github.com"

type Config struct {
	BaseURL    string
	Token      string
	Branch     string
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string

	CommitterName  string
	CommitterEmail string
}

// StatusError is a non-2xx response from the GitHub API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("github %s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

// StatusCode extracts the HTTP status from a GitHub error, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

type Client struct {
	log        *logger.Logger
	cfg        Config
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

func NewClient(log *logger.Logger, cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "minicms-backend"
	}
	return &Client{
		log:        log.With("client", "GitHubClient"),
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tracer:     otel.Tracer("minicms/github"),
	}
}

func (c *Client) token(ctx context.Context) string {
	if tok := ctxutil.AccessToken(ctx); tok != "" {
		return tok
	}
	return c.cfg.Token
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiMsg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &apiMsg)
		return resp, raw, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: apiMsg.Message}
	}
	return resp, raw, nil
}

// do sends one request. Only GETs are retried: a repeated PUT whose first attempt
// landed would fail the revision check and misreport a committed write.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	ctx, span := c.tracer.Start(ctx, "github "+method, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("github.path", path),
	))
	defer span.End()

	retries := 0
	if method == http.MethodGet {
		retries = c.cfg.MaxRetries
	}
	backoff := 500 * time.Millisecond

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, raw, err := c.doOnce(ctx, method, path, body)
		if resp != nil {
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		}
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				span.RecordError(uErr)
				return fmt.Errorf("github decode %s: %w", path, uErr)
			}
			return nil
		}
		if attempt >= retries || !httpx.IsRetryableError(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("GitHub request retrying",
			"method", method,
			"path", path,
			"attempt", attempt+1,
			"max_retries", retries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return err
		}
		backoff *= 2
	}
}
