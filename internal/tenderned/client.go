package tenderned

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infralogger "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/metrics"
)

// DefaultBaseURL is the root of the TNS v2 API.
const DefaultBaseURL = "https://www.tenderned.nl/papi/tenderned-rs-tns/v2"

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client retrieves notice documents. It holds no mutable state after construction.
type Client struct {
	doer    Doer
	baseURL string
	log     infralogger.Logger
	metrics *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL. A trailing slash is ignored.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithMetrics records request counts and latency on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Client sending requests through doer, normally a session from
// NewSession.
func NewClient(doer Doer, log infralogger.Logger, opts ...Option) *Client {
	c := &Client{
		doer:    doer,
		baseURL: DefaultBaseURL,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NoticeURL returns the public XML endpoint of one publication.
func NoticeURL(baseURL string, id domain.PublicationID) string {
	return fmt.Sprintf("%s/publicaties/%d/public-xml", strings.TrimRight(baseURL, "/"), int64(id))
}

// FetchNoticeXML returns the raw XML body of a publication. Any status outside
// 200-299 yields a KindHTTP *domain.Error and no body; network failures yield
// KindTransport.
func (c *Client) FetchNoticeXML(ctx context.Context, id domain.PublicationID) (string, error) {
	if !id.Valid() {
		return "", &domain.Error{
			Kind:    domain.KindValidation,
			Message: fmt.Sprintf("invalid publication id %d", int64(id)),
		}
	}

	url := NoticeURL(c.baseURL, id)
	c.log.Info("Retrieving notice", infralogger.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", domain.NewTransportError(fmt.Errorf("create request: %w", err), url)
	}
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.observe(0, start)
		return "", domain.NewTransportError(err, url)
	}
	defer resp.Body.Close()

	if !domain.IsSuccessStatus(resp.StatusCode) {
		c.observe(resp.StatusCode, start)
		return "", domain.NewHTTPError(resp, url)
	}

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.observe(resp.StatusCode, start)
	if err != nil {
		return "", domain.NewTransportError(fmt.Errorf("read response body: %w", err), url)
	}

	c.log.Debug("Notice retrieved",
		infralogger.String("url", url),
		infralogger.Int("status", resp.StatusCode),
		infralogger.Int("bytes", len(body)),
		infralogger.Duration("elapsed", elapsed),
	)

	return string(body), nil
}

func (c *Client) observe(code int, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveRequest(code, time.Since(start))
	}
}
