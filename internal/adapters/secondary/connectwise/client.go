package connectwise

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	json "github.com/goccy/go-json"

	"github.com/lorrc/cw-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/cw-dashboard/internal/core/errors"
	"github.com/lorrc/cw-dashboard/internal/core/ports"
	"github.com/lorrc/cw-dashboard/internal/infrastructure/metrics"
)

const (
	apiBasePath        = "/v4_6_release/apis/3.0"
	serviceTicketsPath = "/service/tickets"

	// Transport failures are retried a bounded number of times with
	// jittered backoff. Protocol failures never are.
	maxTransportRetries = 2
)

// Config holds the upstream connection settings for one client.
type Config struct {
	Site       string
	Company    string
	PublicKey  string
	PrivateKey string
	ClientID   string
	Proxy      string
	VerifySSL  bool
	PageSize   int
	Timeout    time.Duration

	// BaseURL overrides the URL derived from Site. Used by tests.
	BaseURL string
}

// Client talks to the ConnectWise REST API. It is the secondary adapter
// behind ports.TicketSource: one authenticated page request at a time,
// driven across pages until the collection is exhausted.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

var _ ports.TicketSource = (*Client)(nil)

// New creates a ConnectWise client. The returned client carries no mutable
// state beyond its connection pool and is safe for concurrent use.
func New(cfg Config, logger *slog.Logger, recorder metrics.Recorder) (*Client, error) {
	if cfg.PageSize < 1 {
		cfg.PageSize = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	transport := &http.Transport{}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + cfg.Site + apiBasePath
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger:  logger.With("adapter", "connectwise"),
		metrics: recorder,
	}, nil
}

// GetTickets retrieves the complete set of tickets matching the query,
// paging until a page comes back short or empty. A collection whose size is
// an exact multiple of the page size costs one extra empty-page request;
// termination relies on the empty check, not the size comparison alone.
// Any page failure aborts the retrieval with no partial results.
func (c *Client) GetTickets(ctx context.Context, query ports.TicketQuery) ([]domain.Ticket, error) {
	var all []domain.Ticket

	page := 1
	for {
		batch, err := c.getPage(ctx, query, page)
		if err != nil {
			c.metrics.ObservePagesPerQuery(page)
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < c.cfg.PageSize {
			break
		}
		page++
	}

	c.metrics.ObservePagesPerQuery(page)
	c.logger.Debug("retrieval complete",
		"pages", page,
		"tickets", len(all),
	)
	return all, nil
}

// getPage issues one paged request. Transport errors are retried with
// jittered exponential backoff; a non-2xx status or an unreadable body is
// permanent.
func (c *Client) getPage(ctx context.Context, query ports.TicketQuery, page int) ([]domain.Ticket, error) {
	requestURL := c.pageURL(query, page)

	var batch []domain.Ticket
	operation := func() error {
		start := time.Now()
		tickets, err := c.doPage(ctx, requestURL)
		c.metrics.ObserveUpstreamDuration(time.Since(start))
		if err != nil {
			if ue, ok := apperrors.AsUpstream(err); ok && ue.Kind == apperrors.KindProtocol {
				c.metrics.IncUpstreamRequests("protocol_error")
				return backoff.Permanent(err)
			}
			c.metrics.IncUpstreamRequests("transport_error")
			return err
		}
		c.metrics.IncUpstreamRequests("success")
		batch = tickets
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxTransportRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.Warn("page request failed",
			"page", page,
			"error", err,
		)
		return nil, err
	}
	return batch, nil
}

func (c *Client) doPage(ctx context.Context, requestURL string) ([]domain.Ticket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, apperrors.NewTransportError(serviceTicketsPath, err)
	}
	c.setAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError(serviceTicketsPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, apperrors.NewProtocolError(serviceTicketsPath, resp.StatusCode, nil)
	}

	var tickets []domain.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		return nil, apperrors.NewProtocolError(serviceTicketsPath, 0, fmt.Errorf("decode response: %w", err))
	}
	return tickets, nil
}

func (c *Client) pageURL(query ports.TicketQuery, page int) string {
	params := url.Values{}
	if query.Conditions != "" {
		params.Set("conditions", query.Conditions)
	}
	if query.Fields != "" {
		params.Set("fields", query.Fields)
	}
	if query.OrderBy != "" {
		params.Set("orderBy", query.OrderBy)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(c.cfg.PageSize))

	return c.baseURL + serviceTicketsPath + "?" + params.Encode()
}

// setAuthHeaders applies the ConnectWise authentication scheme: Basic auth
// over "company+publicKey:privateKey" plus the clientId header.
func (c *Client) setAuthHeaders(req *http.Request) {
	creds := c.cfg.Company + "+" + c.cfg.PublicKey + ":" + c.cfg.PrivateKey
	encoded := base64.StdEncoding.EncodeToString([]byte(creds))

	req.Header.Set("Authorization", "Basic "+encoded)
	req.Header.Set("clientId", c.cfg.ClientID)
	req.Header.Set("Content-Type", "application/json")
}
