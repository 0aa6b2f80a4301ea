// Package gateway provides gateways to the upstream services: spreadsheet tabs
// and the GitHub API.
package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

// DefaultSheetsBaseURL is the publish-to-web export root.
const DefaultSheetsBaseURL = "https://docs.google.com/spreadsheets/d/e/"

// maxTabBytes caps the size of a tab export. Larger exports are rejected.
const maxTabBytes = 8 << 20

// SheetFetcher retrieves the raw delimited text of one spreadsheet tab.
type SheetFetcher interface {
	FetchTab(ctx context.Context, spreadsheetID, tabID string) (string, error)
}

// PublishedSheetGateway reads tabs of a spreadsheet published to the web as CSV.
type PublishedSheetGateway struct {
	baseURL  string
	client   *http.Client
	timeout  time.Duration
	maxBytes int
	logger   *slog.Logger
}

// NewPublishedSheetGateway creates a gateway. An empty baseURL selects
// DefaultSheetsBaseURL; a nil client selects http.DefaultClient.
func NewPublishedSheetGateway(baseURL string, client *http.Client, timeout time.Duration, logger *slog.Logger) *PublishedSheetGateway {
	if baseURL == "" {
		baseURL = DefaultSheetsBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &PublishedSheetGateway{
		baseURL:  baseURL,
		client:   client,
		timeout:  timeout,
		maxBytes: maxTabBytes,
		logger:   logger,
	}
}

// FetchTab performs one GET with no retry. Transport failures, timeouts and
// non-200 statuses are returned as *domain.UpstreamError.
func (g *PublishedSheetGateway) FetchTab(ctx context.Context, spreadsheetID, tabID string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	u := fmt.Sprintf("%s%s/pub?gid=%s&single=true&output=csv", g.baseURL, url.PathEscape(spreadsheetID), url.QueryEscape(tabID))
	fail := func(err error) (string, error) {
		return "", &domain.UpstreamError{Source: "sheet", ID: tabID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "text/csv")

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(g.maxBytes)+1))
	if err != nil {
		return fail(fmt.Errorf("failed to read body: %w", err))
	}
	if len(body) > g.maxBytes {
		return fail(fmt.Errorf("export exceeds %d bytes", g.maxBytes))
	}
	g.logger.Debug("fetched sheet tab", "tab", tabID, "bytes", len(body), "duration", time.Since(started))
	return string(body), nil
}
