package gateway

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

// SheetsAPIGateway reads tabs through the Sheets values API, which works for
// spreadsheets that are shared with a service account instead of published.
// Rows are re-encoded as delimited text so callers parse both sources alike.
//
// The gid to title mapping of each spreadsheet is cached, so a fetch costs a
// single values request once the mapping is known. The mapping is reloaded
// when a gid is missing from it or a read through a cached title fails.
type SheetsAPIGateway struct {
	srv     *sheets.Service
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	titles map[string]map[int64]string
	loads  singleflight.Group
}

// NewSheetsAPIGateway builds the Sheets client from opts, typically
// option.WithCredentialsFile and option.WithScopes.
func NewSheetsAPIGateway(ctx context.Context, timeout time.Duration, logger *slog.Logger, opts ...option.ClientOption) (*SheetsAPIGateway, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsAPIGateway{
		srv:     srv,
		timeout: timeout,
		logger:  logger,
		titles:  make(map[string]map[int64]string),
	}, nil
}

// FetchTab accepts a numeric gid, resolved to the sheet title, or a sheet title.
func (g *SheetsAPIGateway) FetchTab(ctx context.Context, spreadsheetID, tabID string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	fail := func(err error) (string, error) {
		return "", &domain.UpstreamError{Source: "sheet", ID: tabID, Err: err}
	}

	title, cached, err := g.sheetTitle(ctx, spreadsheetID, tabID)
	if err != nil {
		return fail(err)
	}

	resp, err := g.srv.Spreadsheets.Values.Get(spreadsheetID, quoteSheetTitle(title)).Context(ctx).Do()
	if err != nil {
		if cached {
			g.forget(spreadsheetID)
		}
		return fail(fmt.Errorf("failed to read values of %q: %w", title, err))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range resp.Values {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = fmt.Sprint(cell)
		}
		if err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("failed to encode row: %w", err))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(fmt.Errorf("failed to encode rows: %w", err))
	}

	g.logger.Debug("fetched sheet tab via API", "tab", tabID, "title", title, "rows", len(resp.Values))
	return buf.String(), nil
}

// sheetTitle resolves tabID to a sheet title. cached reports whether the
// title came from the cache rather than a fresh listing.
func (g *SheetsAPIGateway) sheetTitle(ctx context.Context, spreadsheetID, tabID string) (title string, cached bool, err error) {
	gid, err := strconv.ParseInt(tabID, 10, 64)
	if err != nil {
		return tabID, false, nil
	}

	g.mu.Lock()
	title, ok := g.titles[spreadsheetID][gid]
	g.mu.Unlock()
	if ok {
		return title, true, nil
	}

	titles, err := g.loadTitles(ctx, spreadsheetID)
	if err != nil {
		return "", false, err
	}
	if title, ok := titles[gid]; ok {
		return title, false, nil
	}
	return "", false, fmt.Errorf("no sheet with gid %d", gid)
}

// loadTitles lists the sheets of a spreadsheet once for all concurrent callers.
func (g *SheetsAPIGateway) loadTitles(ctx context.Context, spreadsheetID string) (map[int64]string, error) {
	v, err, _ := g.loads.Do(spreadsheetID, func() (any, error) {
		ss, err := g.srv.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties(sheetId,title)").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list sheets: %w", err)
		}
		titles := make(map[int64]string, len(ss.Sheets))
		for _, s := range ss.Sheets {
			if s.Properties != nil {
				titles[s.Properties.SheetId] = s.Properties.Title
			}
		}
		g.mu.Lock()
		g.titles[spreadsheetID] = titles
		g.mu.Unlock()
		g.logger.Debug("listed sheets", "spreadsheet", spreadsheetID, "sheets", len(titles))
		return titles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int64]string), nil
}

func (g *SheetsAPIGateway) forget(spreadsheetID string) {
	g.mu.Lock()
	delete(g.titles, spreadsheetID)
	g.mu.Unlock()
}

// quoteSheetTitle turns a title into an A1 range covering the whole sheet.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
