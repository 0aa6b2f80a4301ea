package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/naka-gawa/portfolio-api/internal/domain"
	"github.com/naka-gawa/portfolio-api/internal/testutil"
)

func TestPublishedSheetGateway_FetchTab(t *testing.T) {
	testCases := []struct {
		name        string
		handlerFunc func(w http.ResponseWriter, r *http.Request)
		expected    string
		expectError bool
	}{
		{
			name: "happy path - returns the CSV body",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/sheet-1/pub", r.URL.Path)
				assert.Equal(t, "42", r.URL.Query().Get("gid"))
				assert.Equal(t, "true", r.URL.Query().Get("single"))
				assert.Equal(t, "csv", r.URL.Query().Get("output"))
				fmt.Fprint(w, "key,value\nsite_name,Portfolio\n")
			},
			expected: "key,value\nsite_name,Portfolio\n",
		},
		{
			name: "error case - non-success status",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tc.handlerFunc))
			defer server.Close()
			gateway := NewPublishedSheetGateway(server.URL+"/", server.Client(), time.Second, testutil.NewTestLogger(t))

			text, err := gateway.FetchTab(context.Background(), "sheet-1", "42")

			if tc.expectError {
				var upstreamErr *domain.UpstreamError
				require.True(t, errors.As(err, &upstreamErr))
				assert.Equal(t, "sheet", upstreamErr.Source)
				assert.Equal(t, "42", upstreamErr.ID)
				assert.Contains(t, err.Error(), "unexpected status 404")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, text)
		})
	}
}

func TestPublishedSheetGateway_FetchTab_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)
	gateway := NewPublishedSheetGateway(server.URL+"/", server.Client(), 50*time.Millisecond, testutil.NewTestLogger(t))

	_, err := gateway.FetchTab(context.Background(), "sheet-1", "7")

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPublishedSheetGateway_FetchTab_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "key,en\nbio,Hello\n")
	}))
	defer server.Close()
	gateway := NewPublishedSheetGateway(server.URL+"/", server.Client(), time.Second, testutil.NewTestLogger(t))

	gateway.maxBytes = len("key,en\nbio,Hello\n")
	text, err := gateway.FetchTab(context.Background(), "sheet-1", "7")
	require.NoError(t, err)
	assert.Equal(t, "key,en\nbio,Hello\n", text)

	gateway.maxBytes = 10
	text, err = gateway.FetchTab(context.Background(), "sheet-1", "7")
	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Contains(t, err.Error(), "export exceeds 10 bytes")
	assert.Empty(t, text)
}

func TestSheetsAPIGateway_FetchTab(t *testing.T) {
	var listCalls atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v4/spreadsheets/sheet-1":
			listCalls.Add(1)
			fmt.Fprint(w, `{"sheets":[{"properties":{"sheetId":0,"title":"_meta"}},{"properties":{"sheetId":123,"title":"About"}}]}`)
		case "/v4/spreadsheets/sheet-1/values/'About'":
			fmt.Fprint(w, `{"range":"About!A1:C3","majorDimension":"ROWS","values":[["key","en","id"],["bio","Hello, world","Halo"],["motto","say \"hi\""]]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":404,"message":"not found"}}`)
		}
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	gateway, err := NewSheetsAPIGateway(context.Background(), time.Second, testutil.NewTestLogger(t),
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	t.Run("happy path - gid resolves to a title", func(t *testing.T) {
		text, err := gateway.FetchTab(context.Background(), "sheet-1", "123")
		require.NoError(t, err)
		assert.Equal(t, "key,en,id\nbio,\"Hello, world\",Halo\nmotto,\"say \"\"hi\"\"\"\n", text)
		assert.Equal(t, int32(1), listCalls.Load())
	})

	t.Run("happy path - known gid skips the sheet listing", func(t *testing.T) {
		_, err := gateway.FetchTab(context.Background(), "sheet-1", "123")
		require.NoError(t, err)
		assert.Equal(t, int32(1), listCalls.Load())
	})

	t.Run("error case - unknown gid", func(t *testing.T) {
		_, err := gateway.FetchTab(context.Background(), "sheet-1", "999")
		var upstreamErr *domain.UpstreamError
		require.True(t, errors.As(err, &upstreamErr))
		assert.Contains(t, err.Error(), "no sheet with gid 999")
		assert.Equal(t, int32(2), listCalls.Load())
	})

	t.Run("error case - failed read through a cached title reloads the listing", func(t *testing.T) {
		_, err := gateway.FetchTab(context.Background(), "sheet-1", "0")
		var upstreamErr *domain.UpstreamError
		require.True(t, errors.As(err, &upstreamErr))
		assert.Contains(t, err.Error(), `failed to read values of "_meta"`)

		_, err = gateway.FetchTab(context.Background(), "sheet-1", "123")
		require.NoError(t, err)
		assert.Equal(t, int32(3), listCalls.Load())
	})

	t.Run("error case - unknown title", func(t *testing.T) {
		_, err := gateway.FetchTab(context.Background(), "sheet-1", "Missing")
		var upstreamErr *domain.UpstreamError
		require.True(t, errors.As(err, &upstreamErr))
		assert.Equal(t, "Missing", upstreamErr.ID)
	})
}

func TestQuoteSheetTitle(t *testing.T) {
	assert.Equal(t, "'About'", quoteSheetTitle("About"))
	assert.Equal(t, "'Ben''s tab'", quoteSheetTitle("Ben's tab"))
}
