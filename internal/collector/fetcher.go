package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"StockLens/internal/model"
)

// Fetcher defines the interface for fetching market data. Series may be
// returned in either order; the Order tag says which.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	// FetchIntraday returns the 5-minute closes of a single day.
	FetchIntraday(ctx context.Context, symbol string, day time.Time) (model.Series, error)
	// FetchDaily returns daily closes between from and to inclusive.
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) (model.Series, error)
	// FetchSMA returns the daily simple moving average over period.
	FetchSMA(ctx context.Context, symbol string, period int) (model.Series, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
