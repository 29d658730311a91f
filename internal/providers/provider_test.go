package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

func TestMockProvider_Deterministic(t *testing.T) {
	p := NewMockProvider()
	tickers := []string{"GME", "AMC", "PLTR"}

	first, err := p.FetchQuotes(context.Background(), tickers, models.ScanRequest{})
	require.NoError(t, err)
	second, err := p.FetchQuotes(context.Background(), tickers, models.ScanRequest{})
	require.NoError(t, err)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, *first[i].Price, *second[i].Price, "mock quotes must be deterministic per symbol")
		assert.True(t, first[i].Complete())
	}
}

func TestFinnhubProvider_RequiresKey(t *testing.T) {
	_, err := NewFinnhubProvider("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestFinnhubProvider_QuoteDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "GME":
			json.NewEncoder(w).Encode(map[string]interface{}{"c": 24.5, "pc": 22.0, "t": 1_756_000_000})
		case "ZZZZ":
			// Unknown ticker: finnhub answers with an all-zero body.
			json.NewEncoder(w).Encode(map[string]interface{}{"c": 0, "pc": 0, "t": 0})
		default:
			w.Write([]byte("not json"))
		}
	}))
	defer server.Close()

	p := &FinnhubProvider{apiKey: "test", baseURL: server.URL, client: server.Client()}

	quotes, err := p.FetchQuotes(context.Background(), []string{"GME", "ZZZZ", "BAD"}, models.ScanRequest{})
	require.NoError(t, err, "per-ticker failures must not fail the call")
	require.Len(t, quotes, 1, "zero bodies and malformed payloads are dropped")
	assert.Equal(t, "GME", quotes[0].Ticker)
	assert.Equal(t, 24.5, *quotes[0].Price)
	assert.Equal(t, 22.0, *quotes[0].PrevClose)
	assert.Nil(t, quotes[0].Volume, "finnhub quotes carry no volume")
}

func TestFinnhubProvider_NewsDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"headline": "Earnings beat", "summary": "s", "url": "https://x", "datetime": 1_756_000_000, "category": "company"},
			{"headline": "", "datetime": 0},
		})
	}))
	defer server.Close()

	p := &FinnhubProvider{apiKey: "test", baseURL: server.URL, client: server.Client()}

	items, err := p.FetchNews(context.Background(), []string{"GME"}, models.ScanRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1, "items without headlines are dropped")
	assert.Equal(t, "Earnings beat", items[0].Headline)
	assert.Equal(t, "GME", items[0].Ticker)

	_, err = time.Parse(time.RFC3339, items[0].Datetime)
	assert.NoError(t, err, "datetime must be normalized to RFC3339")
}

func TestFinnhubProvider_HTTPErrorIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := &FinnhubProvider{apiKey: "test", baseURL: server.URL, client: server.Client()}

	quotes, err := p.FetchQuotes(context.Background(), []string{"GME", "AMC"}, models.ScanRequest{})
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

type failingQuotes struct{ calls int }

func (f *failingQuotes) Name() string { return "failing" }

func (f *failingQuotes) FetchQuotes(context.Context, []string, models.ScanRequest) ([]models.RawQuote, error) {
	f.calls++
	return nil, errors.New("vendor down")
}

func TestGuard_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingQuotes{}
	cfg := GuardConfig{RPS: 1000, Burst: 1000, FailureThreshold: 3, OpenTimeout: time.Minute}
	guarded := GuardQuotes(inner, cfg)

	for i := 0; i < 5; i++ {
		_, err := guarded.FetchQuotes(context.Background(), []string{"GME"}, models.ScanRequest{})
		require.Error(t, err)
	}

	assert.Equal(t, "open", guarded.Guard().State())
	assert.Equal(t, 3, inner.calls, "an open breaker must stop calling the vendor")
}

func TestGuard_LimiterHonorsContext(t *testing.T) {
	inner := NewMockProvider()
	cfg := GuardConfig{RPS: 0.001, Burst: 1, FailureThreshold: 10, OpenTimeout: time.Minute}
	guarded := GuardQuotes(inner, cfg)

	// First call consumes the burst token.
	_, err := guarded.FetchQuotes(context.Background(), []string{"GME"}, models.ScanRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = guarded.FetchQuotes(ctx, []string{"GME"}, models.ScanRequest{})
	assert.Error(t, err, "exhausted limiter must respect context deadline")
}

func TestRegistry_PreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.RegisterQuotes(NewMockProvider())
	mock2 := NewMockProvider()
	r.RegisterQuotes(GuardQuotes(mock2, DefaultGuardConfig()))

	require.Len(t, r.QuoteProviders(), 2)
	assert.Equal(t, "mock", r.QuoteProviders()[0].Name())
	assert.Empty(t, r.NewsProviders())
}
