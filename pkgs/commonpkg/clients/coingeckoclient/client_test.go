package coingeckoclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const (
	coinListBody = `[
		{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin"},
		{"id": "ethereum", "symbol": "eth", "name": "Ethereum"},
		{"id": "chromaway", "symbol": "chr", "name": "Chromia"}
	]`
	priceBody = `{"bitcoin": {
		"usd": 64250.5, "usd_market_cap": 1265000000000, "usd_24h_vol": 30000000000,
		"usd_24h_change": -1.25, "btc": 1, "eth": 19.4, "last_updated_at": 1717171717
	}}`
	coinBody = `{
		"id": "bitcoin", "symbol": "btc", "name": "Bitcoin",
		"asset_platform_id": null, "genesis_date": "2009-01-03", "market_cap_rank": 1,
		"sentiment_votes_up_percentage": 82.5,
		"description": {"en": "Bitcoin is the first decentralized cryptocurrency."},
		"links": {"homepage": ["", "http://www.bitcoin.org"], "repos_url": {"github": ["https://github.com/bitcoin/bitcoin", ""]}}
	}`
	chartBody = `{"prices": [[1,10],[2,11],[3,12],[4,13],[5,14],[6,15],[7,16],[8,17],[9,18]]}`
)

type fakeAPI struct {
	server    *httptest.Server
	listCalls atomic.Int32

	mu      sync.Mutex
	apiKeys []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	api := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/coins/list", func(w http.ResponseWriter, r *http.Request) {
		api.listCalls.Add(1)
		api.record(r)
		w.Write([]byte(coinListBody))
	})
	mux.HandleFunc("/simple/price", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd,btc,eth", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))
		w.Write([]byte(priceBody))
	})
	mux.HandleFunc("/coins/bitcoin", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		assert.Equal(t, "false", r.URL.Query().Get("localization"))
		w.Write([]byte(coinBody))
	})
	mux.HandleFunc("/coins/bitcoin/market_chart", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		w.Write([]byte(chartBody))
	})
	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) record(r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.apiKeys = append(a.apiKeys, r.Header.Get(API_KEY_HEADER))
}

func newTestClient(baseURL string, cache IDCache) *client {
	return New(Config{BaseURL: baseURL, APIKey: "cg-test", Timeout: 5 * time.Second}, NewThrottle(0), cache)
}

////////////////////////////////////////////////////////////////////////////////

func TestGetCoinInfo(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(api.server.URL, nil)

	snapshot, err := c.GetCoinInfo(context.Background(), "bitcoin")
	require.NoError(t, err)

	assert.Equal(t, "Bitcoin", snapshot.Name)
	assert.Equal(t, "BTC", snapshot.Symbol)
	require.NotNil(t, snapshot.CurrentPrice)
	assert.Equal(t, 64250.5, *snapshot.CurrentPrice)
	require.NotNil(t, snapshot.PriceChange24h)
	assert.Equal(t, -1.25, *snapshot.PriceChange24h)
	require.NotNil(t, snapshot.CurrentETHPrice)
	assert.Equal(t, 19.4, *snapshot.CurrentETHPrice)
	require.NotNil(t, snapshot.MarketRank)
	assert.Equal(t, int64(1), *snapshot.MarketRank)
	assert.Equal(t, "Native", snapshot.Blockchain)
	assert.Equal(t, "2009-01-03", snapshot.GenesisDate)
	assert.Equal(t, "http://www.bitcoin.org", snapshot.Homepage)
	assert.Equal(t, []string{"https://github.com/bitcoin/bitcoin"}, snapshot.Github)
	assert.Equal(t, "Bitcoin is the first decentralized cryptocurrency.", snapshot.Description)

	require.Len(t, snapshot.PriceHistory, PRICE_HISTORY_LIMIT)
	assert.Equal(t, int64(3), snapshot.PriceHistory[0].Time)
	assert.Equal(t, 18.0, snapshot.PriceHistory[6].Price)

	for _, key := range api.apiKeys {
		assert.Equal(t, "cg-test", key)
	}
}

func TestResolveCoinID(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(api.server.URL, nil)
	ctx := context.Background()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Bitcoin", want: "bitcoin"},
		{input: "ETH", want: "ethereum"},
		{input: "chr", want: "chromaway"},
		{input: "  chromia ", want: "chromaway"},
	}
	for _, tt := range tests {
		id, err := c.ResolveCoinID(ctx, tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, id, tt.input)
	}

	_, err := c.ResolveCoinID(ctx, "NotACoin")
	assert.ErrorIs(t, err, ErrCoinNotFound)

	_, err = c.GetCoinInfo(ctx, "NotACoin")
	assert.ErrorIs(t, err, ErrCoinNotFound)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryCache) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.data[key]
	return id, ok, nil
}

func (m *memoryCache) Put(key, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = id
	return nil
}

func TestResolveCoinIDUsesCache(t *testing.T) {
	api := newFakeAPI(t)
	cache := &memoryCache{data: map[string]string{}}
	c := newTestClient(api.server.URL, cache)

	for i := 0; i < 3; i++ {
		id, err := c.ResolveCoinID(context.Background(), "BTC")
		require.NoError(t, err)
		assert.Equal(t, "bitcoin", id)
	}

	assert.Equal(t, int32(1), api.listCalls.Load())
	assert.Equal(t, "bitcoin", cache.data["btc"])
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnexpectedStatus},
		{name: "server error", status: http.StatusBadGateway, wantErr: ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error": "nope"}`))
			}))
			defer server.Close()

			c := newTestClient(server.URL, nil)
			_, err := c.GetCoinList(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUnexpectedStatusCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid key"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, nil).GetCoinList(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API Error (403): invalid key")
}

func TestRequestsAreThrottled(t *testing.T) {
	var (
		mu     sync.Mutex
		starts []time.Time
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		w.Write([]byte(coinListBody))
	}))
	defer server.Close()

	interval := 30 * time.Millisecond
	c := New(Config{BaseURL: server.URL, APIKey: "k"}, NewThrottle(interval), nil)

	for i := 0; i < 4; i++ {
		_, err := c.GetCoinList(context.Background())
		require.NoError(t, err)
	}

	require.Len(t, starts, 4)
	total := starts[3].Sub(starts[0])
	assert.GreaterOrEqual(t, total, 3*interval-5*time.Millisecond)
}

func TestBuildSnapshotDefaults(t *testing.T) {
	snapshot := buildSnapshot("abc coin", parse(`{}`), parse(`{"symbol": "abc"}`), parse(`{}`))

	assert.Equal(t, "abc coin", snapshot.Name)
	assert.Equal(t, "ABC", snapshot.Symbol)
	assert.Nil(t, snapshot.CurrentPrice)
	assert.Nil(t, snapshot.MarketRank)
	assert.Equal(t, "Native", snapshot.Blockchain)
	assert.Equal(t, "Unknown", snapshot.GenesisDate)
	assert.Equal(t, "Unknown", snapshot.Homepage)
	assert.Equal(t, "No description available", snapshot.Description)
	assert.Empty(t, snapshot.PriceHistory)
}

func TestBuildSnapshotStripsLinkTargets(t *testing.T) {
	data := parse(`{"name": "Bitcoin", "description": {"en": "See <a href=\"https://bitcoin.org\">bitcoin.org</a>."}}`)
	snapshot := buildSnapshot("btc", parse(`{}`), data, parse(`{}`))

	assert.Equal(t, "Bitcoin", snapshot.Name)
	assert.Equal(t, `See <a "https://bitcoin.org">bitcoin.org</a>.`, snapshot.Description)
}

func parse(s string) gjson.Result {
	return gjson.Parse(s)
}
