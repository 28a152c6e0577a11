package coingeckoclient

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

const (
	BASE_URL       = "https://pro-api.coingecko.com/api/v3"
	API_KEY_HEADER = "x-cg-pro-api-key"
)

// IDCache remembers provider coin ids by lower-cased name or symbol.
type IDCache interface {
	Get(key string) (string, bool, error)
	Put(key, id string) error
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

////////////////////////////////////////////////////////////////////////////////

type client struct {
	restyClient *resty.Client
	idCache     IDCache
	logger      *log.Entry
}

// New builds a CoinGecko client. A nil limiter disables throttling and a nil
// cache makes every id lookup scan the coin list.
func New(cfg Config, limiter Limiter, idCache IDCache) *client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BASE_URL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	restyClient := resty.New()
	restyClient.SetBaseURL(baseURL)
	restyClient.SetHeader("User-Agent", "cryptoagent/1.0")
	restyClient.SetHeader("Accept", "application/json")
	restyClient.SetHeader(API_KEY_HEADER, cfg.APIKey)
	restyClient.SetTimeout(timeout)
	restyClient.SetRetryCount(cfg.MaxRetries)
	restyClient.SetRetryWaitTime(500 * time.Millisecond)
	restyClient.AddRetryCondition(func(resp *resty.Response, err error) bool {
		return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
	})

	if limiter != nil {
		restyClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	return &client{
		restyClient: restyClient,
		idCache:     idCache,
		logger:      log.WithField("service", "coingecko_client"),
	}
}
