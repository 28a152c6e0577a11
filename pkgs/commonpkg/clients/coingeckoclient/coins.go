package coingeckoclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

////////////////////////////////////////////////////////////////////////////////

const (
	COINS_LIST_ENDPOINT   = "/coins/list"
	SIMPLE_PRICE_ENDPOINT = "/simple/price"
	COIN_ENDPOINT         = "/coins/%s"
	MARKET_CHART_ENDPOINT = "/coins/%s/market_chart"
)

////////////////////////////////////////////////////////////////////////////////

// GetCoinList retrieves every coin known to the provider.
func (c *client) GetCoinList(ctx context.Context) ([]CoinDto, error) {
	body, err := c.get(ctx, COINS_LIST_ENDPOINT, nil)
	if err != nil {
		return nil, err
	}

	var coins []CoinDto
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("failed to decode coin list: %w", err)
	}
	return coins, nil
}

// ResolveCoinID maps a coin name or symbol to the provider id. Matching is
// case-insensitive and the first coin whose name or symbol matches wins.
func (c *client) ResolveCoinID(ctx context.Context, nameOrSymbol string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrSymbol))
	if key == "" {
		return "", fmt.Errorf("%w: empty name", ErrCoinNotFound)
	}

	if c.idCache != nil {
		id, ok, err := c.idCache.Get(key)
		if err != nil {
			c.logger.WithError(err).WithField("coin", key).Warn("coin id cache read failed")
		} else if ok {
			return id, nil
		}
	}

	coins, err := c.GetCoinList(ctx)
	if err != nil {
		return "", err
	}

	for _, coin := range coins {
		if strings.ToLower(coin.Name) == key || strings.ToLower(coin.Symbol) == key {
			if c.idCache != nil {
				if err := c.idCache.Put(key, coin.Id); err != nil {
					c.logger.WithError(err).WithField("coin", key).Warn("coin id cache write failed")
				}
			}
			return coin.Id, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrCoinNotFound, nameOrSymbol)
}

////////////////////////////////////////////////////////////////////////////////

// GetPrice returns the simple/price entry for one coin id.
func (c *client) GetPrice(ctx context.Context, id string, vsCurrencies []string) (gjson.Result, error) {
	params := map[string]string{
		"ids":                     id,
		"vs_currencies":           strings.Join(vsCurrencies, ","),
		"include_market_cap":      "true",
		"include_24hr_vol":        "true",
		"include_24hr_change":     "true",
		"include_last_updated_at": "true",
	}

	body, err := c.get(ctx, SIMPLE_PRICE_ENDPOINT, params)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(body).Map()[id], nil
}

// GetCoinData returns the full coin document without localized strings.
func (c *client) GetCoinData(ctx context.Context, id string) (gjson.Result, error) {
	params := map[string]string{"localization": "false"}

	body, err := c.get(ctx, fmt.Sprintf(COIN_ENDPOINT, id), params)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(body), nil
}

// GetMarketChart returns the USD chart over the last days.
func (c *client) GetMarketChart(ctx context.Context, id string, days int) (gjson.Result, error) {
	params := map[string]string{
		"vs_currency": "usd",
		"days":        strconv.Itoa(days),
	}

	body, err := c.get(ctx, fmt.Sprintf(MARKET_CHART_ENDPOINT, id), params)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(body), nil
}

////////////////////////////////////////////////////////////////////////////////

// get performs one throttled GET and classifies the response status.
func (c *client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	req := c.restyClient.R().SetContext(ctx)
	for key, value := range params {
		req.SetQueryParam(key, value)
	}

	resp, err := req.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", endpoint, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return resp.Body(), nil
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, endpoint)
	default:
		return nil, fmt.Errorf("%w: API Error (%d): %s", ErrUnexpectedStatus, resp.StatusCode(), resp.String())
	}
}
