package coingeckoclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

////////////////////////////////////////////////////////////////////////////////

const (
	CHART_DAYS          = 30
	PRICE_HISTORY_LIMIT = 7
)

var SNAPSHOT_CURRENCIES = []string{"usd", "btc", "eth"}

////////////////////////////////////////////////////////////////////////////////

// GetCoinInfo resolves name to a coin and assembles its market snapshot from
// the price, coin and market chart endpoints. Only the price and coin
// documents are required; a failing chart leaves the history empty.
func (c *client) GetCoinInfo(ctx context.Context, name string) (*model.MarketSnapshot, error) {
	logger := c.logger.WithField("coin", name)

	id, err := c.ResolveCoinID(ctx, name)
	if err != nil {
		return nil, err
	}

	var price, data, chart gjson.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		price, err = c.GetPrice(gctx, id, SNAPSHOT_CURRENCIES)
		return err
	})
	g.Go(func() error {
		var err error
		data, err = c.GetCoinData(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		chart, err = c.GetMarketChart(gctx, id, CHART_DAYS)
		if err != nil {
			logger.WithError(err).Warn("market chart unavailable")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get market data for %s: %w", id, err)
	}

	return buildSnapshot(name, price, data, chart), nil
}

////////////////////////////////////////////////////////////////////////////////

// buildSnapshot falls back to the queried name when the coin document has
// none. Description links lose their href attribute.
func buildSnapshot(name string, price, data, chart gjson.Result) *model.MarketSnapshot {
	description := stringOr(data.Get("description.en"), model.NO_DESCRIPTION_DEFAULT)
	snapshot := &model.MarketSnapshot{
		Name:            stringOr(data.Get("name"), name),
		Symbol:          strings.ToUpper(stringOr(data.Get("symbol"), model.UNKNOWN)),
		CurrentPrice:    optFloat(price.Get("usd")),
		MarketCap:       optFloat(price.Get("usd_market_cap")),
		PriceChange24h:  optFloat(price.Get("usd_24h_change")),
		CurrentBTCPrice: optFloat(price.Get("btc")),
		CurrentETHPrice: optFloat(price.Get("eth")),
		MarketRank:      optInt(data.Get("market_cap_rank")),
		Description:     strings.ReplaceAll(description, "<a href=", "<a "),
		Blockchain:      stringOr(data.Get("asset_platform_id"), model.NATIVE_BLOCKCHAIN),
		GenesisDate:     stringOr(data.Get("genesis_date"), model.UNKNOWN),
		Homepage:        model.UNKNOWN,
		Github:          []string{},
		Sentiment:       optFloat(data.Get("sentiment_votes_up_percentage")),
		LastUpdated:     optInt(price.Get("last_updated_at")),
		PriceHistory:    []model.PricePoint{},
	}

	for _, homepage := range data.Get("links.homepage").Array() {
		if homepage.String() != "" {
			snapshot.Homepage = homepage.String()
			break
		}
	}
	for _, repo := range data.Get("links.repos_url.github").Array() {
		if repo.String() != "" {
			snapshot.Github = append(snapshot.Github, repo.String())
		}
	}

	prices := chart.Get("prices").Array()
	if len(prices) > PRICE_HISTORY_LIMIT {
		prices = prices[len(prices)-PRICE_HISTORY_LIMIT:]
	}
	for _, point := range prices {
		pair := point.Array()
		if len(pair) != 2 {
			continue
		}
		snapshot.PriceHistory = append(snapshot.PriceHistory, model.PricePoint{
			Time:  pair[0].Int(),
			Price: pair[1].Float(),
		})
	}

	return snapshot
}

func stringOr(r gjson.Result, fallback string) string {
	if !r.Exists() || r.Type == gjson.Null || r.String() == "" {
		return fallback
	}
	return r.String()
}

func optFloat(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

func optInt(r gjson.Result) *int64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Int()
	return &v
}
