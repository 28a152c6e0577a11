package model

import "strconv"

const (
	UNKNOWN                = "Unknown"
	NATIVE_BLOCKCHAIN      = "Native"
	NO_DESCRIPTION_DEFAULT = "No description available"
)

type PricePoint struct {
	Time  int64   `json:"time"` // unix milliseconds
	Price float64 `json:"price"`
}

// MarketSnapshot is the market data assembled for a single coin.
// Nil numeric fields were not reported by the provider.
type MarketSnapshot struct {
	Name            string       `json:"name"`
	Symbol          string       `json:"symbol"`
	CurrentPrice    *float64     `json:"current_price"`
	MarketCap       *float64     `json:"market_cap"`
	PriceChange24h  *float64     `json:"price_change_24h"`
	CurrentBTCPrice *float64     `json:"current_btc_price"`
	CurrentETHPrice *float64     `json:"current_eth_price"`
	MarketRank      *int64       `json:"market_rank"`
	Description     string       `json:"description"`
	Blockchain      string       `json:"blockchain"`
	GenesisDate     string       `json:"genesis_date"`
	Homepage        string       `json:"homepage"`
	Github          []string     `json:"github"`
	Sentiment       *float64     `json:"sentiment"`
	LastUpdated     *int64       `json:"last_updated"`
	PriceHistory    []PricePoint `json:"price_history"`
}

////////////////////////////////////////////////////////////////////////////////

// FormatFloat renders an optional number for prompts.
func FormatFloat(v *float64) string {
	if v == nil {
		return UNKNOWN
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func FormatInt(v *int64) string {
	if v == nil {
		return UNKNOWN
	}
	return strconv.FormatInt(*v, 10)
}
