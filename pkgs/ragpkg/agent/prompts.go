package agent

import (
	"fmt"
	"strings"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
)

////////////////////////////////////////////////////////////////////////////////

const EXTRACTION_SYSTEM_PROMPT = `You are a cryptocurrency identification expert.
Extract any cryptocurrency names mentioned in the user's text.
Return ONLY the standard name or symbol of the cryptocurrencies (e.g., "Bitcoin", "BTC", "Ethereum", "ETH").
If there are no cryptocurrencies mentioned, return "None".
Return multiple cryptos as a comma-separated list.
Only return the official names or symbols, nothing else.`

const EXTRACTION_USER_PROMPT = "Extract the correct cryptocurrency symbol from this text: %s"

const ANSWER_SYSTEM_PROMPT = `You are a cryptocurrency research assistant with extensive knowledge about blockchain and digital assets.

Use the following historical information from your knowledge base:
%s

This is the latest market data for the cryptocurrency:
%s

Answer the user's question about cryptocurrencies based on both historical information and current market data if provided.

Do not provide any speculative investment advice or additional information outside the scope of the question or the knowledge base above.

Provide factual, balanced responses without speculative investment advice.
If the knowledge base doesn't have relevant information, acknowledge the limitations.`

const NO_COINS_REPLY = "none"

////////////////////////////////////////////////////////////////////////////////

// BuildContext renders neighbours as "- <text> (relevance: <1-distance>)".
func BuildContext(results []model.SimilarityResult) string {
	lines := make([]string, 0, len(results))
	for _, result := range results {
		lines = append(lines, fmt.Sprintf("- %s (relevance: %.2f)", result.Text, result.Relevance()))
	}
	return strings.Join(lines, "\n")
}

// BuildMarketInfo renders the snapshot block of the answer prompt; an absent
// snapshot renders as nothing.
func BuildMarketInfo(snapshot *model.MarketSnapshot) string {
	if snapshot == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current Market Data for %s (%s):\n", snapshot.Name, snapshot.Symbol)
	fmt.Fprintf(&b, "- Current Price: $%s\n", model.FormatFloat(snapshot.CurrentPrice))
	fmt.Fprintf(&b, "- 24h Change: %s%%\n", model.FormatFloat(snapshot.PriceChange24h))
	fmt.Fprintf(&b, "- Market Cap: $%s\n", model.FormatFloat(snapshot.MarketCap))
	fmt.Fprintf(&b, "- Market Rank: #%s\n", model.FormatInt(snapshot.MarketRank))
	fmt.Fprintf(&b, "- Genesis Date: %s", snapshot.GenesisDate)
	return b.String()
}

func BuildAnswerSystemPrompt(results []model.SimilarityResult, snapshot *model.MarketSnapshot) string {
	return fmt.Sprintf(ANSWER_SYSTEM_PROMPT, BuildContext(results), BuildMarketInfo(snapshot))
}

// ParseExtraction turns the extraction reply into coin names. "None" (any
// case) means no coins; otherwise the reply is a comma separated list of
// names or symbols, symbols being mapped to names.
func ParseExtraction(reply string) []string {
	reply = strings.TrimSpace(reply)
	if strings.EqualFold(strings.Trim(reply, `"'.`), NO_COINS_REPLY) {
		return []string{}
	}

	coins := []string{}
	for _, part := range strings.Split(reply, ",") {
		coin := strings.Trim(strings.TrimSpace(part), "\"'`.")
		if coin == "" {
			continue
		}
		coins = append(coins, SymbolToName(coin))
	}
	return coins
}
