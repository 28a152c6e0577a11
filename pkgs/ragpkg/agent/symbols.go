package agent

import (
	"regexp"
	"sort"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////

// SYMBOL_TO_NAME maps common ticker symbols to names the market data
// provider resolves reliably.
var SYMBOL_TO_NAME = map[string]string{
	"BTC":   "Bitcoin",
	"ETH":   "Ethereum",
	"SOL":   "Solana",
	"CHR":   "Chromia",
	"NEAR":  "NEAR Protocol",
	"DOT":   "Polkadot",
	"ADA":   "Cardano",
	"XRP":   "XRP",
	"DOGE":  "Dogecoin",
	"SHIB":  "Shiba Inu",
	"AVAX":  "Avalanche",
	"TON":   "Toncoin",
	"MATIC": "Polygon",
	"LINK":  "Chainlink",
	"UNI":   "Uniswap",
	"BCH":   "Bitcoin Cash",
	"LTC":   "Litecoin",
	"XLM":   "Stellar",
	"XMR":   "Monero",
}

// SymbolToName returns the coin name for a known symbol and the input
// unchanged otherwise.
func SymbolToName(symbol string) string {
	if name, ok := SYMBOL_TO_NAME[strings.ToUpper(strings.TrimSpace(symbol))]; ok {
		return name
	}
	return symbol
}

////////////////////////////////////////////////////////////////////////////////

var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$([A-Z][A-Z0-9_]{1,15})\b`),             // $BTC, $ETH
	regexp.MustCompile(`\#([A-Z][A-Z0-9_]{1,15})\b`),             // #BTC, #SOLANA
	regexp.MustCompile(`\b([A-Z]{2,6})\s+(?:TOKEN|COIN)S?\b`),    // BTC token, ETH coin
	regexp.MustCompile(`\b([A-Z]{2,6})\s+(?:TO|AT)\s+\$`),        // SOL to $, BTC at $
	regexp.MustCompile(`\b([A-Z]{2,6})\s+(?:PRICE|PUMP|MOON)\b`), // SOL price, BTC pump
}

var symbolWord = regexp.MustCompile(`\b[A-Z]{2,6}\b`)

var namesLongestFirst = func() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range SYMBOL_TO_NAME {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()

// ExtractCoinsByPattern finds coin mentions without the LLM: ticker patterns
// such as "$BTC" or "ETH price", known symbols written in capitals and known
// coin names in any case. Results are names, in order of first mention.
func ExtractCoinsByPattern(text string) []string {
	var coins []string
	upper := strings.ToUpper(text)

	for _, pattern := range tokenPatterns {
		for _, match := range pattern.FindAllStringSubmatch(upper, -1) {
			if len(match) > 1 && !isCommonWord(match[1]) {
				coins = append(coins, SymbolToName(match[1]))
			}
		}
	}

	for _, word := range symbolWord.FindAllString(text, -1) {
		if name, ok := SYMBOL_TO_NAME[word]; ok {
			coins = append(coins, name)
		}
	}

	lower := strings.ToLower(text)
	remaining := lower
	for _, name := range namesLongestFirst {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(name)) + `\b`)
		if pattern.MatchString(remaining) {
			coins = append(coins, name)
			// "bitcoin cash" must not also count as "bitcoin"
			remaining = pattern.ReplaceAllStringFunc(remaining, func(m string) string {
				return strings.Repeat(" ", len(m))
			})
		}
	}

	return orderByMention(removeDuplicates(coins), lower)
}

func isCommonWord(word string) bool {
	commonWords := map[string]bool{
		"THE": true, "AND": true, "FOR": true, "ARE": true, "BUT": true,
		"NOT": true, "YOU": true, "ALL": true, "CAN": true, "HER": true,
		"WAS": true, "ONE": true, "OUR": true, "OUT": true, "DAY": true,
		"GET": true, "HAS": true, "HIM": true, "HIS": true, "HOW": true,
		"NEW": true, "NOW": true, "OLD": true, "SEE": true, "TWO": true,
		"WHO": true, "BOY": true, "DID": true, "ITS": true, "LET": true,
		"PUT": true, "SAY": true, "SHE": true, "TOO": true, "USE": true,
		"WHAT": true, "THIS": true, "THAT": true, "WITH": true, "FROM": true,
		"USD": true, "USDT": true, "API": true, "NFT": true, "DEFI": true,
		"CEO": true, "ATH": true, "IS": true, "IT": true, "OF": true,
		"MY": true, "AN": true, "BY": true, "IN": true, "ON": true,
	}
	return commonWords[word]
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}

// orderByMention sorts names by where their name or symbol first appears in
// lower, keeping unknown positions at the end in their current order.
func orderByMention(names []string, lower string) []string {
	position := func(name string) int {
		best := -1
		candidates := []string{strings.ToLower(name)}
		for symbol, n := range SYMBOL_TO_NAME {
			if n == name {
				candidates = append(candidates, strings.ToLower(symbol))
			}
		}
		for _, candidate := range candidates {
			if i := strings.Index(lower, candidate); i >= 0 && (best < 0 || i < best) {
				best = i
			}
		}
		if best < 0 {
			return len(lower)
		}
		return best
	}

	ordered := make([]string, len(names))
	copy(ordered, names)
	positions := make(map[string]int, len(ordered))
	for _, name := range ordered {
		positions[name] = position(name)
	}
	// insertion sort keeps equal positions stable
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && positions[ordered[j]] < positions[ordered[j-1]]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}
