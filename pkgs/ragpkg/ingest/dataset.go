package ingest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidDataset = errors.New("invalid dataset format")

// Coin is one dataset entry.
type Coin struct {
	Name    string `yaml:"name"`
	History string `yaml:"history"`
}

// Dataset mirrors the dataset file:
//
//	cryptocurrencies:
//	  - name: Bitcoin
//	    history: ...
type Dataset struct {
	Cryptocurrencies []Coin `yaml:"cryptocurrencies"`
}

func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(data)
}

func ParseDataset(data []byte) (*Dataset, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if _, ok := raw["cryptocurrencies"]; !ok {
		return nil, fmt.Errorf("%w: missing cryptocurrencies", ErrInvalidDataset)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return &ds, nil
}

////////////////////////////////////////////////////////////////////////////////

func (c Coin) complete() bool {
	return strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.History) != ""
}

// Documents returns the texts stored for a coin: its name, its full history
// and the history split into chunks of chunkSize words.
func Documents(c Coin, chunkSize int) []string {
	docs := []string{
		fmt.Sprintf("Cryptocurrency name: %s", c.Name),
		fmt.Sprintf("History of %s: %s", c.Name, c.History),
	}

	words := strings.Fields(c.History)
	for i := 0; i < len(words); i += chunkSize {
		end := min(i+chunkSize, len(words))
		docs = append(docs, fmt.Sprintf("%s information: %s", c.Name, strings.Join(words[i:end], " ")))
	}
	return docs
}
