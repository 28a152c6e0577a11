package syscfghelper

import (
	"context"
	"fmt"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/clients/chromastore"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/clients/chromemstore"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/clients/chromiaclient"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/clients/coingeckoclient"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/clients/llmclient"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/coincache"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/config"
	"github.com/WangWilly/cryptoagent/pkgs/ragpkg/agent"
	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"
)

// VectorStore is the configured backend as seen by the agent and the
// health probe.
type VectorStore interface {
	agent.VectorStore
	Ping(ctx context.Context) error
}

type LLMClient interface {
	agent.Embedder
	agent.ChatModel
}

type MarketClient interface {
	agent.MarketData
	ResolveCoinID(ctx context.Context, nameOrSymbol string) (string, error)
}

type ChromiaClient interface {
	VectorStore
	ResolveRID(ctx context.Context) (string, error)
}

////////////////////////////////////////////////////////////////////////////////

func (h *helper) GetLLMClient() (LLMClient, error) {
	conf := h.sysConfig.LLM
	client, err := llmclient.New(llmclient.Config{
		APIKey:         conf.APIKey,
		BaseURL:        conf.BaseURL,
		EmbeddingModel: conf.EmbeddingModel,
		ChatModel:      conf.AnswerModel,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (h *helper) GetCoinGeckoClient() (MarketClient, error) {
	logger := log.WithField("caller", "syscfghelper.GetCoinGeckoClient")
	conf := h.sysConfig.CoinGecko

	var idCache coingeckoclient.IDCache
	if conf.CachePath != "" {
		cache, err := coincache.Open(conf.CachePath, conf.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to open coin id cache: %w", err)
		}
		h.closers = append(h.closers, cache)
		idCache = cache
		logger.Debugln("coin id cache:", conf.CachePath)
	}

	return coingeckoclient.New(
		coingeckoclient.Config{
			BaseURL:    conf.BaseURL,
			APIKey:     conf.APIKey,
			Timeout:    conf.Timeout,
			MaxRetries: conf.MaxRetries,
		},
		coingeckoclient.NewThrottle(conf.MinInterval),
		idCache,
	), nil
}

func (h *helper) GetChromiaClient() ChromiaClient {
	conf := h.sysConfig.VectorStore.Chromia
	return chromiaclient.New(
		chromiaclient.Config{
			PmcBin:         conf.PmcBin,
			ChrBin:         conf.ChrBin,
			BlockchainName: conf.BlockchainName,
			WorkDir:        conf.WorkDir,
			Timeout:        conf.Timeout,
			MaxDistance:    conf.MaxDistance,
		},
		chromiaclient.NewExecRunner(conf.Timeout),
	)
}

// GetVectorStore returns the backend selected by vector_store.backend.
func (h *helper) GetVectorStore() (VectorStore, error) {
	logger := log.WithField("caller", "syscfghelper.GetVectorStore")
	conf := h.sysConfig.VectorStore

	switch conf.Backend {
	case config.VECTOR_BACKEND_CHROMIA:
		logger.Infoln("vector store:", color.FgLightBlue.Render("chromia"), conf.Chromia.BlockchainName)
		return h.GetChromiaClient(), nil

	case config.VECTOR_BACKEND_CHROMEM:
		store, err := chromemstore.New(chromemstore.Config{
			Path:       conf.Chromem.Path,
			Collection: conf.Chromem.Collection,
			Compress:   conf.Chromem.Compress,
		})
		if err != nil {
			return nil, err
		}
		logger.Infoln("vector store:", color.FgLightBlue.Render("chromem"), conf.Chromem.Collection)
		return store, nil

	case config.VECTOR_BACKEND_CHROMA:
		store, err := chromastore.New(context.Background(), chromastore.Config{
			URL:        conf.Chroma.URL,
			Collection: conf.Chroma.Collection,
		})
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, store)
		logger.Infoln("vector store:", color.FgLightBlue.Render("chroma"), conf.Chroma.URL, conf.Chroma.Collection)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported vector store backend: %q", conf.Backend)
	}
}
