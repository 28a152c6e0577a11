package syscfghelper

import (
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/config"
	"github.com/WangWilly/cryptoagent/pkgs/ragpkg/agent"
	"github.com/WangWilly/cryptoagent/pkgs/ragpkg/ingest"
	"github.com/WangWilly/cryptoagent/pkgs/serverpkg/server"
)

func (h *helper) GetAgentCfg() agent.Config {
	conf := h.sysConfig.LLM
	return agent.Config{
		AnswerModel:           conf.AnswerModel,
		AnswerTemperature:     conf.AnswerTemperature,
		ExtractionModel:       conf.ExtractionModel,
		ExtractionTemperature: conf.ExtractionTemperature,
		ExtractionMaxTokens:   conf.ExtractionMaxTokens,
	}
}

func (h *helper) GetIngestCfg() ingest.Config {
	return ingest.Config{
		Workers:   h.sysConfig.Ingest.Workers,
		ChunkSize: h.sysConfig.Ingest.ChunkSize,
	}
}

// GetServerCfg returns the HTTP settings. The node probe only applies to the
// chromia backend.
func (h *helper) GetServerCfg() server.Config {
	conf := h.sysConfig
	nodeURL := ""
	if conf.VectorStore.Backend == config.VECTOR_BACKEND_CHROMIA {
		nodeURL = conf.VectorStore.Chromia.NodeURL
	}
	return server.Config{
		Port:            conf.Server.Port,
		ReadTimeout:     conf.Server.ReadTimeout,
		WriteTimeout:    conf.Server.WriteTimeout,
		ShutdownTimeout: conf.Server.ShutdownTimeout,
		AllowedOrigin:   conf.Server.AllowedOrigin,
		NodeURL:         nodeURL,
		RequestTimeout:  conf.Agent.RequestTimeout,

		DefaultMaxResults: conf.Agent.SearchResults,
		DefaultTopK:       conf.Agent.TopK,
	}
}
