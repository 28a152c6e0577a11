package syscfghelper

import (
	"fmt"

	"github.com/WangWilly/cryptoagent/migration/automigrate"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/database"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/repos/conversationrepo"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/repos/embeddingrepo"
	"github.com/WangWilly/cryptoagent/pkgs/ragpkg/agent"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// GetDB connects to the configured database and applies pending migrations.
// It returns nil when persistence is disabled.
func (h *helper) GetDB() (*sqlx.DB, error) {
	if !h.sysConfig.Agent.Persist {
		return nil, nil
	}

	db, err := database.ConnectWithConfig(h.sysConfig.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	h.closers = append(h.closers, db)

	if err := automigrate.AutoMigrateUp(
		automigrate.AutoMigrateConfig{SqlxDB: db},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.WithField("caller", "syscfghelper.GetDB").
		Debugln("database ready:", h.sysConfig.Database.Type)
	return db, nil
}

// GetAgent wires the conversation pipeline with the configured backends.
// The returned store is the one the agent writes to.
func (h *helper) GetAgent() (*agent.Agent, VectorStore, error) {
	llm, err := h.GetLLMClient()
	if err != nil {
		return nil, nil, err
	}
	market, err := h.GetCoinGeckoClient()
	if err != nil {
		return nil, nil, err
	}
	store, err := h.GetVectorStore()
	if err != nil {
		return nil, nil, err
	}
	db, err := h.GetDB()
	if err != nil {
		return nil, nil, err
	}

	return agent.NewAgent(
		h.GetAgentCfg(),
		db,
		llm,
		llm,
		store,
		market,
		embeddingrepo.New(),
		conversationrepo.New(),
	), store, nil
}
