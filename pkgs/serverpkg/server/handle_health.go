package server

import (
	"fmt"
	"net/http"

	"github.com/WangWilly/cryptoagent/pkgs/serverpkg/serverdto"
)

const (
	STATUS_HEALTHY        = "healthy"
	STATUS_AVAILABLE      = "available"
	STATUS_NOT_CONFIGURED = "not configured"
)

// handleHealth always answers 200; the body tells which dependency is down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := serverdto.HealthResponse{
		APIStatus:        STATUS_HEALTHY,
		NodeStatus:       s.nodeStatus(r),
		VectorBlockchain: STATUS_AVAILABLE,
	}

	if err := s.store.Ping(r.Context()); err != nil {
		resp.VectorBlockchain = fmt.Sprintf("unavailable - %v", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) nodeStatus(r *http.Request) string {
	if s.cfg.NodeURL == "" {
		return STATUS_NOT_CONFIGURED
	}

	resp, err := s.healthClient.R().SetContext(r.Context()).Get(s.cfg.NodeURL)
	if err != nil {
		return fmt.Sprintf("unhealthy - connection error: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Sprintf("unhealthy - status code: %d", resp.StatusCode())
	}
	return STATUS_HEALTHY
}
