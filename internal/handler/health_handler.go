package handlers

import (
	"log"
	"net/http"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeSuccess(w, HealthResponse{Status: "degraded", Database: "not configured"}, http.StatusServiceUnavailable)
		return
	}

	if err := h.DB.HealthCheck(); err != nil {
		log.Printf("Проверка БД не пройдена: %v", err)
		writeSuccess(w, HealthResponse{Status: "degraded", Database: "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, HealthResponse{Status: "ok", Database: "ok"}, http.StatusOK)
}
