package dashboard

import (
	"context"
	"net/http"

	"gofarma/internal/api/response"
	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
)

// DashboardService define o contrato que o Handler espera da camada de Serviço.
type DashboardService interface {
	ObterEstatisticas(ctx context.Context) (domain.DashboardStats, error)
}

// Handler agrupa os métodos de Handler do painel.
type Handler struct {
	Service  DashboardService
	Response *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc DashboardService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Response: response.NewWriter(log)}
}

// EstatisticasHandler lida com GET /v1/dashboard.
func (h *Handler) EstatisticasHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.ObterEstatisticas(r.Context())
	h.Response.Handle(w, r, stats, err, http.StatusOK)
}
