package alerta

import (
	"context"
	"net/http"

	"gofarma/internal/api/response"
	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
)

// AlertaService define o contrato que o Handler espera da camada de Serviço.
type AlertaService interface {
	ListarAlertas(ctx context.Context) ([]domain.Alerta, error)
}

// Handler agrupa os métodos de Handler de alertas.
type Handler struct {
	Service  AlertaService
	Response *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AlertaService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Response: response.NewWriter(log)}
}

// ListarHandler lida com GET /v1/alertas. Os alertas são recalculados a cada chamada.
func (h *Handler) ListarHandler(w http.ResponseWriter, r *http.Request) {
	alertas, err := h.Service.ListarAlertas(r.Context())
	h.Response.Handle(w, r, alertas, err, http.StatusOK)
}
