package estoque

import (
	"context"
	"encoding/json"
	"net/http"

	"gofarma/internal/api/response"
	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
)

// EstoqueService define o contrato que o Handler espera da camada de Serviço.
type EstoqueService interface {
	RegistrarMovimentacao(ctx context.Context, req domain.MovimentacaoRequest) (domain.MovimentacaoEstoque, error)
	ListarMovimentacoes(ctx context.Context) ([]domain.MovimentacaoEstoque, error)
	ListarPorMedicamento(ctx context.Context, medicamentoID string) ([]domain.MovimentacaoEstoque, error)
}

// Handler agrupa os métodos de Handler das movimentações de estoque.
type Handler struct {
	Service  EstoqueService
	Response *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc EstoqueService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Response: response.NewWriter(log)}
}

// RegistrarHandler lida com POST /v1/estoque/movimentacoes.
func (h *Handler) RegistrarHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.MovimentacaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	mov, err := h.Service.RegistrarMovimentacao(r.Context(), req)
	h.Response.Handle(w, r, mov, err, http.StatusCreated)
}

// ListarHandler lida com GET /v1/estoque/movimentacoes.
func (h *Handler) ListarHandler(w http.ResponseWriter, r *http.Request) {
	movimentacoes, err := h.Service.ListarMovimentacoes(r.Context())
	h.Response.Handle(w, r, movimentacoes, err, http.StatusOK)
}

// ListarPorMedicamentoHandler lida com GET /v1/medicamentos/{id}/movimentacoes.
func (h *Handler) ListarPorMedicamentoHandler(w http.ResponseWriter, r *http.Request) {
	movimentacoes, err := h.Service.ListarPorMedicamento(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, movimentacoes, err, http.StatusOK)
}
