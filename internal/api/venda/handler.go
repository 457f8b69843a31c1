package venda

import (
	"context"
	"encoding/json"
	"net/http"

	"gofarma/internal/api/response"
	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
)

// VendaService define o contrato que o Handler espera do compositor de vendas.
type VendaService interface {
	NovoCarrinho() *domain.Carrinho
	AdicionarItem(ctx context.Context, carrinho *domain.Carrinho, medicamentoID string, quantidade int) error
	Finalizar(ctx context.Context, carrinho *domain.Carrinho, clienteID string) (domain.Venda, error)
	BuscarVendaPorID(ctx context.Context, id string) (domain.Venda, error)
	ListarVendas(ctx context.Context) ([]domain.Venda, error)
}

// Handler agrupa os métodos de Handler de vendas.
type Handler struct {
	Service  VendaService
	Response *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc VendaService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Response: response.NewWriter(log)}
}

// vendaRequest é o payload de criação de venda: a composição e a finalização
// acontecem na mesma requisição. O cliente é opcional.
type vendaRequest struct {
	ClienteID string `json:"clienteId"`
	Itens     []struct {
		MedicamentoID string `json:"medicamentoId"`
		Quantidade    int    `json:"quantidade"`
	} `json:"itens"`
}

// CriarHandler lida com POST /v1/vendas. Monta o carrinho na ordem das linhas
// do payload e finaliza; qualquer linha inválida rejeita a venda inteira.
func (h *Handler) CriarHandler(w http.ResponseWriter, r *http.Request) {
	var req vendaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	ctx := r.Context()
	carrinho := h.Service.NovoCarrinho()
	for _, item := range req.Itens {
		if err := h.Service.AdicionarItem(ctx, carrinho, item.MedicamentoID, item.Quantidade); err != nil {
			h.Response.Handle(w, r, nil, err, http.StatusCreated)
			return
		}
	}

	venda, err := h.Service.Finalizar(ctx, carrinho, req.ClienteID)
	h.Response.Handle(w, r, venda, err, http.StatusCreated)
}

// ListarHandler lida com GET /v1/vendas.
func (h *Handler) ListarHandler(w http.ResponseWriter, r *http.Request) {
	vendas, err := h.Service.ListarVendas(r.Context())
	h.Response.Handle(w, r, vendas, err, http.StatusOK)
}

// BuscarHandler lida com GET /v1/vendas/{id}.
func (h *Handler) BuscarHandler(w http.ResponseWriter, r *http.Request) {
	venda, err := h.Service.BuscarVendaPorID(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, venda, err, http.StatusOK)
}
