package categoria

import (
	"context"
	"encoding/json"
	"net/http"

	"gofarma/internal/api/response"
	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
)

// CategoriaService define o contrato que o Handler espera da camada de Serviço.
type CategoriaService interface {
	CriarCategoria(ctx context.Context, cat domain.Categoria) (domain.Categoria, error)
	BuscarCategoriaPorID(ctx context.Context, id string) (domain.Categoria, error)
	ListarCategorias(ctx context.Context) ([]domain.Categoria, error)
	AtualizarCategoria(ctx context.Context, cat domain.Categoria) (domain.Categoria, error)
	RemoverCategoria(ctx context.Context, id string) error
}

// Handler agrupa os métodos de Handler de categorias.
type Handler struct {
	Service  CategoriaService
	Response *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CategoriaService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Response: response.NewWriter(log)}
}

// CriarHandler lida com POST /v1/categorias.
func (h *Handler) CriarHandler(w http.ResponseWriter, r *http.Request) {
	var cat domain.Categoria
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	created, err := h.Service.CriarCategoria(r.Context(), cat)
	h.Response.Handle(w, r, created, err, http.StatusCreated)
}

// ListarHandler lida com GET /v1/categorias.
func (h *Handler) ListarHandler(w http.ResponseWriter, r *http.Request) {
	categorias, err := h.Service.ListarCategorias(r.Context())
	h.Response.Handle(w, r, categorias, err, http.StatusOK)
}

// BuscarHandler lida com GET /v1/categorias/{id}.
func (h *Handler) BuscarHandler(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Service.BuscarCategoriaPorID(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, cat, err, http.StatusOK)
}

// AtualizarHandler lida com PUT /v1/categorias/{id}.
func (h *Handler) AtualizarHandler(w http.ResponseWriter, r *http.Request) {
	var cat domain.Categoria
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		h.Response.BadPayload(w, r)
		return
	}
	cat.ID = r.PathValue("id")

	updated, err := h.Service.AtualizarCategoria(r.Context(), cat)
	h.Response.Handle(w, r, updated, err, http.StatusOK)
}

// RemoverHandler lida com DELETE /v1/categorias/{id}.
func (h *Handler) RemoverHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.RemoverCategoria(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, nil, err, http.StatusNoContent)
}
