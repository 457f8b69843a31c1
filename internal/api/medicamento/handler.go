package medicamento

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"gofarma/internal/api/response"
	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/logger"
)

// MedicamentoService define o contrato que o Handler espera da camada de Serviço.
type MedicamentoService interface {
	CriarMedicamento(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error)
	BuscarMedicamentoPorID(ctx context.Context, id string) (domain.Medicamento, error)
	ListarMedicamentos(ctx context.Context, filter domain.MedicamentoFilter) ([]domain.Medicamento, error)
	AtualizarMedicamento(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error)
	AlterarStatus(ctx context.Context, id string, ativo bool) (domain.Medicamento, error)
	RemoverMedicamento(ctx context.Context, id string) error
}

// Handler agrupa os métodos de Handler do catálogo de medicamentos.
type Handler struct {
	Service  MedicamentoService
	Response *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc MedicamentoService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Response: response.NewWriter(log)}
}

// medicamentoRequest é o payload de criação/edição de medicamento.
// As datas de calendário chegam como "AAAA-MM-DD".
type medicamentoRequest struct {
	Nome         string          `json:"nome"`
	Dosagem      string          `json:"dosagem"`
	Descricao    string          `json:"descricao"`
	Preco        decimal.Decimal `json:"preco"`
	Estoque      int             `json:"estoque"`
	DataValidade string          `json:"dataValidade"`
	CategoriaID  string          `json:"categoriaId"`
}

// parseData aceita datas de calendário ("AAAA-MM-DD") e timestamps RFC3339.
func parseData(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (req medicamentoRequest) toDomain() (domain.Medicamento, error) {
	validade, err := parseData(req.DataValidade)
	if err != nil {
		return domain.Medicamento{}, apperror.NewValidationError("A data de validade deve estar no formato AAAA-MM-DD.")
	}
	return domain.Medicamento{
		Nome:         req.Nome,
		Dosagem:      req.Dosagem,
		Descricao:    req.Descricao,
		Preco:        req.Preco,
		Estoque:      req.Estoque,
		DataValidade: validade,
		Categoria:    domain.Categoria{ID: req.CategoriaID},
	}, nil
}

// CriarHandler lida com POST /v1/medicamentos.
func (h *Handler) CriarHandler(w http.ResponseWriter, r *http.Request) {
	var req medicamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	med, err := req.toDomain()
	if err != nil {
		h.Response.Handle(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CriarMedicamento(r.Context(), med)
	h.Response.Handle(w, r, created, err, http.StatusCreated)
}

// ListarHandler lida com GET /v1/medicamentos.
// Filtros via query string: nome, categoriaId e incluirInativos.
func (h *Handler) ListarHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.MedicamentoFilter{
		Nome:         q.Get("nome"),
		CategoriaID:  q.Get("categoriaId"),
		ApenasAtivos: q.Get("incluirInativos") != "true",
	}

	medicamentos, err := h.Service.ListarMedicamentos(r.Context(), filter)
	h.Response.Handle(w, r, medicamentos, err, http.StatusOK)
}

// BuscarHandler lida com GET /v1/medicamentos/{id}.
func (h *Handler) BuscarHandler(w http.ResponseWriter, r *http.Request) {
	med, err := h.Service.BuscarMedicamentoPorID(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, med, err, http.StatusOK)
}

// AtualizarHandler lida com PUT /v1/medicamentos/{id}.
// O estoque não é editável por esta rota; mudanças passam pelas movimentações.
func (h *Handler) AtualizarHandler(w http.ResponseWriter, r *http.Request) {
	var req medicamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	med, err := req.toDomain()
	if err != nil {
		h.Response.Handle(w, r, nil, err, http.StatusBadRequest)
		return
	}
	med.ID = r.PathValue("id")

	updated, err := h.Service.AtualizarMedicamento(r.Context(), med)
	h.Response.Handle(w, r, updated, err, http.StatusOK)
}

// AlterarStatusHandler lida com PATCH /v1/medicamentos/{id}/status.
func (h *Handler) AlterarStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ativo bool `json:"ativo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	updated, err := h.Service.AlterarStatus(r.Context(), r.PathValue("id"), req.Ativo)
	h.Response.Handle(w, r, updated, err, http.StatusOK)
}

// RemoverHandler lida com DELETE /v1/medicamentos/{id} (remoção lógica).
func (h *Handler) RemoverHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.RemoverMedicamento(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, nil, err, http.StatusNoContent)
}
