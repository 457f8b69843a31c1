package cliente

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gofarma/internal/api/response"
	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/logger"
)

// ClienteService define o contrato que o Handler espera da camada de Serviço.
type ClienteService interface {
	CriarCliente(ctx context.Context, cliente domain.Cliente) (domain.Cliente, error)
	BuscarClientePorID(ctx context.Context, id string) (domain.Cliente, error)
	ListarClientes(ctx context.Context, busca string) ([]domain.Cliente, error)
	AtualizarCliente(ctx context.Context, cliente domain.Cliente) (domain.Cliente, error)
	RemoverCliente(ctx context.Context, id string) error
}

// VendaService expõe a listagem de vendas de um cliente.
type VendaService interface {
	ListarVendasPorCliente(ctx context.Context, clienteID string) ([]domain.Venda, error)
}

// Handler agrupa os métodos de Handler do cadastro de clientes.
type Handler struct {
	Service  ClienteService
	Vendas   VendaService
	Response *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando os Serviços e o Logger.
func NewHandler(svc ClienteService, vendas VendaService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Vendas: vendas, Response: response.NewWriter(log)}
}

// clienteRequest é o payload de criação/edição de cliente.
// A data de nascimento chega como "AAAA-MM-DD".
type clienteRequest struct {
	Nome           string `json:"nome"`
	CPF            string `json:"cpf"`
	Email          string `json:"email"`
	Telefone       string `json:"telefone"`
	DataNascimento string `json:"dataNascimento"`
}

func parseData(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (req clienteRequest) toDomain() (domain.Cliente, error) {
	nascimento, err := parseData(req.DataNascimento)
	if err != nil {
		return domain.Cliente{}, apperror.NewValidationError("A data de nascimento deve estar no formato AAAA-MM-DD.")
	}
	return domain.Cliente{
		Nome:           req.Nome,
		CPF:            req.CPF,
		Email:          req.Email,
		Telefone:       req.Telefone,
		DataNascimento: nascimento,
	}, nil
}

// CriarHandler lida com POST /v1/clientes.
func (h *Handler) CriarHandler(w http.ResponseWriter, r *http.Request) {
	var req clienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	cliente, err := req.toDomain()
	if err != nil {
		h.Response.Handle(w, r, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CriarCliente(r.Context(), cliente)
	h.Response.Handle(w, r, created, err, http.StatusCreated)
}

// ListarHandler lida com GET /v1/clientes. O parâmetro "busca" filtra por nome ou CPF.
func (h *Handler) ListarHandler(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.Service.ListarClientes(r.Context(), r.URL.Query().Get("busca"))
	h.Response.Handle(w, r, clientes, err, http.StatusOK)
}

// BuscarHandler lida com GET /v1/clientes/{id}.
func (h *Handler) BuscarHandler(w http.ResponseWriter, r *http.Request) {
	cliente, err := h.Service.BuscarClientePorID(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, cliente, err, http.StatusOK)
}

// AtualizarHandler lida com PUT /v1/clientes/{id}.
func (h *Handler) AtualizarHandler(w http.ResponseWriter, r *http.Request) {
	var req clienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	cliente, err := req.toDomain()
	if err != nil {
		h.Response.Handle(w, r, nil, err, http.StatusBadRequest)
		return
	}
	cliente.ID = r.PathValue("id")

	updated, err := h.Service.AtualizarCliente(r.Context(), cliente)
	h.Response.Handle(w, r, updated, err, http.StatusOK)
}

// RemoverHandler lida com DELETE /v1/clientes/{id}.
func (h *Handler) RemoverHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.RemoverCliente(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, nil, err, http.StatusNoContent)
}

// VendasHandler lida com GET /v1/clientes/{id}/vendas.
func (h *Handler) VendasHandler(w http.ResponseWriter, r *http.Request) {
	vendas, err := h.Vendas.ListarVendasPorCliente(r.Context(), r.PathValue("id"))
	h.Response.Handle(w, r, vendas, err, http.StatusOK)
}
