package user

import (
	"context"
	"encoding/json"
	"net/http"

	"gofarma/internal/api/response"
	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
)

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
}

// Handler agrupa os métodos de Handler de usuários.
type Handler struct {
	Service  UserService
	Response *response.Writer
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Response: response.NewWriter(log)}
}

// RegisterHandler lida com POST /v1/users/register.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var registration domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	user, err := h.Service.Register(r.Context(), registration)
	h.Response.Handle(w, r, user, err, http.StatusCreated)
}

// LoginHandler lida com POST /v1/users/login. Em caso de sucesso, retorna o JWT.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		h.Response.BadPayload(w, r)
		return
	}

	token, err := h.Service.Login(r.Context(), credentials.Email, credentials.Password)
	h.Response.Handle(w, r, map[string]string{"token": token}, err, http.StatusOK)
}
