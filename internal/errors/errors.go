package errors

import (
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do GoFarma.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION", "NOT_FOUND", "INTERNAL")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
// A mensagem é repassada ao chamador sem alteração.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }                   // Não encapsula erro subjacente

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// InsufficientStockError representa uma saída de estoque que excederia a
// quantidade disponível. Sempre nomeia o medicamento e a quantidade disponível,
// para que a interface embutidora renderize uma mensagem específica.
type InsufficientStockError struct {
	MedicamentoID string
	Nome          string
	Disponivel    int
	Solicitado    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente para '%s': disponível %d, solicitado %d.",
		e.Nome, e.Disponivel, e.Solicitado)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *InsufficientStockError) Unwrap() error    { return nil }

// NewInsufficientStockError cria um erro de estoque insuficiente com os detalhes da recusa.
func NewInsufficientStockError(medicamentoID, nome string, disponivel, solicitado int) AppError {
	return &InsufficientStockError{
		MedicamentoID: medicamentoID,
		Nome:          nome,
		Disponivel:    disponivel,
		Solicitado:    solicitado,
	}
}

// DuplicateItemError indica que o medicamento já está presente no carrinho.
// Para alterar a quantidade, o chamador deve usar a operação de ajuste de item.
type DuplicateItemError struct {
	MedicamentoID string
	Nome          string
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("O medicamento '%s' já está no carrinho. Altere a quantidade do item existente.", e.Nome)
}
func (e *DuplicateItemError) Category() string { return "DUPLICATE_ITEM" }
func (e *DuplicateItemError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *DuplicateItemError) Unwrap() error    { return nil }

// NewDuplicateItemError cria um erro de item duplicado no carrinho.
func NewDuplicateItemError(medicamentoID, nome string) AppError {
	return &DuplicateItemError{MedicamentoID: medicamentoID, Nome: nome}
}

// UnderageClientError indica que o cliente nomeado na venda é menor de idade.
// A venda inteira é rejeitada; não há venda parcial para cliente inelegível.
type UnderageClientError struct {
	ClienteID string
	Idade     int
}

func (e *UnderageClientError) Error() string {
	return fmt.Sprintf("Cliente com %d anos não pode ser nomeado em uma venda (mínimo 18).", e.Idade)
}
func (e *UnderageClientError) Category() string { return "UNDERAGE_CLIENT" }
func (e *UnderageClientError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *UnderageClientError) Unwrap() error    { return nil }

// NewUnderageClientError cria um erro de cliente menor de idade.
func NewUnderageClientError(clienteID string, idade int) AppError {
	return &UnderageClientError{ClienteID: clienteID, Idade: idade}
}

// EmptySaleError indica a tentativa de finalizar um carrinho sem itens.
type EmptySaleError struct{}

func (e *EmptySaleError) Error() string    { return "A venda deve conter ao menos um item." }
func (e *EmptySaleError) Category() string { return "EMPTY_SALE" }
func (e *EmptySaleError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *EmptySaleError) Unwrap() error    { return nil }

// NewEmptySaleError cria um erro de carrinho vazio.
func NewEmptySaleError() AppError {
	return &EmptySaleError{}
}

// ConflictError representa um conflito na regra de negócio (e.g., OCC, recurso duplicado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito (usado em OCC).
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa falha de autenticação ou credenciais inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	// Poderia adicionar lógica aqui para verificar se o erro é de timeout ou conexão.
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		// O erro é tipado (ValidationError, NotFoundError, etc.)
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	// Tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
