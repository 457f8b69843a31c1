package clienteservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/audit"
	"gofarma/internal/pkg/logger"
)

// ClienteRepository define o contrato que o Serviço de Clientes espera da camada de Persistência.
type ClienteRepository interface {
	Save(ctx context.Context, cliente domain.Cliente) (domain.Cliente, error)
	FindByID(ctx context.Context, id string) (domain.Cliente, error)
	FindAll(ctx context.Context, busca string) ([]domain.Cliente, error)
	Update(ctx context.Context, cliente domain.Cliente) (domain.Cliente, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a lógica de negócio do cadastro de clientes.
type Service struct {
	repo     ClienteRepository
	notifier audit.Notifier
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(repo ClienteRepository, notifier audit.Notifier, log logger.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: log}
}

// validar aplica as regras de validação comuns a criação e edição de cliente.
func validar(cliente domain.Cliente) error {
	if strings.TrimSpace(cliente.Nome) == "" {
		return apperror.NewValidationError("O nome do cliente não pode ser vazio.")
	}
	if !cpfValido(cliente.CPF) {
		return apperror.NewValidationError("O CPF do cliente deve conter 11 dígitos.")
	}
	if cliente.DataNascimento.IsZero() {
		return apperror.NewValidationError("A data de nascimento deve ser uma data de calendário válida.")
	}
	if cliente.DataNascimento.After(time.Now()) {
		return apperror.NewValidationError("A data de nascimento não pode estar no futuro.")
	}
	return nil
}

// cpfValido verifica o formato do CPF: 11 dígitos, com pontuação opcional.
func cpfValido(cpf string) bool {
	digitos := 0
	for _, r := range cpf {
		switch {
		case r >= '0' && r <= '9':
			digitos++
		case r == '.' || r == '-':
			// pontuação tolerada
		default:
			return false
		}
	}
	return digitos == 11
}

// CriarCliente valida e cadastra um novo cliente.
func (s *Service) CriarCliente(ctx context.Context, cliente domain.Cliente) (domain.Cliente, error) {
	if err := validar(cliente); err != nil {
		return domain.Cliente{}, err
	}

	cliente.ID = uuid.NewString()
	now := time.Now()
	cliente.CreatedAt = now
	cliente.UpdatedAt = now

	created, err := s.repo.Save(ctx, cliente)
	if err != nil {
		s.logger.Error("Falha ao salvar cliente no repositório.", err)
		return domain.Cliente{}, err
	}

	s.notifier.Notify(audit.Evento{
		Acao:     audit.AcaoClienteCriado,
		Entidade: "cliente",
		ID:       created.ID,
		Detalhes: map[string]interface{}{"nome": created.Nome},
	})

	s.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": created.ID, "nome": created.Nome})
	return created, nil
}

// BuscarClientePorID busca um cliente pelo ID após validação de formato.
func (s *Service) BuscarClientePorID(ctx context.Context, id string) (domain.Cliente, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Cliente{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}

	return s.repo.FindByID(ctx, id)
}

// ListarClientes lista os clientes, opcionalmente filtrados por nome ou CPF.
func (s *Service) ListarClientes(ctx context.Context, busca string) ([]domain.Cliente, error) {
	return s.repo.FindAll(ctx, strings.TrimSpace(busca))
}

// AtualizarCliente valida e atualiza os dados cadastrais de um cliente.
func (s *Service) AtualizarCliente(ctx context.Context, cliente domain.Cliente) (domain.Cliente, error) {
	if _, err := uuid.Parse(cliente.ID); err != nil {
		return domain.Cliente{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	if err := validar(cliente); err != nil {
		return domain.Cliente{}, err
	}

	updated, err := s.repo.Update(ctx, cliente)
	if err != nil {
		s.logger.Error("Falha ao atualizar cliente no repositório.", err)
		return domain.Cliente{}, err
	}

	s.notifier.Notify(audit.Evento{
		Acao:     audit.AcaoClienteEditado,
		Entidade: "cliente",
		ID:       updated.ID,
		Detalhes: map[string]interface{}{"nome": updated.Nome},
	})

	return updated, nil
}

// RemoverCliente remove um cliente do cadastro. As vendas históricas do cliente
// são preservadas: a referência na venda passa a ser nula.
func (s *Service) RemoverCliente(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover cliente no repositório.", err)
		return err
	}

	s.notifier.Notify(audit.Evento{
		Acao:     audit.AcaoClienteRemovido,
		Entidade: "cliente",
		ID:       id,
	})

	s.logger.Info("Cliente removido com sucesso.", map[string]interface{}{"id": id})
	return nil
}
