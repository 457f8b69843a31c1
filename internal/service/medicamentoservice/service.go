package medicamentoservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/audit"
	"gofarma/internal/pkg/logger"
)

// MedicamentoRepository define o contrato que o Serviço do Catálogo espera da camada de Persistência.
type MedicamentoRepository interface {
	Save(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error)
	FindByID(ctx context.Context, id string) (domain.Medicamento, error)
	FindAll(ctx context.Context, filter domain.MedicamentoFilter) ([]domain.Medicamento, error)
	Update(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error)
	SetAtivo(ctx context.Context, id string, ativo bool) (domain.Medicamento, error)
}

// CategoriaRepository resolve a referência obrigatória de categoria na criação/edição.
type CategoriaRepository interface {
	FindByID(ctx context.Context, id string) (domain.Categoria, error)
}

// Service implementa a lógica de negócio do catálogo de medicamentos.
// É a única dona do ciclo de vida de Medicamento; o estoque, porém, só muda
// através do serviço de estoque (livro-razão).
type Service struct {
	repo     MedicamentoRepository
	catRepo  CategoriaRepository
	notifier audit.Notifier
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço do Catálogo.
func NewService(repo MedicamentoRepository, catRepo CategoriaRepository, notifier audit.Notifier, log logger.Logger) *Service {
	return &Service{repo: repo, catRepo: catRepo, notifier: notifier, logger: log}
}

// validar aplica as regras de validação comuns a criação e edição.
func (s *Service) validar(ctx context.Context, med domain.Medicamento) error {
	if strings.TrimSpace(med.Nome) == "" {
		return apperror.NewValidationError("O nome do medicamento não pode ser vazio.")
	}
	if med.Preco.LessThan(decimal.Zero) {
		return apperror.NewValidationError("O preço do medicamento não pode ser negativo.")
	}
	if med.Estoque < 0 {
		return apperror.NewValidationError("O estoque do medicamento não pode ser negativo.")
	}
	if med.DataValidade.IsZero() {
		return apperror.NewValidationError("A data de validade deve ser uma data de calendário válida.")
	}
	if med.Categoria.ID == "" {
		return apperror.NewValidationError("A categoria do medicamento é obrigatória.")
	}
	if _, err := uuid.Parse(med.Categoria.ID); err != nil {
		return apperror.NewValidationError("O ID da categoria deve ser um UUID válido.")
	}
	// A referência de categoria precisa existir no catálogo
	if _, err := s.catRepo.FindByID(ctx, med.Categoria.ID); err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return apperror.NewValidationError(fmt.Sprintf("A categoria %s não existe.", med.Categoria.ID))
		}
		return err
	}
	return nil
}

// CriarMedicamento valida e cria uma nova entrada no catálogo.
func (s *Service) CriarMedicamento(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error) {
	if err := s.validar(ctx, med); err != nil {
		return domain.Medicamento{}, err
	}

	med.ID = uuid.NewString()
	med.Ativo = true
	now := time.Now()
	med.CreatedAt = now
	med.UpdatedAt = now

	created, err := s.repo.Save(ctx, med)
	if err != nil {
		s.logger.Error("Falha ao salvar medicamento no repositório.", err)
		return domain.Medicamento{}, err
	}

	s.notifier.Notify(audit.Evento{
		Acao:     audit.AcaoMedicamentoCriado,
		Entidade: "medicamento",
		ID:       created.ID,
		Detalhes: map[string]interface{}{"nome": created.Nome},
	})

	s.logger.Info("Medicamento criado com sucesso.", map[string]interface{}{"id": created.ID, "nome": created.Nome})
	return created, nil
}

// BuscarMedicamentoPorID busca um medicamento pelo ID após validação de formato.
func (s *Service) BuscarMedicamentoPorID(ctx context.Context, id string) (domain.Medicamento, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Medicamento{}, apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}

	return s.repo.FindByID(ctx, id)
}

// ListarMedicamentos lista o catálogo conforme o filtro. Com ApenasAtivos = false
// os inativos também são retornados, para os contextos de gestão de estoque.
func (s *Service) ListarMedicamentos(ctx context.Context, filter domain.MedicamentoFilter) ([]domain.Medicamento, error) {
	return s.repo.FindAll(ctx, filter)
}

// AtualizarMedicamento valida e atualiza os campos editáveis de um medicamento.
// O estoque não é editável por aqui: toda mudança passa pelo livro-razão.
func (s *Service) AtualizarMedicamento(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error) {
	if _, err := uuid.Parse(med.ID); err != nil {
		return domain.Medicamento{}, apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}

	// O estoque informado no payload é ignorado na validação de edição:
	// reaproveitamos o valor corrente para não reprovar edições legítimas.
	atual, err := s.repo.FindByID(ctx, med.ID)
	if err != nil {
		return domain.Medicamento{}, err
	}
	med.Estoque = atual.Estoque

	if err := s.validar(ctx, med); err != nil {
		return domain.Medicamento{}, err
	}

	updated, err := s.repo.Update(ctx, med)
	if err != nil {
		s.logger.Error("Falha ao atualizar medicamento no repositório.", err)
		return domain.Medicamento{}, err
	}

	s.notifier.Notify(audit.Evento{
		Acao:     audit.AcaoMedicamentoEditado,
		Entidade: "medicamento",
		ID:       updated.ID,
		Detalhes: map[string]interface{}{"nome": updated.Nome},
	})

	return updated, nil
}

// AlterarStatus ativa ou desativa um medicamento.
func (s *Service) AlterarStatus(ctx context.Context, id string, ativo bool) (domain.Medicamento, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Medicamento{}, apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}

	updated, err := s.repo.SetAtivo(ctx, id, ativo)
	if err != nil {
		s.logger.Error("Falha ao alterar status do medicamento no repositório.", err)
		return domain.Medicamento{}, err
	}

	s.notifier.Notify(audit.Evento{
		Acao:     audit.AcaoMedicamentoStatus,
		Entidade: "medicamento",
		ID:       updated.ID,
		Detalhes: map[string]interface{}{"ativo": updated.Ativo},
	})

	return updated, nil
}

// RemoverMedicamento faz a remoção lógica (Ativo = false). O registro permanece
// na base: vendas históricas continuam referenciando o medicamento.
func (s *Service) RemoverMedicamento(ctx context.Context, id string) error {
	_, err := s.AlterarStatus(ctx, id, false)
	return err
}
