package categoriaservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/logger"
)

// CategoriaRepository define o contrato que o Serviço de Categorias espera da camada de Persistência.
type CategoriaRepository interface {
	Save(ctx context.Context, cat domain.Categoria) (domain.Categoria, error)
	FindByID(ctx context.Context, id string) (domain.Categoria, error)
	FindAll(ctx context.Context) ([]domain.Categoria, error)
	Update(ctx context.Context, cat domain.Categoria) (domain.Categoria, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a lógica de negócio das categorias do catálogo.
type Service struct {
	repo   CategoriaRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Categorias.
func NewService(repo CategoriaRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// CriarCategoria cria uma nova categoria após validações de negócio.
func (s *Service) CriarCategoria(ctx context.Context, cat domain.Categoria) (domain.Categoria, error) {
	if strings.TrimSpace(cat.Nome) == "" {
		return domain.Categoria{}, apperror.NewValidationError("O nome da categoria não pode ser vazio.")
	}

	cat.ID = uuid.NewString()
	created, err := s.repo.Save(ctx, cat)
	if err != nil {
		s.logger.Error("Falha ao criar categoria no repositório.", err)
		return domain.Categoria{}, err
	}

	s.logger.Info("Categoria criada com sucesso.", map[string]interface{}{"id": created.ID, "nome": created.Nome})
	return created, nil
}

// BuscarCategoriaPorID busca uma categoria pelo ID após validação de formato.
func (s *Service) BuscarCategoriaPorID(ctx context.Context, id string) (domain.Categoria, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Categoria{}, apperror.NewValidationError("O ID da categoria deve ser um UUID válido.")
	}

	return s.repo.FindByID(ctx, id)
}

// ListarCategorias lista todas as categorias.
func (s *Service) ListarCategorias(ctx context.Context) ([]domain.Categoria, error) {
	return s.repo.FindAll(ctx)
}

// AtualizarCategoria atualiza os campos editáveis de uma categoria.
// A identidade (ID) é imutável.
func (s *Service) AtualizarCategoria(ctx context.Context, cat domain.Categoria) (domain.Categoria, error) {
	if _, err := uuid.Parse(cat.ID); err != nil {
		return domain.Categoria{}, apperror.NewValidationError("O ID da categoria deve ser um UUID válido.")
	}
	if strings.TrimSpace(cat.Nome) == "" {
		return domain.Categoria{}, apperror.NewValidationError("O nome da categoria não pode ser vazio.")
	}

	updated, err := s.repo.Update(ctx, cat)
	if err != nil {
		s.logger.Error("Falha ao atualizar categoria no repositório.", err)
		return domain.Categoria{}, err
	}

	s.logger.Info("Categoria atualizada com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// RemoverCategoria remove uma categoria sem medicamentos vinculados.
func (s *Service) RemoverCategoria(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da categoria deve ser um UUID válido.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover categoria no repositório.", err)
		return err
	}

	s.logger.Info("Categoria removida com sucesso.", map[string]interface{}{"id": id})
	return nil
}
