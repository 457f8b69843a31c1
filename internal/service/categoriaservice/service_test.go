package categoriaservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/logger"
	"gofarma/internal/service/categoriaservice"
)

// MockCategoriaRepository é uma implementação mock da interface CategoriaRepository.
type MockCategoriaRepository struct {
	mock.Mock
}

func (m *MockCategoriaRepository) Save(ctx context.Context, cat domain.Categoria) (domain.Categoria, error) {
	args := m.Called(ctx, cat)
	return args.Get(0).(domain.Categoria), args.Error(1)
}

func (m *MockCategoriaRepository) FindByID(ctx context.Context, id string) (domain.Categoria, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Categoria), args.Error(1)
}

func (m *MockCategoriaRepository) FindAll(ctx context.Context) ([]domain.Categoria, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Categoria), args.Error(1)
}

func (m *MockCategoriaRepository) Update(ctx context.Context, cat domain.Categoria) (domain.Categoria, error) {
	args := m.Called(ctx, cat)
	return args.Get(0).(domain.Categoria), args.Error(1)
}

func (m *MockCategoriaRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TestCriarCategoria_Sucesso verifica a criação com ID gerado.
func TestCriarCategoria_Sucesso(t *testing.T) {
	mockRepo := new(MockCategoriaRepository)
	svc := categoriaservice.NewService(mockRepo, logger.NewLogger("debug"))

	esperada := domain.Categoria{ID: uuid.NewString(), Nome: "Analgésicos"}
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(cat domain.Categoria) bool {
		return cat.ID != "" && cat.Nome == "Analgésicos"
	})).Return(esperada, nil)

	created, err := svc.CriarCategoria(context.Background(), domain.Categoria{Nome: "Analgésicos"})

	assert.NoError(t, err)
	assert.Equal(t, esperada, created)
	mockRepo.AssertExpectations(t)
}

// TestCriarCategoria_NomeVazio verifica a rejeição de nome em branco.
func TestCriarCategoria_NomeVazio(t *testing.T) {
	mockRepo := new(MockCategoriaRepository)
	svc := categoriaservice.NewService(mockRepo, logger.NewLogger("debug"))

	_, err := svc.CriarCategoria(context.Background(), domain.Categoria{Nome: "   "})

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "Save")
}

// TestRemoverCategoria_ComVinculos verifica que o conflito de integridade do
// repositório (medicamentos vinculados) é propagado ao chamador.
func TestRemoverCategoria_ComVinculos(t *testing.T) {
	mockRepo := new(MockCategoriaRepository)
	svc := categoriaservice.NewService(mockRepo, logger.NewLogger("debug"))

	id := uuid.NewString()
	mockRepo.On("Delete", mock.Anything, id).
		Return(apperror.NewConflictError("A categoria possui medicamentos vinculados e não pode ser removida."))

	err := svc.RemoverCategoria(context.Background(), id)

	var conflictErr *apperror.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	mockRepo.AssertExpectations(t)
}
