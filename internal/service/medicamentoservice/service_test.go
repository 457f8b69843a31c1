package medicamentoservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/audit"
	"gofarma/internal/pkg/logger"
	"gofarma/internal/service/medicamentoservice"
)

// MockMedicamentoRepository é uma implementação mock da interface MedicamentoRepository.
type MockMedicamentoRepository struct {
	mock.Mock
}

func (m *MockMedicamentoRepository) Save(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error) {
	args := m.Called(ctx, med)
	return args.Get(0).(domain.Medicamento), args.Error(1)
}

func (m *MockMedicamentoRepository) FindByID(ctx context.Context, id string) (domain.Medicamento, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Medicamento), args.Error(1)
}

func (m *MockMedicamentoRepository) FindAll(ctx context.Context, filter domain.MedicamentoFilter) ([]domain.Medicamento, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Medicamento), args.Error(1)
}

func (m *MockMedicamentoRepository) Update(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error) {
	args := m.Called(ctx, med)
	return args.Get(0).(domain.Medicamento), args.Error(1)
}

func (m *MockMedicamentoRepository) SetAtivo(ctx context.Context, id string, ativo bool) (domain.Medicamento, error) {
	args := m.Called(ctx, id, ativo)
	return args.Get(0).(domain.Medicamento), args.Error(1)
}

// MockCategoriaRepository é uma implementação mock da interface CategoriaRepository.
type MockCategoriaRepository struct {
	mock.Mock
}

func (m *MockCategoriaRepository) FindByID(ctx context.Context, id string) (domain.Categoria, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Categoria), args.Error(1)
}

// stubNotifier registra os eventos de auditoria emitidos durante o teste.
type stubNotifier struct {
	eventos []audit.Evento
}

func (n *stubNotifier) Notify(evento audit.Evento) { n.eventos = append(n.eventos, evento) }
func (n *stubNotifier) Close()                     {}

func novoMedicamento(categoriaID string) domain.Medicamento {
	return domain.Medicamento{
		Nome:         "Dipirona",
		Dosagem:      "500mg",
		Preco:        decimal.RequireFromString("9.90"),
		Estoque:      10,
		DataValidade: time.Now().AddDate(1, 0, 0),
		Categoria:    domain.Categoria{ID: categoriaID},
	}
}

// TestCriarMedicamento_Sucesso verifica a criação com ID gerado, ativo por
// padrão e evento de auditoria.
func TestCriarMedicamento_Sucesso(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	mockCatRepo := new(MockCategoriaRepository)
	notifier := &stubNotifier{}
	svc := medicamentoservice.NewService(mockRepo, mockCatRepo, notifier, logger.NewLogger("debug"))

	categoriaID := uuid.NewString()
	mockCatRepo.On("FindByID", mock.Anything, categoriaID).
		Return(domain.Categoria{ID: categoriaID, Nome: "Analgésicos"}, nil)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(med domain.Medicamento) bool {
		return med.ID != "" && med.Ativo
	})).Return(novoMedicamento(categoriaID), nil)

	_, err := svc.CriarMedicamento(context.Background(), novoMedicamento(categoriaID))

	assert.NoError(t, err)
	assert.Len(t, notifier.eventos, 1)
	assert.Equal(t, audit.AcaoMedicamentoCriado, notifier.eventos[0].Acao)
	mockRepo.AssertExpectations(t)
}

// TestCriarMedicamento_NomeVazio verifica a rejeição de nome em branco.
func TestCriarMedicamento_NomeVazio(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := medicamentoservice.NewService(mockRepo, new(MockCategoriaRepository), &stubNotifier{}, logger.NewLogger("debug"))

	med := novoMedicamento(uuid.NewString())
	med.Nome = "   "

	_, err := svc.CriarMedicamento(context.Background(), med)

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "Save")
}

// TestCriarMedicamento_PrecoNegativo verifica a rejeição de preço negativo.
func TestCriarMedicamento_PrecoNegativo(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := medicamentoservice.NewService(mockRepo, new(MockCategoriaRepository), &stubNotifier{}, logger.NewLogger("debug"))

	med := novoMedicamento(uuid.NewString())
	med.Preco = decimal.RequireFromString("-0.01")

	_, err := svc.CriarMedicamento(context.Background(), med)

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "Save")
}

// TestCriarMedicamento_CategoriaInexistente verifica que a referência de
// categoria precisa existir no catálogo.
func TestCriarMedicamento_CategoriaInexistente(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	mockCatRepo := new(MockCategoriaRepository)
	svc := medicamentoservice.NewService(mockRepo, mockCatRepo, &stubNotifier{}, logger.NewLogger("debug"))

	categoriaID := uuid.NewString()
	mockCatRepo.On("FindByID", mock.Anything, categoriaID).
		Return(domain.Categoria{}, apperror.NewNotFoundError("Categoria não existe"))

	_, err := svc.CriarMedicamento(context.Background(), novoMedicamento(categoriaID))

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "Save")
}

// TestAtualizarMedicamento_PreservaEstoque verifica que a edição reutiliza o
// estoque corrente: o campo não é editável por esta operação.
func TestAtualizarMedicamento_PreservaEstoque(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	mockCatRepo := new(MockCategoriaRepository)
	svc := medicamentoservice.NewService(mockRepo, mockCatRepo, &stubNotifier{}, logger.NewLogger("debug"))

	medID := uuid.NewString()
	categoriaID := uuid.NewString()

	atual := novoMedicamento(categoriaID)
	atual.ID = medID
	atual.Estoque = 42

	mockRepo.On("FindByID", mock.Anything, medID).Return(atual, nil)
	mockCatRepo.On("FindByID", mock.Anything, categoriaID).
		Return(domain.Categoria{ID: categoriaID}, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(med domain.Medicamento) bool {
		return med.Estoque == 42
	})).Return(atual, nil)

	edicao := novoMedicamento(categoriaID)
	edicao.ID = medID
	edicao.Estoque = 999 // valor do payload deve ser ignorado

	_, err := svc.AtualizarMedicamento(context.Background(), edicao)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestRemoverMedicamento_RemocaoLogica verifica que remover desativa em vez de apagar.
func TestRemoverMedicamento_RemocaoLogica(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	notifier := &stubNotifier{}
	svc := medicamentoservice.NewService(mockRepo, new(MockCategoriaRepository), notifier, logger.NewLogger("debug"))

	medID := uuid.NewString()
	desativado := novoMedicamento(uuid.NewString())
	desativado.ID = medID
	desativado.Ativo = false

	mockRepo.On("SetAtivo", mock.Anything, medID, false).Return(desativado, nil)

	err := svc.RemoverMedicamento(context.Background(), medID)

	assert.NoError(t, err)
	assert.Len(t, notifier.eventos, 1)
	assert.Equal(t, audit.AcaoMedicamentoStatus, notifier.eventos[0].Acao)
	mockRepo.AssertExpectations(t)
}

// TestBuscarMedicamentoPorID_IDInvalido verifica a validação de formato do UUID.
func TestBuscarMedicamentoPorID_IDInvalido(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := medicamentoservice.NewService(mockRepo, new(MockCategoriaRepository), &stubNotifier{}, logger.NewLogger("debug"))

	_, err := svc.BuscarMedicamentoPorID(context.Background(), "nao-e-uuid")

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "FindByID")
}
