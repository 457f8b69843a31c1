package dashboardservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/logger"
	"gofarma/internal/service/dashboardservice"
)

// MockMedicamentoRepository é uma implementação mock da interface MedicamentoRepository.
type MockMedicamentoRepository struct {
	mock.Mock
}

func (m *MockMedicamentoRepository) CountAtivos(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockClienteRepository é uma implementação mock da interface ClienteRepository.
type MockClienteRepository struct {
	mock.Mock
}

func (m *MockClienteRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockVendaRepository é uma implementação mock da interface VendaRepository.
type MockVendaRepository struct {
	mock.Mock
}

func (m *MockVendaRepository) CountPorDia(ctx context.Context, dia time.Time) (int, error) {
	args := m.Called(ctx, dia)
	return args.Int(0), args.Error(1)
}

// MockAlertaService é uma implementação mock da interface AlertaService.
type MockAlertaService struct {
	mock.Mock
}

func (m *MockAlertaService) ContarAlertas(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// TestObterEstatisticas_Sucesso verifica a agregação dos quatro indicadores.
func TestObterEstatisticas_Sucesso(t *testing.T) {
	mockMed := new(MockMedicamentoRepository)
	mockCli := new(MockClienteRepository)
	mockVen := new(MockVendaRepository)
	mockAle := new(MockAlertaService)
	svc := dashboardservice.NewService(mockMed, mockCli, mockVen, mockAle, logger.NewLogger("debug"))

	mockMed.On("CountAtivos", mock.Anything).Return(12, nil)
	mockCli.On("Count", mock.Anything).Return(34, nil)
	mockVen.On("CountPorDia", mock.Anything, mock.AnythingOfType("time.Time")).Return(5, nil)
	mockAle.On("ContarAlertas", mock.Anything).Return(3, nil)

	stats, err := svc.ObterEstatisticas(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		MedicamentosAtivos:  12,
		ClientesCadastrados: 34,
		VendasHoje:          5,
		AlertasAtivos:       3,
	}, stats)
	mockMed.AssertExpectations(t)
	mockCli.AssertExpectations(t)
	mockVen.AssertExpectations(t)
	mockAle.AssertExpectations(t)
}

// TestObterEstatisticas_FalhaPropagada verifica que o erro de uma das fontes
// interrompe a agregação.
func TestObterEstatisticas_FalhaPropagada(t *testing.T) {
	mockMed := new(MockMedicamentoRepository)
	mockCli := new(MockClienteRepository)
	mockVen := new(MockVendaRepository)
	mockAle := new(MockAlertaService)
	svc := dashboardservice.NewService(mockMed, mockCli, mockVen, mockAle, logger.NewLogger("debug"))

	mockMed.On("CountAtivos", mock.Anything).
		Return(0, apperror.NewDBError("Falha ao contar medicamentos ativos", assert.AnError))

	_, err := svc.ObterEstatisticas(context.Background())

	assert.Error(t, err)
	mockCli.AssertNotCalled(t, "Count")
}
