package alertaservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
	"gofarma/internal/service/alertaservice"
)

// MockMedicamentoRepository é uma implementação mock da interface MedicamentoRepository.
type MockMedicamentoRepository struct {
	mock.Mock
}

func (m *MockMedicamentoRepository) FindAll(ctx context.Context, filter domain.MedicamentoFilter) ([]domain.Medicamento, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Medicamento), args.Error(1)
}

func medicamento(nome string, estoque int, validade time.Time) domain.Medicamento {
	return domain.Medicamento{Nome: nome, Estoque: estoque, DataValidade: validade, Ativo: true}
}

// TestListarAlertas_EstoqueBaixo verifica o limiar inclusivo de estoque baixo:
// 10 unidades alertam, 11 não, e estoque zerado não gera alerta.
func TestListarAlertas_EstoqueBaixo(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := alertaservice.NewService(mockRepo, 10, 30, logger.NewLogger("debug"))

	longe := time.Now().AddDate(1, 0, 0)
	mockRepo.On("FindAll", mock.Anything, domain.MedicamentoFilter{ApenasAtivos: true}).
		Return([]domain.Medicamento{
			medicamento("No Limiar", 10, longe),
			medicamento("Acima do Limiar", 11, longe),
			medicamento("Zerado", 0, longe),
		}, nil)

	alertas, err := svc.ListarAlertas(context.Background())

	assert.NoError(t, err)
	assert.Len(t, alertas, 1)
	assert.Equal(t, domain.AlertaEstoqueBaixo, alertas[0].Tipo)
	assert.Equal(t, "No Limiar", alertas[0].Medicamento.Nome)
	assert.Contains(t, alertas[0].Mensagem, "10 unidades")
}

// TestListarAlertas_ValidadeProxima verifica a janela de validade: dentro da
// janela alerta, no limite alerta, fora não.
func TestListarAlertas_ValidadeProxima(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := alertaservice.NewService(mockRepo, 10, 30, logger.NewLogger("debug"))

	agora := time.Now()
	mockRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]domain.Medicamento{
			medicamento("Vence em 30 dias", 100, agora.AddDate(0, 0, 30)),
			medicamento("Vence em 31 dias", 100, agora.AddDate(0, 0, 31)),
			medicamento("Vence hoje", 100, agora),
		}, nil)

	alertas, err := svc.ListarAlertas(context.Background())

	assert.NoError(t, err)
	assert.Len(t, alertas, 2)
	for _, alerta := range alertas {
		assert.Equal(t, domain.AlertaValidadeProxima, alerta.Tipo)
	}
}

// TestListarAlertas_Vencido verifica que validade passada gera o alerta distinto
// de vencido, não o de validade próxima.
func TestListarAlertas_Vencido(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := alertaservice.NewService(mockRepo, 10, 30, logger.NewLogger("debug"))

	mockRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]domain.Medicamento{
			medicamento("Venceu ontem", 100, time.Now().AddDate(0, 0, -1)),
		}, nil)

	alertas, err := svc.ListarAlertas(context.Background())

	assert.NoError(t, err)
	assert.Len(t, alertas, 1)
	assert.Equal(t, domain.AlertaVencido, alertas[0].Tipo)
}

// TestListarAlertas_CondicoesCombinadas verifica que um medicamento com estoque
// baixo E validade próxima aparece em dois alertas.
func TestListarAlertas_CondicoesCombinadas(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := alertaservice.NewService(mockRepo, 10, 30, logger.NewLogger("debug"))

	mockRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]domain.Medicamento{
			medicamento("Duplo", 3, time.Now().AddDate(0, 0, 5)),
		}, nil)

	alertas, err := svc.ListarAlertas(context.Background())

	assert.NoError(t, err)
	assert.Len(t, alertas, 2)
	tipos := []domain.TipoAlerta{alertas[0].Tipo, alertas[1].Tipo}
	assert.Contains(t, tipos, domain.AlertaEstoqueBaixo)
	assert.Contains(t, tipos, domain.AlertaValidadeProxima)
}

// TestListarAlertas_Idempotente verifica que consultas repetidas sobre o mesmo
// estado produzem o mesmo resultado: os alertas são derivados, não acumulados.
func TestListarAlertas_Idempotente(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := alertaservice.NewService(mockRepo, 10, 30, logger.NewLogger("debug"))

	mockRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]domain.Medicamento{
			medicamento("Baixo", 2, time.Now().AddDate(1, 0, 0)),
		}, nil)

	primeira, err := svc.ListarAlertas(context.Background())
	assert.NoError(t, err)
	segunda, err := svc.ListarAlertas(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, primeira, segunda)
	assert.Len(t, segunda, 1)
}

// TestContarAlertas verifica a contagem usada pelo painel.
func TestContarAlertas(t *testing.T) {
	mockRepo := new(MockMedicamentoRepository)
	svc := alertaservice.NewService(mockRepo, 10, 30, logger.NewLogger("debug"))

	mockRepo.On("FindAll", mock.Anything, mock.Anything).
		Return([]domain.Medicamento{
			medicamento("Baixo", 1, time.Now().AddDate(1, 0, 0)),
			medicamento("Vencido", 50, time.Now().AddDate(0, 0, -10)),
		}, nil)

	total, err := svc.ContarAlertas(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, total)
}
