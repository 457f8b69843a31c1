package vendaservice_test

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
	"gofarma/internal/service/vendaservice"
)

// MockMedicamentoRepository é uma implementação mock da interface MedicamentoRepository.
type MockMedicamentoRepository struct {
	mock.Mock
}

func (m *MockMedicamentoRepository) FindByID(ctx context.Context, id string) (domain.Medicamento, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Medicamento), args.Error(1)
}

// MockClienteRepository é uma implementação mock da interface ClienteRepository.
type MockClienteRepository struct {
	mock.Mock
}

func (m *MockClienteRepository) FindByID(ctx context.Context, id string) (domain.Cliente, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Cliente), args.Error(1)
}

// MockEstoqueService é uma implementação mock da interface EstoqueService.
type MockEstoqueService struct {
	mock.Mock
}

func (m *MockEstoqueService) RegistrarSaida(ctx context.Context, medicamentoID string, quantidade int, observacao string) (domain.MovimentacaoEstoque, error) {
	args := m.Called(ctx, medicamentoID, quantidade, observacao)
	return args.Get(0).(domain.MovimentacaoEstoque), args.Error(1)
}

// MockVendaRepository é uma implementação mock da interface VendaRepository.
type MockVendaRepository struct {
	mock.Mock
}

func (m *MockVendaRepository) Save(ctx context.Context, venda domain.Venda) (domain.Venda, error) {
	args := m.Called(ctx, venda)
	return args.Get(0).(domain.Venda), args.Error(1)
}

func (m *MockVendaRepository) FindByID(ctx context.Context, id string) (domain.Venda, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Venda), args.Error(1)
}

func (m *MockVendaRepository) FindAll(ctx context.Context) ([]domain.Venda, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Venda), args.Error(1)
}

func (m *MockVendaRepository) FindByCliente(ctx context.Context, clienteID string) ([]domain.Venda, error) {
	args := m.Called(ctx, clienteID)
	return args.Get(0).([]domain.Venda), args.Error(1)
}

// stubNotifier registra os eventos de auditoria emitidos durante o teste.
type stubNotifier struct {
	eventos []audit.Evento
}

func (n *stubNotifier) Notify(evento audit.Evento) { n.eventos = append(n.eventos, evento) }
func (n *stubNotifier) Close()                     {}

type fixture struct {
	medicamentos *MockMedicamentoRepository
	clientes     *MockClienteRepository
	estoque      *MockEstoqueService
	vendas       *MockVendaRepository
	notifier     *stubNotifier
	svc          *vendaservice.Service
}

func newFixture() *fixture {
	f := &fixture{
		medicamentos: new(MockMedicamentoRepository),
		clientes:     new(MockClienteRepository),
		estoque:      new(MockEstoqueService),
		vendas:       new(MockVendaRepository),
		notifier:     &stubNotifier{},
	}
	f.svc = vendaservice.NewService(f.medicamentos, f.clientes, f.estoque, f.vendas, f.notifier, logger.NewLogger("debug"))
	return f
}

func medicamentoVendavel(id, nome string, preco string, estoque int) domain.Medicamento {
	return domain.Medicamento{
		ID:           id,
		Nome:         nome,
		Preco:        decimal.RequireFromString(preco),
		Estoque:      estoque,
		DataValidade: time.Now().AddDate(1, 0, 0),
		Ativo:        true,
	}
}

// TestAdicionarItem_Sucesso verifica o snapshot de nome e preço na linha do carrinho.
func TestAdicionarItem_Sucesso(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()
	f.medicamentos.On("FindByID", mock.Anything, medID).
		Return(medicamentoVendavel(medID, "Dipirona", "10.00", 8), nil)

	carrinho := f.svc.NovoCarrinho()
	err := f.svc.AdicionarItem(context.Background(), carrinho, medID, 2)

	assert.NoError(t, err)
	assert.Len(t, carrinho.Itens, 1)
	assert.Equal(t, "Dipirona", carrinho.Itens[0].NomeMedicamento)
	assert.Equal(t, 2, carrinho.Itens[0].Quantidade)
	assert.True(t, carrinho.Itens[0].PrecoUnitario.Equal(decimal.RequireFromString("10.00")))
}

// TestAdicionarItem_Duplicado verifica que um medicamento ocupa no máximo uma linha.
func TestAdicionarItem_Duplicado(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()
	f.medicamentos.On("FindByID", mock.Anything, medID).
		Return(medicamentoVendavel(medID, "Dipirona", "10.00", 8), nil)

	carrinho := f.svc.NovoCarrinho()
	assert.NoError(t, f.svc.AdicionarItem(context.Background(), carrinho, medID, 1))

	err := f.svc.AdicionarItem(context.Background(), carrinho, medID, 3)

	var dupErr *apperror.DuplicateItemError
	assert.ErrorAs(t, err, &dupErr)
	assert.Len(t, carrinho.Itens, 1)
}

// TestAdicionarItem_MedicamentoInativo verifica a recusa de itens inativos.
func TestAdicionarItem_MedicamentoInativo(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()
	med := medicamentoVendavel(medID, "Dipirona", "10.00", 8)
	med.Ativo = false
	f.medicamentos.On("FindByID", mock.Anything, medID).Return(med, nil)

	carrinho := f.svc.NovoCarrinho()
	err := f.svc.AdicionarItem(context.Background(), carrinho, medID, 1)

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Empty(t, carrinho.Itens)
}

// TestAdicionarItem_MedicamentoVencido verifica a recusa de itens vencidos.
func TestAdicionarItem_MedicamentoVencido(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()
	med := medicamentoVendavel(medID, "Dipirona", "10.00", 8)
	med.DataValidade = time.Now().AddDate(0, 0, -1)
	f.medicamentos.On("FindByID", mock.Anything, medID).Return(med, nil)

	carrinho := f.svc.NovoCarrinho()
	err := f.svc.AdicionarItem(context.Background(), carrinho, medID, 1)

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

// TestAdicionarItem_SemEstoque verifica a recusa quando não há unidades disponíveis.
func TestAdicionarItem_SemEstoque(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()
	f.medicamentos.On("FindByID", mock.Anything, medID).
		Return(medicamentoVendavel(medID, "Dipirona", "10.00", 0), nil)

	carrinho := f.svc.NovoCarrinho()
	err := f.svc.AdicionarItem(context.Background(), carrinho, medID, 1)

	var stockErr *apperror.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
}

// TestAlterarQuantidade_Sucesso verifica o ajuste de quantidade de uma linha existente.
func TestAlterarQuantidade_Sucesso(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()
	f.medicamentos.On("FindByID", mock.Anything, medID).
		Return(medicamentoVendavel(medID, "Dipirona", "10.00", 8), nil)

	carrinho := f.svc.NovoCarrinho()
	assert.NoError(t, f.svc.AdicionarItem(context.Background(), carrinho, medID, 1))

	err := f.svc.AlterarQuantidade(context.Background(), carrinho, medID, 5)

	assert.NoError(t, err)
	assert.Equal(t, 5, carrinho.Itens[0].Quantidade)
}

// TestAlterarQuantidade_Zero verifica que zerar a quantidade é rejeitado:
// a retirada da linha é feita por RemoverItem.
func TestAlterarQuantidade_Zero(t *testing.T) {
	f := newFixture()
	carrinho := &domain.Carrinho{Itens: []domain.ItemVenda{{MedicamentoID: "x", Quantidade: 1}}}

	err := f.svc.AlterarQuantidade(context.Background(), carrinho, "x", 0)

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 1, carrinho.Itens[0].Quantidade)
}

// TestRemoverItem_Sucesso verifica a retirada de uma linha do carrinho.
func TestRemoverItem_Sucesso(t *testing.T) {
	f := newFixture()
	carrinho := &domain.Carrinho{Itens: []domain.ItemVenda{
		{MedicamentoID: "a"},
		{MedicamentoID: "b"},
	}}

	assert.NoError(t, f.svc.RemoverItem(carrinho, "a"))
	assert.Len(t, carrinho.Itens, 1)
	assert.Equal(t, "b", carrinho.Itens[0].MedicamentoID)
}

// TestFinalizar_CarrinhoVazio verifica a recusa de venda sem itens.
func TestFinalizar_CarrinhoVazio(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Finalizar(context.Background(), f.svc.NovoCarrinho(), "")

	var emptyErr *apperror.EmptySaleError
	assert.ErrorAs(t, err, &emptyErr)
	f.estoque.AssertNotCalled(t, "RegistrarSaida")
	f.vendas.AssertNotCalled(t, "Save")
}

// TestFinalizar_ClienteMenorDeIdade verifica que a venda é recusada antes de
// qualquer baixa de estoque quando o cliente é menor de idade.
func TestFinalizar_ClienteMenorDeIdade(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()
	clienteID := uuid.NewString()

	f.medicamentos.On("FindByID", mock.Anything, medID).
		Return(medicamentoVendavel(medID, "Dipirona", "10.00", 8), nil)
	f.clientes.On("FindByID", mock.Anything, clienteID).Return(domain.Cliente{
		ID:             clienteID,
		Nome:           "João Menor",
		DataNascimento: time.Now().AddDate(-16, 0, 0),
	}, nil)

	carrinho := f.svc.NovoCarrinho()
	assert.NoError(t, f.svc.AdicionarItem(context.Background(), carrinho, medID, 1))

	_, err := f.svc.Finalizar(context.Background(), carrinho, clienteID)

	var underageErr *apperror.UnderageClientError
	assert.ErrorAs(t, err, &underageErr)
	assert.Equal(t, 16, underageErr.Idade)
	f.estoque.AssertNotCalled(t, "RegistrarSaida")
	f.vendas.AssertNotCalled(t, "Save")
}

// TestFinalizar_Sucesso verifica o fluxo completo: baixas na ordem das linhas,
// total recomputado dos itens (2 × 10.00 + 1 × 5.00 = 25.00) e auditoria.
func TestFinalizar_Sucesso(t *testing.T) {
	f := newFixture()
	medA := uuid.NewString()
	medB := uuid.NewString()

	f.medicamentos.On("FindByID", mock.Anything, medA).
		Return(medicamentoVendavel(medA, "Dipirona", "10.00", 8), nil)
	f.medicamentos.On("FindByID", mock.Anything, medB).
		Return(medicamentoVendavel(medB, "Paracetamol", "5.00", 3), nil)

	f.estoque.On("RegistrarSaida", mock.Anything, medA, 2, mock.AnythingOfType("string")).
		Return(domain.MovimentacaoEstoque{}, nil)
	f.estoque.On("RegistrarSaida", mock.Anything, medB, 1, mock.AnythingOfType("string")).
		Return(domain.MovimentacaoEstoque{}, nil)

	f.vendas.On("Save", mock.Anything, mock.MatchedBy(func(v domain.Venda) bool {
		return len(v.Itens) == 2 && v.ValorTotal.Equal(decimal.RequireFromString("25.00"))
	})).Return(domain.Venda{ID: "gravada", ValorTotal: decimal.RequireFromString("25.00")}, nil)

	carrinho := f.svc.NovoCarrinho()
	ctx := context.Background()
	assert.NoError(t, f.svc.AdicionarItem(ctx, carrinho, medA, 2))
	assert.NoError(t, f.svc.AdicionarItem(ctx, carrinho, medB, 1))

	venda, err := f.svc.Finalizar(ctx, carrinho, "")

	assert.NoError(t, err)
	assert.True(t, venda.ValorTotal.Equal(decimal.RequireFromString("25.00")))
	assert.Len(t, f.notifier.eventos, 1)
	assert.Equal(t, audit.AcaoVendaCriada, f.notifier.eventos[0].Acao)
	f.estoque.AssertExpectations(t)
	f.vendas.AssertExpectations(t)
}

// TestFinalizar_EstoqueMudouAposComposicao verifica que a revalidação na
// finalização usa o estado corrente do catálogo, não o da composição.
func TestFinalizar_EstoqueMudouAposComposicao(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()

	// Na composição havia 5 unidades; na finalização restam 2.
	f.medicamentos.On("FindByID", mock.Anything, medID).
		Return(medicamentoVendavel(medID, "Dipirona", "10.00", 5), nil).Once()
	f.medicamentos.On("FindByID", mock.Anything, medID).
		Return(medicamentoVendavel(medID, "Dipirona", "10.00", 2), nil).Once()

	carrinho := f.svc.NovoCarrinho()
	ctx := context.Background()
	assert.NoError(t, f.svc.AdicionarItem(ctx, carrinho, medID, 4))

	_, err := f.svc.Finalizar(ctx, carrinho, "")

	var stockErr *apperror.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Disponivel)
	f.estoque.AssertNotCalled(t, "RegistrarSaida")
	f.vendas.AssertNotCalled(t, "Save")
}

// TestFinalizar_UltimaUnidade verifica que vender a última unidade é permitido.
func TestFinalizar_UltimaUnidade(t *testing.T) {
	f := newFixture()
	medID := uuid.NewString()

	f.medicamentos.On("FindByID", mock.Anything, medID).
		Return(medicamentoVendavel(medID, "Dipirona", "10.00", 1), nil)
	f.estoque.On("RegistrarSaida", mock.Anything, medID, 1, mock.AnythingOfType("string")).
		Return(domain.MovimentacaoEstoque{QuantidadeAtual: 0}, nil)
	f.vendas.On("Save", mock.Anything, mock.Anything).
		Return(domain.Venda{ID: "gravada"}, nil)

	carrinho := f.svc.NovoCarrinho()
	ctx := context.Background()
	assert.NoError(t, f.svc.AdicionarItem(ctx, carrinho, medID, 1))

	_, err := f.svc.Finalizar(ctx, carrinho, "")

	assert.NoError(t, err)
	f.estoque.AssertExpectations(t)
	f.vendas.AssertExpectations(t)
}
