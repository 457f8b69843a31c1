package vendaservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/audit"
	"gofarma/internal/pkg/logger"
)

// MedicamentoRepository define as consultas de catálogo usadas pelo compositor de vendas.
type MedicamentoRepository interface {
	FindByID(ctx context.Context, id string) (domain.Medicamento, error)
}

// ClienteRepository resolve o cliente opcionalmente nomeado na venda.
type ClienteRepository interface {
	FindByID(ctx context.Context, id string) (domain.Cliente, error)
}

// EstoqueService aplica as baixas de estoque da venda no livro-razão.
type EstoqueService interface {
	RegistrarSaida(ctx context.Context, medicamentoID string, quantidade int, observacao string) (domain.MovimentacaoEstoque, error)
}

// VendaRepository persiste e consulta as vendas concluídas.
type VendaRepository interface {
	Save(ctx context.Context, venda domain.Venda) (domain.Venda, error)
	FindByID(ctx context.Context, id string) (domain.Venda, error)
	FindAll(ctx context.Context) ([]domain.Venda, error)
	FindByCliente(ctx context.Context, clienteID string) ([]domain.Venda, error)
}

// Service é o compositor de vendas: monta carrinhos em memória e os converte
// em vendas persistidas. O carrinho é descartável; só a finalização tem efeito
// sobre o estado do sistema.
type Service struct {
	medicamentos MedicamentoRepository
	clientes     ClienteRepository
	estoque      EstoqueService
	vendas       VendaRepository
	notifier     audit.Notifier
	logger       logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Vendas.
func NewService(
	medicamentos MedicamentoRepository,
	clientes ClienteRepository,
	estoque EstoqueService,
	vendas VendaRepository,
	notifier audit.Notifier,
	log logger.Logger,
) *Service {
	return &Service{
		medicamentos: medicamentos,
		clientes:     clientes,
		estoque:      estoque,
		vendas:       vendas,
		notifier:     notifier,
		logger:       log,
	}
}

// NovoCarrinho cria um carrinho vazio.
func (s *Service) NovoCarrinho() *domain.Carrinho {
	return &domain.Carrinho{Itens: []domain.ItemVenda{}}
}

// elegivel verifica se um medicamento pode entrar em uma venda neste momento:
// ativo, dentro da validade e com alguma unidade em estoque.
func elegivel(med domain.Medicamento, agora time.Time) error {
	if !med.Ativo {
		return apperror.NewValidationError(
			fmt.Sprintf("O medicamento '%s' está inativo e não pode ser vendido.", med.NomeExibicao()))
	}
	if med.Vencido(agora) {
		return apperror.NewValidationError(
			fmt.Sprintf("O medicamento '%s' está vencido e não pode ser vendido.", med.NomeExibicao()))
	}
	if med.Estoque <= 0 {
		return apperror.NewInsufficientStockError(med.ID, med.NomeExibicao(), med.Estoque, 1)
	}
	return nil
}

// AdicionarItem acrescenta uma linha ao carrinho, com snapshot de nome e preço
// tirados do estado corrente do catálogo. Cada medicamento ocupa no máximo uma
// linha: repetição é rejeitada, o ajuste é feito via AlterarQuantidade.
func (s *Service) AdicionarItem(ctx context.Context, carrinho *domain.Carrinho, medicamentoID string, quantidade int) error {
	if _, err := uuid.Parse(medicamentoID); err != nil {
		return apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}
	if quantidade < 1 {
		return apperror.NewValidationError("A quantidade do item deve ser no mínimo 1.")
	}

	med, err := s.medicamentos.FindByID(ctx, medicamentoID)
	if err != nil {
		return err
	}
	if err := elegivel(med, time.Now()); err != nil {
		return err
	}
	if quantidade > med.Estoque {
		return apperror.NewInsufficientStockError(med.ID, med.NomeExibicao(), med.Estoque, quantidade)
	}

	for _, item := range carrinho.Itens {
		if item.MedicamentoID == medicamentoID {
			return apperror.NewDuplicateItemError(med.ID, med.NomeExibicao())
		}
	}

	carrinho.Itens = append(carrinho.Itens, domain.ItemVenda{
		MedicamentoID:   med.ID,
		NomeMedicamento: med.NomeExibicao(),
		Quantidade:      quantidade,
		PrecoUnitario:   med.Preco,
	})
	return nil
}

// RemoverItem retira a linha do medicamento do carrinho.
func (s *Service) RemoverItem(carrinho *domain.Carrinho, medicamentoID string) error {
	for i, item := range carrinho.Itens {
		if item.MedicamentoID == medicamentoID {
			carrinho.Itens = append(carrinho.Itens[:i], carrinho.Itens[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFoundError(fmt.Sprintf("O medicamento %s não está no carrinho.", medicamentoID))
}

// AlterarQuantidade ajusta a quantidade de uma linha já existente no carrinho.
// A quantidade mínima é 1: para zerar uma linha, use RemoverItem.
func (s *Service) AlterarQuantidade(ctx context.Context, carrinho *domain.Carrinho, medicamentoID string, quantidade int) error {
	if quantidade < 1 {
		return apperror.NewValidationError("A quantidade do item deve ser no mínimo 1. Para retirar o item, remova-o do carrinho.")
	}

	for i, item := range carrinho.Itens {
		if item.MedicamentoID == medicamentoID {
			med, err := s.medicamentos.FindByID(ctx, medicamentoID)
			if err != nil {
				return err
			}
			if quantidade > med.Estoque {
				return apperror.NewInsufficientStockError(med.ID, med.NomeExibicao(), med.Estoque, quantidade)
			}
			carrinho.Itens[i].Quantidade = quantidade
			return nil
		}
	}
	return apperror.NewNotFoundError(fmt.Sprintf("O medicamento %s não está no carrinho.", medicamentoID))
}

// Finalizar converte o carrinho em uma venda persistida.
//
// Ordem das verificações: carrinho não vazio, elegibilidade do cliente (idade),
// revalidação de todas as linhas contra o estado corrente do catálogo. Só então
// as baixas de estoque são aplicadas, na ordem das linhas do carrinho. Qualquer
// recusa acontece ANTES da primeira baixa: a venda ou acontece por inteiro ou
// não deixa rastro. A guarda autoritativa contra corrida continua sendo o
// livro-razão (bloqueio por linha); se uma baixa falhar por interleaving, o
// erro é propagado e a venda não é registrada.
func (s *Service) Finalizar(ctx context.Context, carrinho *domain.Carrinho, clienteID string) (domain.Venda, error) {
	if carrinho == nil || len(carrinho.Itens) == 0 {
		return domain.Venda{}, apperror.NewEmptySaleError()
	}

	agora := time.Now()

	// Cliente é opcional; quando nomeado, precisa existir e ser maior de idade.
	var cliente *domain.Cliente
	if clienteID != "" {
		if _, err := uuid.Parse(clienteID); err != nil {
			return domain.Venda{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
		}
		c, err := s.clientes.FindByID(ctx, clienteID)
		if err != nil {
			return domain.Venda{}, err
		}
		if idade := c.IdadeEm(agora); !domain.MaiorDeIdade(idade) {
			return domain.Venda{}, apperror.NewUnderageClientError(c.ID, idade)
		}
		cliente = &c
	}

	// Revalida cada linha e tira snapshots frescos de nome e preço: o registro
	// da venda reflete o catálogo no momento da conclusão, não o da composição.
	itens := make([]domain.ItemVenda, 0, len(carrinho.Itens))
	for _, item := range carrinho.Itens {
		med, err := s.medicamentos.FindByID(ctx, item.MedicamentoID)
		if err != nil {
			return domain.Venda{}, err
		}
		if err := elegivel(med, agora); err != nil {
			return domain.Venda{}, err
		}
		if item.Quantidade > med.Estoque {
			return domain.Venda{}, apperror.NewInsufficientStockError(
				med.ID, med.NomeExibicao(), med.Estoque, item.Quantidade)
		}
		itens = append(itens, domain.ItemVenda{
			MedicamentoID:   med.ID,
			NomeMedicamento: med.NomeExibicao(),
			Quantidade:      item.Quantidade,
			PrecoUnitario:   med.Preco,
		})
	}

	vendaID := uuid.NewString()

	// Aplica as baixas na ordem das linhas. Cada baixa é atômica no livro-razão.
	for _, item := range itens {
		if _, err := s.estoque.RegistrarSaida(ctx, item.MedicamentoID, item.Quantidade,
			fmt.Sprintf("Venda %s", vendaID)); err != nil {
			s.logger.Error("Falha ao aplicar baixa de estoque na finalização da venda.", err)
			return domain.Venda{}, err
		}
	}

	venda := domain.Venda{
		ID:         vendaID,
		Cliente:    cliente,
		Itens:      itens,
		ValorTotal: domain.TotalItens(itens),
		Data:       agora,
	}

	saved, err := s.vendas.Save(ctx, venda)
	if err != nil {
		s.logger.Error("Falha ao persistir venda após as baixas de estoque.", err)
		return domain.Venda{}, err
	}

	s.notifier.Notify(audit.Evento{
		Acao:     audit.AcaoVendaCriada,
		Entidade: "venda",
		ID:       saved.ID,
		Detalhes: map[string]interface{}{
			"itens":       len(saved.Itens),
			"valor_total": saved.ValorTotal.StringFixed(2),
		},
	})

	s.logger.Info("Venda finalizada com sucesso.", map[string]interface{}{
		"venda_id":    saved.ID,
		"itens":       len(saved.Itens),
		"valor_total": saved.ValorTotal.StringFixed(2),
	})
	return saved, nil
}

// BuscarVendaPorID busca uma venda concluída pelo ID.
func (s *Service) BuscarVendaPorID(ctx context.Context, id string) (domain.Venda, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Venda{}, apperror.NewValidationError("O ID da venda deve ser um UUID válido.")
	}

	return s.vendas.FindByID(ctx, id)
}

// ListarVendas lista todas as vendas concluídas.
func (s *Service) ListarVendas(ctx context.Context) ([]domain.Venda, error) {
	return s.vendas.FindAll(ctx)
}

// ListarVendasPorCliente lista as vendas associadas a um cliente.
func (s *Service) ListarVendasPorCliente(ctx context.Context, clienteID string) ([]domain.Venda, error) {
	if _, err := uuid.Parse(clienteID); err != nil {
		return nil, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}

	return s.vendas.FindByCliente(ctx, clienteID)
}
