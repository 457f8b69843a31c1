package estoqueservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/audit"
	"gofarma/internal/pkg/logger"
)

// EstoqueRepository define o contrato que o Serviço de Estoque espera do livro-razão.
type EstoqueRepository interface {
	RegistrarMovimentacao(ctx context.Context, req domain.MovimentacaoRequest) (domain.MovimentacaoEstoque, error)
	FindAll(ctx context.Context) ([]domain.MovimentacaoEstoque, error)
	FindByMedicamento(ctx context.Context, medicamentoID string) ([]domain.MovimentacaoEstoque, error)
}

// Service implementa a lógica de negócio das movimentações de estoque.
// Toda mudança de quantidade no catálogo passa por aqui; não existe escrita
// direta no campo de estoque do medicamento.
type Service struct {
	repo     EstoqueRepository
	notifier audit.Notifier
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo EstoqueRepository, notifier audit.Notifier, log logger.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: log}
}

// RegistrarMovimentacao valida e aplica uma movimentação de estoque.
// A quantidade é sempre positiva: a direção vem do Tipo (ENTRADA/SAIDA).
func (s *Service) RegistrarMovimentacao(ctx context.Context, req domain.MovimentacaoRequest) (domain.MovimentacaoEstoque, error) {
	if _, err := uuid.Parse(req.MedicamentoID); err != nil {
		return domain.MovimentacaoEstoque{}, apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}
	if req.Tipo != domain.MovimentacaoEntrada && req.Tipo != domain.MovimentacaoSaida {
		return domain.MovimentacaoEstoque{}, apperror.NewValidationError(
			fmt.Sprintf("Tipo de movimentação inválido: '%s'. Use ENTRADA ou SAIDA.", req.Tipo))
	}
	if req.Quantidade <= 0 {
		return domain.MovimentacaoEstoque{}, apperror.NewValidationError("A quantidade da movimentação deve ser um inteiro positivo.")
	}
	if len(req.Observacao) > domain.ObservacaoMaxLen {
		return domain.MovimentacaoEstoque{}, apperror.NewValidationError(
			fmt.Sprintf("A observação excede o limite de %d caracteres.", domain.ObservacaoMaxLen))
	}

	mov, err := s.repo.RegistrarMovimentacao(ctx, req)
	if err != nil {
		return domain.MovimentacaoEstoque{}, err
	}

	acao := audit.AcaoEstoqueEntrada
	if mov.Tipo == domain.MovimentacaoSaida {
		acao = audit.AcaoEstoqueSaida
	}
	s.notifier.Notify(audit.Evento{
		Acao:     acao,
		Entidade: "movimentacao",
		ID:       mov.ID,
		Detalhes: map[string]interface{}{
			"medicamento_id": mov.MedicamentoID,
			"quantidade":     mov.Quantidade,
			"anterior":       mov.QuantidadeAnterior,
			"atual":          mov.QuantidadeAtual,
		},
	})

	return mov, nil
}

// RegistrarEntrada é um atalho para movimentações de entrada (reposição).
func (s *Service) RegistrarEntrada(ctx context.Context, medicamentoID string, quantidade int, observacao string) (domain.MovimentacaoEstoque, error) {
	return s.RegistrarMovimentacao(ctx, domain.MovimentacaoRequest{
		MedicamentoID: medicamentoID,
		Tipo:          domain.MovimentacaoEntrada,
		Quantidade:    quantidade,
		Observacao:    observacao,
	})
}

// RegistrarSaida é um atalho para movimentações de saída (baixa de estoque).
func (s *Service) RegistrarSaida(ctx context.Context, medicamentoID string, quantidade int, observacao string) (domain.MovimentacaoEstoque, error) {
	return s.RegistrarMovimentacao(ctx, domain.MovimentacaoRequest{
		MedicamentoID: medicamentoID,
		Tipo:          domain.MovimentacaoSaida,
		Quantidade:    quantidade,
		Observacao:    observacao,
	})
}

// ListarMovimentacoes lista o histórico completo do livro-razão.
func (s *Service) ListarMovimentacoes(ctx context.Context) ([]domain.MovimentacaoEstoque, error) {
	return s.repo.FindAll(ctx)
}

// ListarPorMedicamento lista o histórico de movimentações de um medicamento.
func (s *Service) ListarPorMedicamento(ctx context.Context, medicamentoID string) ([]domain.MovimentacaoEstoque, error) {
	if _, err := uuid.Parse(medicamentoID); err != nil {
		return nil, apperror.NewValidationError("O ID do medicamento deve ser um UUID válido.")
	}

	return s.repo.FindByMedicamento(ctx, medicamentoID)
}
