package estoquerepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/cache"
	"gofarma/internal/pkg/logger"
)

// EstoqueRepository é o livro-razão de estoque: aplica movimentações de forma
// atômica e mantém o histórico append-only em movimentacoes_estoque.
type EstoqueRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewEstoqueRepository cria e retorna uma nova instância do Repositório de Estoque.
// O cache é injetado para invalidar a entrada do medicamento após cada movimentação.
func NewEstoqueRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *EstoqueRepository {
	return &EstoqueRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// RegistrarMovimentacao aplica uma movimentação (ENTRADA/SAIDA) dentro de uma
// transação, com a linha do medicamento bloqueada (SELECT ... FOR UPDATE).
// A não-negatividade do estoque é verificada AQUI, no momento da atualização:
// esta é a guarda autoritativa contra lost-update entre chamadores concorrentes.
// Ou a movimentação inteira é aplicada (estoque + lançamento), ou nada é.
func (r *EstoqueRepository) RegistrarMovimentacao(ctx context.Context, req domain.MovimentacaoRequest) (domain.MovimentacaoEstoque, error) {
	r.logger.Debug("Iniciando movimentação de estoque no repositório.", map[string]interface{}{
		"medicamento_id": req.MedicamentoID,
		"tipo":           req.Tipo,
		"quantidade":     req.Quantidade,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de movimentação.", err)
		return domain.MovimentacaoEstoque{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro; no-op após Commit

	// 1. Bloquear a linha do medicamento e ler o estado corrente
	var (
		nome    string
		dosagem string
		estoque int
		ativo   bool
	)
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT nome, dosagem, estoque, ativo FROM medicamentos WHERE id = $1 FOR UPDATE`,
		req.MedicamentoID,
	).Scan(&nome, &dosagem, &estoque, &ativo)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.MovimentacaoEstoque{}, apperror.NewNotFoundError(
			fmt.Sprintf("Medicamento com ID %s não existe na base de dados.", req.MedicamentoID))
	}
	if err != nil {
		r.logger.Error("Falha ao bloquear medicamento para movimentação.", err)
		return domain.MovimentacaoEstoque{}, apperror.NewDBError("Falha ao buscar medicamento para movimentação", err)
	}

	nomeExibicao := nome
	if dosagem != "" {
		nomeExibicao = nome + " (" + dosagem + ")"
	}

	// 2. Calcular a quantidade resultante e validar a não-negatividade.
	// Vender a última unidade (resultado exatamente zero) é permitido.
	quantidadeAnterior := estoque
	var quantidadeAtual int
	switch req.Tipo {
	case domain.MovimentacaoEntrada:
		quantidadeAtual = quantidadeAnterior + req.Quantidade
	case domain.MovimentacaoSaida:
		quantidadeAtual = quantidadeAnterior - req.Quantidade
		if quantidadeAtual < 0 {
			r.logger.Warn("Saída rejeitada: estoque insuficiente.", map[string]interface{}{
				"medicamento_id": req.MedicamentoID,
				"disponivel":     quantidadeAnterior,
				"solicitado":     req.Quantidade,
			})
			return domain.MovimentacaoEstoque{}, apperror.NewInsufficientStockError(
				req.MedicamentoID, nomeExibicao, quantidadeAnterior, req.Quantidade)
		}
	default:
		return domain.MovimentacaoEstoque{}, apperror.NewValidationError(
			fmt.Sprintf("Tipo de movimentação inválido: '%s'. Use ENTRADA ou SAIDA.", req.Tipo))
	}

	// 3. Atualizar o estoque do medicamento
	agora := time.Now()
	if _, err = tx.ExecContext(ctxTimeout,
		`UPDATE medicamentos SET estoque = $1, updated_at = $2 WHERE id = $3`,
		quantidadeAtual, agora, req.MedicamentoID,
	); err != nil {
		r.logger.Error("Falha ao atualizar estoque do medicamento.", err)
		return domain.MovimentacaoEstoque{}, apperror.NewDBError("Falha ao atualizar estoque", err)
	}

	// 4. Lançar o registro imutável no livro-razão
	mov := domain.MovimentacaoEstoque{
		ID:                 uuid.NewString(),
		MedicamentoID:      req.MedicamentoID,
		MedicamentoNome:    nomeExibicao,
		MedicamentoAtivo:   ativo,
		Tipo:               req.Tipo,
		Quantidade:         req.Quantidade,
		QuantidadeAnterior: quantidadeAnterior,
		QuantidadeAtual:    quantidadeAtual,
		Data:               agora,
		Observacao:         req.Observacao,
	}

	if _, err = tx.ExecContext(ctxTimeout,
		`INSERT INTO movimentacoes_estoque
			(id, medicamento_id, tipo, quantidade, quantidade_anterior, quantidade_atual, data_movimentacao, observacao)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		mov.ID,
		mov.MedicamentoID,
		mov.Tipo,
		mov.Quantidade,
		mov.QuantidadeAnterior,
		mov.QuantidadeAtual,
		mov.Data,
		sql.NullString{String: mov.Observacao, Valid: mov.Observacao != ""},
	); err != nil {
		r.logger.Error("Falha ao lançar movimentação no livro-razão.", err)
		return domain.MovimentacaoEstoque{}, apperror.NewDBError("Falha ao registrar movimentação", err)
	}

	// 5. Commitar a transação
	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de movimentação.", commitErr)
		return domain.MovimentacaoEstoque{}, apperror.NewDBError("Falha ao commitar transação", commitErr)
	}

	// 6. Invalida o cache do medicamento (estoque mudou). Falha de cache não propaga.
	if err := r.Cache.Delete(ctxTimeout, "medicamento:"+req.MedicamentoID); err != nil {
		r.logger.Warn("Falha ao invalidar cache de medicamento após movimentação.", map[string]interface{}{
			"medicamento_id": req.MedicamentoID,
			"error":          err.Error(),
		})
	}

	r.logger.Info("Movimentação de estoque registrada com sucesso.", map[string]interface{}{
		"movimentacao_id": mov.ID,
		"medicamento_id":  mov.MedicamentoID,
		"tipo":            mov.Tipo,
		"anterior":        mov.QuantidadeAnterior,
		"atual":           mov.QuantidadeAtual,
	})
	return mov, nil
}

const movimentacaoBaseSQL = `
	SELECT mv.id, mv.medicamento_id, m.nome, m.dosagem, m.ativo, mv.tipo, mv.quantidade,
	       mv.quantidade_anterior, mv.quantidade_atual, mv.data_movimentacao, mv.observacao
	FROM movimentacoes_estoque mv
	JOIN medicamentos m ON m.id = mv.medicamento_id`

// scanMovimentacao mapeia uma linha do histórico para a struct de domínio.
func scanMovimentacao(row interface{ Scan(...interface{}) error }) (domain.MovimentacaoEstoque, error) {
	var mov domain.MovimentacaoEstoque
	var dosagem string
	var observacao sql.NullString
	err := row.Scan(
		&mov.ID, &mov.MedicamentoID, &mov.MedicamentoNome, &dosagem, &mov.MedicamentoAtivo,
		&mov.Tipo, &mov.Quantidade, &mov.QuantidadeAnterior, &mov.QuantidadeAtual,
		&mov.Data, &observacao,
	)
	if err != nil {
		return domain.MovimentacaoEstoque{}, err
	}
	if dosagem != "" {
		mov.MedicamentoNome = mov.MedicamentoNome + " (" + dosagem + ")"
	}
	mov.Observacao = observacao.String
	return mov, nil
}

// FindAll lista o histórico completo de movimentações, da mais recente para a mais antiga.
func (r *EstoqueRepository) FindAll(ctx context.Context) ([]domain.MovimentacaoEstoque, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, movimentacaoBaseSQL+` ORDER BY mv.data_movimentacao DESC`)
	if err != nil {
		r.logger.Error("Falha ao listar movimentações no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar movimentações", err)
	}
	defer rows.Close()

	return r.coletar(rows)
}

// FindByMedicamento lista as movimentações de um medicamento específico.
func (r *EstoqueRepository) FindByMedicamento(ctx context.Context, medicamentoID string) ([]domain.MovimentacaoEstoque, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		movimentacaoBaseSQL+` WHERE mv.medicamento_id = $1 ORDER BY mv.data_movimentacao DESC`,
		medicamentoID,
	)
	if err != nil {
		r.logger.Error("Falha ao listar movimentações do medicamento no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar movimentações do medicamento", err)
	}
	defer rows.Close()

	return r.coletar(rows)
}

func (r *EstoqueRepository) coletar(rows *sql.Rows) ([]domain.MovimentacaoEstoque, error) {
	movimentacoes := []domain.MovimentacaoEstoque{}
	for rows.Next() {
		mov, err := scanMovimentacao(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear movimentação", err)
		}
		movimentacoes = append(movimentacoes, mov)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar movimentações", err)
	}
	return movimentacoes, nil
}
