package vendarepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/logger"
)

// VendaRepository persiste vendas e seus itens no PostgreSQL.
// Uma venda e seus itens são gravados na mesma transação: o registro da venda
// nunca fica parcial.
type VendaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewVendaRepository cria e retorna uma nova instância do Repositório de Vendas.
func NewVendaRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *VendaRepository {
	return &VendaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Save persiste a venda e seus itens na mesma transação.
// O valor_total gravado já chega recomputado a partir dos itens pelo serviço.
func (r *VendaRepository) Save(ctx context.Context, venda domain.Venda) (domain.Venda, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de venda.", err)
		return domain.Venda{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var clienteID sql.NullString
	if venda.Cliente != nil {
		clienteID = sql.NullString{String: venda.Cliente.ID, Valid: true}
	}

	const vendaSQL = `
		INSERT INTO vendas (id, cliente_id, valor_total, data_venda)
		VALUES ($1, $2, $3, $4)`

	if _, err = tx.ExecContext(ctxTimeout, vendaSQL,
		venda.ID,
		clienteID,
		venda.ValorTotal,
		venda.Data,
	); err != nil {
		r.logger.Error("Falha ao inserir venda no DB.", err)
		return domain.Venda{}, apperror.NewDBError("Falha ao inserir venda", err)
	}

	const itemSQL = `
		INSERT INTO itens_venda (venda_id, posicao, medicamento_id, nome_medicamento, quantidade, preco_unitario)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for posicao, item := range venda.Itens {
		if _, err = tx.ExecContext(ctxTimeout, itemSQL,
			venda.ID,
			posicao,
			item.MedicamentoID,
			item.NomeMedicamento,
			item.Quantidade,
			item.PrecoUnitario,
		); err != nil {
			r.logger.Error("Falha ao inserir item de venda no DB.", err)
			return domain.Venda{}, apperror.NewDBError("Falha ao inserir itens da venda", err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de venda.", err)
		return domain.Venda{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Venda persistida com sucesso.", map[string]interface{}{
		"venda_id": venda.ID,
		"itens":    len(venda.Itens),
	})
	return venda, nil
}

// FindByID busca uma venda pelo ID, com itens e cliente (quando houver).
func (r *VendaRepository) FindByID(ctx context.Context, id string) (domain.Venda, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	vendas, err := r.buscar(ctxTimeout, `WHERE v.id = $1`, id)
	if err != nil {
		return domain.Venda{}, err
	}
	if len(vendas) == 0 {
		return domain.Venda{}, apperror.NewNotFoundError(fmt.Sprintf("Venda com ID %s não existe na base de dados.", id))
	}
	return vendas[0], nil
}

// FindAll lista todas as vendas, da mais recente para a mais antiga.
func (r *VendaRepository) FindAll(ctx context.Context) ([]domain.Venda, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	return r.buscar(ctxTimeout, ``)
}

// FindByCliente lista as vendas associadas a um cliente.
func (r *VendaRepository) FindByCliente(ctx context.Context, clienteID string) ([]domain.Venda, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	return r.buscar(ctxTimeout, `WHERE v.cliente_id = $1`, clienteID)
}

// CountPorDia conta as vendas cujo dia de calendário (local) coincide com o dia
// informado. É uma correspondência exata de dia, não uma janela móvel de 24h.
func (r *VendaRepository) CountPorDia(ctx context.Context, dia time.Time) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	inicio := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	fim := inicio.AddDate(0, 0, 1)

	var count int
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT COUNT(*) FROM vendas WHERE data_venda >= $1 AND data_venda < $2`,
		inicio, fim,
	).Scan(&count)
	if err != nil {
		return 0, apperror.NewDBError("Falha ao contar vendas do dia", err)
	}
	return count, nil
}

// buscar monta vendas completas (cabeçalho + cliente + itens ordenados).
func (r *VendaRepository) buscar(ctx context.Context, where string, args ...interface{}) ([]domain.Venda, error) {
	query := `
		SELECT v.id, v.valor_total, v.data_venda,
		       c.id, c.nome, c.cpf, c.email, c.telefone, c.data_nascimento, c.created_at, c.updated_at
		FROM vendas v
		LEFT JOIN clientes c ON c.id = v.cliente_id
		` + where + `
		ORDER BY v.data_venda DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar vendas no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar vendas", err)
	}
	defer rows.Close()

	vendas := []domain.Venda{}
	for rows.Next() {
		var v domain.Venda
		var cID, cNome, cCPF, cEmail, cTelefone sql.NullString
		var cNascimento, cCriado, cAtualizado sql.NullTime

		if err := rows.Scan(
			&v.ID, &v.ValorTotal, &v.Data,
			&cID, &cNome, &cCPF, &cEmail, &cTelefone, &cNascimento, &cCriado, &cAtualizado,
		); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear venda", err)
		}

		if cID.Valid {
			v.Cliente = &domain.Cliente{
				ID:             cID.String,
				Nome:           cNome.String,
				CPF:            cCPF.String,
				Email:          cEmail.String,
				Telefone:       cTelefone.String,
				DataNascimento: cNascimento.Time,
				CreatedAt:      cCriado.Time,
				UpdatedAt:      cAtualizado.Time,
			}
		}
		vendas = append(vendas, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar vendas", err)
	}

	for i := range vendas {
		itens, err := r.buscarItens(ctx, vendas[i].ID)
		if err != nil {
			return nil, err
		}
		vendas[i].Itens = itens
	}

	return vendas, nil
}

// buscarItens carrega os itens de uma venda na ordem original do carrinho.
func (r *VendaRepository) buscarItens(ctx context.Context, vendaID string) ([]domain.ItemVenda, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT medicamento_id, nome_medicamento, quantidade, preco_unitario
		 FROM itens_venda
		 WHERE venda_id = $1
		 ORDER BY posicao`,
		vendaID,
	)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar itens da venda", err)
	}
	defer rows.Close()

	itens := []domain.ItemVenda{}
	for rows.Next() {
		var item domain.ItemVenda
		if err := rows.Scan(&item.MedicamentoID, &item.NomeMedicamento, &item.Quantidade, &item.PrecoUnitario); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear item da venda", err)
		}
		itens = append(itens, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar itens da venda", err)
	}
	return itens, nil
}
