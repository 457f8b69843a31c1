package clienterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/logger"
)

// ClienteRepository persiste o cadastro de clientes no PostgreSQL.
type ClienteRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewClienteRepository cria e retorna uma nova instância do Repositório de Clientes.
func NewClienteRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *ClienteRepository {
	return &ClienteRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

const clienteColunas = `id, nome, cpf, email, telefone, data_nascimento, created_at, updated_at`

// scanCliente mapeia uma linha para a struct de domínio.
func scanCliente(row interface{ Scan(...interface{}) error }) (domain.Cliente, error) {
	var c domain.Cliente
	var telefone sql.NullString
	err := row.Scan(&c.ID, &c.Nome, &c.CPF, &c.Email, &telefone, &c.DataNascimento, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Cliente{}, err
	}
	c.Telefone = telefone.String
	return c, nil
}

// Save insere um novo cliente.
func (r *ClienteRepository) Save(ctx context.Context, cliente domain.Cliente) (domain.Cliente, error) {
	r.logger.Debug("Iniciando Save de cliente no repositório.", map[string]interface{}{"nome": cliente.Nome})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `
		INSERT INTO clientes (id, nome, cpf, email, telefone, data_nascimento, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		cliente.ID,
		cliente.Nome,
		cliente.CPF,
		cliente.Email,
		sql.NullString{String: cliente.Telefone, Valid: cliente.Telefone != ""},
		cliente.DataNascimento,
		cliente.CreatedAt,
		cliente.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir cliente no DB.", err)
		// A coluna cpf tem índice único; a violação mais provável é CPF duplicado
		return domain.Cliente{}, apperror.NewDBError("Falha ao inserir cliente", err)
	}

	return cliente, nil
}

// FindByID busca um cliente pelo ID.
func (r *ClienteRepository) FindByID(ctx context.Context, id string) (domain.Cliente, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+clienteColunas+` FROM clientes WHERE id = $1`, id)

	cliente, err := scanCliente(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cliente{}, apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Cliente{}, apperror.NewDBError("Falha ao buscar cliente", err)
	}

	return cliente, nil
}

// FindAll lista clientes; busca opcional por nome (parcial) ou CPF.
func (r *ClienteRepository) FindAll(ctx context.Context, busca string) ([]domain.Cliente, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + clienteColunas + ` FROM clientes`
	args := []interface{}{}
	if busca != "" {
		query += ` WHERE nome ILIKE $1 OR cpf LIKE $2`
		args = append(args, "%"+busca+"%", "%"+busca+"%")
	}
	query += ` ORDER BY nome`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar clientes no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	clientes := []domain.Cliente{}
	for rows.Next() {
		cliente, scanErr := scanCliente(rows)
		if scanErr != nil {
			return nil, apperror.NewDBError("Falha ao mapear cliente", scanErr)
		}
		clientes = append(clientes, cliente)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar clientes", err)
	}

	return clientes, nil
}

// Update atualiza os dados cadastrais de um cliente.
func (r *ClienteRepository) Update(ctx context.Context, cliente domain.Cliente) (domain.Cliente, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `
		UPDATE clientes
		SET nome = $1, cpf = $2, email = $3, telefone = $4, data_nascimento = $5, updated_at = $6
		WHERE id = $7`

	cliente.UpdatedAt = time.Now()
	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		cliente.Nome,
		cliente.CPF,
		cliente.Email,
		sql.NullString{String: cliente.Telefone, Valid: cliente.Telefone != ""},
		cliente.DataNascimento,
		cliente.UpdatedAt,
		cliente.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar cliente no DB.", err)
		return domain.Cliente{}, apperror.NewDBError("Falha ao atualizar cliente", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Cliente{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Cliente{}, apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não existe na base de dados.", cliente.ID))
	}

	return cliente, nil
}

// Delete remove um cliente do cadastro. Vendas históricas mantêm a referência
// nula após a remoção (ON DELETE SET NULL), preservando o histórico.
func (r *ClienteRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover cliente no DB.", err)
		return apperror.NewDBError("Falha ao remover cliente", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não existe na base de dados.", id))
	}

	return nil
}

// Count conta os clientes cadastrados (usado pelo dashboard).
func (r *ClienteRepository) Count(ctx context.Context) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM clientes`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("Falha ao contar clientes", err)
	}
	return count, nil
}
