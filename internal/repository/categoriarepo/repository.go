package categoriarepo

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

// CategoriaRepository persiste as categorias do catálogo no PostgreSQL.
type CategoriaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCategoriaRepository cria e retorna uma nova instância do Repositório de Categorias.
func NewCategoriaRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *CategoriaRepository {
	return &CategoriaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Save insere uma nova categoria.
func (r *CategoriaRepository) Save(ctx context.Context, cat domain.Categoria) (domain.Categoria, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `INSERT INTO categorias (id, nome, descricao) VALUES ($1, $2, $3)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		cat.ID,
		cat.Nome,
		sql.NullString{String: cat.Descricao, Valid: cat.Descricao != ""},
	)
	if err != nil {
		r.logger.Error("Falha ao inserir categoria no DB.", err)
		return domain.Categoria{}, apperror.NewDBError("Falha ao inserir categoria", err)
	}

	return cat, nil
}

// FindByID busca uma categoria pelo ID.
func (r *CategoriaRepository) FindByID(ctx context.Context, id string) (domain.Categoria, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var cat domain.Categoria
	var descricao sql.NullString

	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, nome, descricao FROM categorias WHERE id = $1`, id,
	).Scan(&cat.ID, &cat.Nome, &descricao)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Categoria{}, apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar categoria no DB.", err)
		return domain.Categoria{}, apperror.NewDBError("Falha ao buscar categoria", err)
	}

	cat.Descricao = descricao.String
	return cat, nil
}

// FindAll lista todas as categorias ordenadas por nome.
func (r *CategoriaRepository) FindAll(ctx context.Context) ([]domain.Categoria, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT id, nome, descricao FROM categorias ORDER BY nome`)
	if err != nil {
		r.logger.Error("Falha ao listar categorias no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar categorias", err)
	}
	defer rows.Close()

	categorias := []domain.Categoria{}
	for rows.Next() {
		var cat domain.Categoria
		var descricao sql.NullString
		if err := rows.Scan(&cat.ID, &cat.Nome, &descricao); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear categoria", err)
		}
		cat.Descricao = descricao.String
		categorias = append(categorias, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar categorias", err)
	}

	return categorias, nil
}

// Update atualiza os campos editáveis de uma categoria.
func (r *CategoriaRepository) Update(ctx context.Context, cat domain.Categoria) (domain.Categoria, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE categorias SET nome = $1, descricao = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		cat.Nome,
		sql.NullString{String: cat.Descricao, Valid: cat.Descricao != ""},
		cat.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar categoria no DB.", err)
		return domain.Categoria{}, apperror.NewDBError("Falha ao atualizar categoria", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Categoria{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Categoria{}, apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não existe na base de dados.", cat.ID))
	}

	return cat, nil
}

// Delete remove uma categoria. Falha com conflito se ainda houver medicamentos
// vinculados (a FK impede a remoção).
func (r *CategoriaRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM categorias WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover categoria no DB.", err)
		return apperror.NewConflictError("A categoria não pode ser removida: verifique se há medicamentos vinculados.")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não existe na base de dados.", id))
	}

	return nil
}
