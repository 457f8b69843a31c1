package medicamentorepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gofarma/internal/domain"
	apperror "gofarma/internal/errors"
	"gofarma/internal/pkg/cache"
	"gofarma/internal/pkg/logger"
)

// Chave de cache para medicamentos (estratégia Cache-Aside).
const medicamentoCacheKey = "medicamento:%s"

// MedicamentoRepository persiste o catálogo de medicamentos no PostgreSQL,
// com leitura individual acelerada por cache (Redis).
type MedicamentoRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewMedicamentoRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewMedicamentoRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *MedicamentoRepository {
	return &MedicamentoRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

const medicamentoColunas = `
	m.id, m.nome, m.dosagem, m.descricao, m.preco, m.estoque, m.data_validade, m.ativo,
	m.created_at, m.updated_at, c.id, c.nome, c.descricao`

const medicamentoBaseSQL = `
	SELECT ` + medicamentoColunas + `
	FROM medicamentos m
	JOIN categorias c ON c.id = m.categoria_id`

// scanMedicamento mapeia uma linha (medicamento + categoria) para a struct de domínio.
func scanMedicamento(row interface{ Scan(...interface{}) error }) (domain.Medicamento, error) {
	var m domain.Medicamento
	var descricao, catDescricao sql.NullString
	err := row.Scan(
		&m.ID, &m.Nome, &m.Dosagem, &descricao, &m.Preco, &m.Estoque, &m.DataValidade, &m.Ativo,
		&m.CreatedAt, &m.UpdatedAt, &m.Categoria.ID, &m.Categoria.Nome, &catDescricao,
	)
	if err != nil {
		return domain.Medicamento{}, err
	}
	m.Descricao = descricao.String
	m.Categoria.Descricao = catDescricao.String
	return m, nil
}

// Save persiste um novo Medicamento no banco de dados.
func (r *MedicamentoRepository) Save(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error) {
	r.logger.Debug("Iniciando Save de medicamento no repositório.", map[string]interface{}{"nome": med.Nome})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `
		INSERT INTO medicamentos (id, nome, dosagem, descricao, preco, estoque, data_validade, ativo, categoria_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		med.ID,
		med.Nome,
		med.Dosagem,
		sql.NullString{String: med.Descricao, Valid: med.Descricao != ""},
		med.Preco,
		med.Estoque,
		med.DataValidade,
		med.Ativo,
		med.Categoria.ID,
		med.CreatedAt,
		med.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir medicamento no DB.", err)
		return domain.Medicamento{}, apperror.NewDBError("Falha ao inserir medicamento", err)
	}

	r.logger.Info("Medicamento salvo com sucesso no repositório.", map[string]interface{}{"id": med.ID, "nome": med.Nome})
	return med, nil
}

// FindByID busca um medicamento pelo ID, utilizando a estratégia Cache-Aside.
func (r *MedicamentoRepository) FindByID(ctx context.Context, id string) (domain.Medicamento, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(medicamentoCacheKey, id)
	var med domain.Medicamento

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		// Cache HIT
		if json.Unmarshal([]byte(cachedData), &med) == nil {
			return med, nil
		}
		// Se a desserialização falhar, seguimos para o DB
	} else if err != cache.ErrCacheMiss {
		// Falha real de cache (conexão perdida): logamos e seguimos para o DB
		r.logger.Warn("Falha ao ler medicamento do cache. Buscando no DB.", map[string]interface{}{"id": id, "error": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	row := r.DB.QueryRowContext(ctxTimeout, medicamentoBaseSQL+` WHERE m.id = $1`, id)
	med, err = scanMedicamento(row)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medicamento{}, apperror.NewNotFoundError(fmt.Sprintf("Medicamento com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar medicamento no DB.", err)
		return domain.Medicamento{}, apperror.NewDBError("Falha ao buscar medicamento", err)
	}

	// 3. Populamos o cache para futuras requisições (falha de cache não propaga)
	if medJSON, marshalErr := json.Marshal(med); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, medJSON, r.CacheTTL)
	}

	return med, nil
}

// FindAll lista medicamentos de acordo com o filtro. ApenasAtivos = false inclui
// os inativos, necessário nos contextos de gestão de estoque.
func (r *MedicamentoRepository) FindAll(ctx context.Context, filter domain.MedicamentoFilter) ([]domain.Medicamento, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := medicamentoBaseSQL + ` WHERE 1=1`
	args := []interface{}{}

	if filter.ApenasAtivos {
		query += ` AND m.ativo = TRUE`
	}
	if filter.CategoriaID != "" {
		args = append(args, filter.CategoriaID)
		query += fmt.Sprintf(` AND m.categoria_id = $%d`, len(args))
	}
	if filter.Nome != "" {
		args = append(args, "%"+filter.Nome+"%")
		query += fmt.Sprintf(` AND m.nome ILIKE $%d`, len(args))
	}
	query += ` ORDER BY m.nome`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar medicamentos no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar medicamentos", err)
	}
	defer rows.Close()

	medicamentos := []domain.Medicamento{}
	for rows.Next() {
		med, scanErr := scanMedicamento(rows)
		if scanErr != nil {
			r.logger.Error("Falha ao mapear linha de medicamento.", scanErr)
			return nil, apperror.NewDBError("Falha ao mapear medicamento", scanErr)
		}
		medicamentos = append(medicamentos, med)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar medicamentos", err)
	}

	return medicamentos, nil
}

// Update atualiza os campos editáveis de um medicamento e invalida o cache.
// O estoque NÃO é atualizado por aqui: toda mudança de estoque passa pelo
// repositório de movimentações, que é o único ponto de escrita da quantidade.
func (r *MedicamentoRepository) Update(ctx context.Context, med domain.Medicamento) (domain.Medicamento, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `
		UPDATE medicamentos
		SET nome = $1, dosagem = $2, descricao = $3, preco = $4, data_validade = $5, categoria_id = $6, updated_at = $7
		WHERE id = $8`

	med.UpdatedAt = time.Now()
	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		med.Nome,
		med.Dosagem,
		sql.NullString{String: med.Descricao, Valid: med.Descricao != ""},
		med.Preco,
		med.DataValidade,
		med.Categoria.ID,
		med.UpdatedAt,
		med.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar medicamento no DB.", err)
		return domain.Medicamento{}, apperror.NewDBError("Falha ao atualizar medicamento", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Medicamento{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Medicamento{}, apperror.NewNotFoundError(fmt.Sprintf("Medicamento com ID %s não existe na base de dados.", med.ID))
	}

	r.invalidate(ctxTimeout, med.ID)
	return r.FindByID(ctx, med.ID)
}

// SetAtivo altera o status ativo/inativo (remoção lógica) e invalida o cache.
func (r *MedicamentoRepository) SetAtivo(ctx context.Context, id string, ativo bool) (domain.Medicamento, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const statusSQL = `UPDATE medicamentos SET ativo = $1, updated_at = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(ctxTimeout, statusSQL, ativo, time.Now(), id)
	if err != nil {
		r.logger.Error("Falha ao alterar status do medicamento no DB.", err)
		return domain.Medicamento{}, apperror.NewDBError("Falha ao alterar status do medicamento", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Medicamento{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Medicamento{}, apperror.NewNotFoundError(fmt.Sprintf("Medicamento com ID %s não existe na base de dados.", id))
	}

	r.invalidate(ctxTimeout, id)
	return r.FindByID(ctx, id)
}

// CountAtivos conta os medicamentos ativos (usado pelo dashboard).
func (r *MedicamentoRepository) CountAtivos(ctx context.Context) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM medicamentos WHERE ativo = TRUE`).Scan(&count)
	if err != nil {
		return 0, apperror.NewDBError("Falha ao contar medicamentos ativos", err)
	}
	return count, nil
}

// invalidate remove a entrada do medicamento do cache após uma escrita.
func (r *MedicamentoRepository) invalidate(ctx context.Context, id string) {
	key := fmt.Sprintf(medicamentoCacheKey, id)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cache de medicamento.", map[string]interface{}{"id": id, "error": err.Error()})
	}
}
