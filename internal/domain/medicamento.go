package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicamento representa o item principal do catálogo (a Entidade).
// Invariantes: Estoque >= 0 e Preco >= 0 em todos os momentos.
// A remoção é sempre lógica (Ativo = false) para preservar o histórico de vendas.
type Medicamento struct {
	ID           string          `json:"id"`
	Nome         string          `json:"nome"`
	Dosagem      string          `json:"dosagem"` // String de exibição (e.g., "500mg"); pode ser vazia
	Descricao    string          `json:"descricao,omitempty"`
	Preco        decimal.Decimal `json:"preco"`
	Estoque      int             `json:"estoque"`
	DataValidade time.Time       `json:"dataValidade"` // Data de calendário, sem componente de hora
	Ativo        bool            `json:"ativo"`
	Categoria    Categoria       `json:"categoria"` // Referência obrigatória
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NomeExibicao retorna o nome formatado com a dosagem, quando presente.
// É o formato usado nos snapshots de itens de venda e nas mensagens de alerta.
func (m Medicamento) NomeExibicao() string {
	if m.Dosagem == "" {
		return m.Nome
	}
	return m.Nome + " (" + m.Dosagem + ")"
}

// Vencido informa se a data de validade já passou em relação à data de referência.
// A comparação é por dia de calendário: um medicamento que vence hoje ainda é vendável.
func (m Medicamento) Vencido(ref time.Time) bool {
	validade := time.Date(m.DataValidade.Year(), m.DataValidade.Month(), m.DataValidade.Day(), 0, 0, 0, 0, ref.Location())
	hoje := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	return validade.Before(hoje)
}

// DiasAteValidade calcula quantos dias de calendário faltam até a validade.
// Valores negativos indicam que o medicamento já venceu.
func (m Medicamento) DiasAteValidade(ref time.Time) int {
	validade := time.Date(m.DataValidade.Year(), m.DataValidade.Month(), m.DataValidade.Day(), 0, 0, 0, 0, ref.Location())
	hoje := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	return int(validade.Sub(hoje).Hours() / 24)
}

// MedicamentoFilter define os parâmetros de listagem do catálogo.
// ApenasAtivos = false inclui medicamentos inativos, necessário nos contextos de
// gestão de estoque que ainda registram movimentações contra itens desativados.
type MedicamentoFilter struct {
	Nome         string
	CategoriaID  string
	ApenasAtivos bool
}
