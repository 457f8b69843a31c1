package domain

import "time"

// TipoMovimentacao indica a direção de uma movimentação de estoque.
type TipoMovimentacao string

const (
	MovimentacaoEntrada TipoMovimentacao = "ENTRADA"
	MovimentacaoSaida   TipoMovimentacao = "SAIDA"
)

// ObservacaoMaxLen limita o tamanho da observação de uma movimentação.
const ObservacaoMaxLen = 500

// MovimentacaoEstoque é um lançamento imutável do livro-razão de estoque.
// Registra os snapshots de quantidade antes e depois da aplicação, de forma que
// o histórico seja auditável sem reconstrução. Os campos MedicamentoNome e
// MedicamentoAtivo reproduzem o estado corrente do medicamento no momento do
// lançamento, evitando que o chamador precise de uma segunda consulta.
type MovimentacaoEstoque struct {
	ID                 string           `json:"id"`
	MedicamentoID      string           `json:"medicamentoId"`
	MedicamentoNome    string           `json:"medicamentoNome"`
	MedicamentoAtivo   bool             `json:"medicamentoAtivo"`
	Tipo               TipoMovimentacao `json:"tipo"`
	Quantidade         int              `json:"quantidade"`
	QuantidadeAnterior int              `json:"quantidadeAnterior"`
	QuantidadeAtual    int              `json:"quantidadeAtual"`
	Data               time.Time        `json:"dataMovimentacao"`
	Observacao         string           `json:"observacao,omitempty"`
}

// MovimentacaoRequest é o payload de entrada para registrar uma movimentação.
type MovimentacaoRequest struct {
	MedicamentoID string           `json:"medicamentoId"`
	Tipo          TipoMovimentacao `json:"tipo"`
	Quantidade    int              `json:"quantidade"`
	Observacao    string           `json:"observacao,omitempty"`
}
