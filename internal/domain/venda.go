package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemVenda é uma linha de venda com snapshots de nome e preço unitário tirados
// no momento da composição. É propriedade exclusiva da Venda que o contém:
// edições posteriores no Medicamento não alteram vendas históricas.
type ItemVenda struct {
	MedicamentoID   string          `json:"medicamentoId"`
	NomeMedicamento string          `json:"nomeMedicamento"`
	Quantidade      int             `json:"quantidade"`
	PrecoUnitario   decimal.Decimal `json:"precoUnitario"`
}

// Subtotal calcula Quantidade × PrecoUnitario da linha, sem arredondamento
// intermediário. O arredondamento para duas casas acontece apenas na exibição.
func (i ItemVenda) Subtotal() decimal.Decimal {
	return i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}

// Venda é o registro imutável de uma venda concluída.
// Invariante: ValorTotal é sempre derivado dos itens, nunca armazenado de
// forma independente deles.
type Venda struct {
	ID         string          `json:"id"`
	Cliente    *Cliente        `json:"cliente,omitempty"` // Opcional: venda sem cliente identificado
	Itens      []ItemVenda     `json:"itens"`
	ValorTotal decimal.Decimal `json:"valorTotal"`
	Data       time.Time       `json:"dataVenda"`
}

// TotalItens soma os subtotais de um conjunto de linhas na ordem dada.
// É a única regra de totalização do sistema: subtotais exatos somados, sem
// arredondamento independente por linha.
func TotalItens(itens []ItemVenda) decimal.Decimal {
	total := decimal.Zero
	for _, item := range itens {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Carrinho é um rascunho de venda em memória, descartável. Abandoná-lo sem
// finalizar não tem nenhum efeito sobre o estado persistido.
type Carrinho struct {
	Itens []ItemVenda `json:"itens"`
}
