package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"gofarma/internal/domain"
)

// TestSubtotal_MultiplicaSemArredondar verifica o subtotal exato da linha.
func TestSubtotal_MultiplicaSemArredondar(t *testing.T) {
	item := domain.ItemVenda{
		Quantidade:    3,
		PrecoUnitario: decimal.RequireFromString("3.335"),
	}

	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("10.005")),
		"subtotal deve preservar as casas decimais: %s", item.Subtotal())
}

// TestTotalItens_SomaSubtotais verifica a totalização de um carrinho com
// duas linhas (2 × 10.00 + 1 × 5.00 = 25.00).
func TestTotalItens_SomaSubtotais(t *testing.T) {
	itens := []domain.ItemVenda{
		{MedicamentoID: "a", Quantidade: 2, PrecoUnitario: decimal.RequireFromString("10.00")},
		{MedicamentoID: "b", Quantidade: 1, PrecoUnitario: decimal.RequireFromString("5.00")},
	}

	total := domain.TotalItens(itens)

	assert.True(t, total.Equal(decimal.RequireFromString("25.00")), "total calculado: %s", total)
}

// TestTotalItens_CarrinhoVazio verifica que a soma de zero linhas é zero.
func TestTotalItens_CarrinhoVazio(t *testing.T) {
	assert.True(t, domain.TotalItens(nil).IsZero())
}
