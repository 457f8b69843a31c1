package domain

import "time"

// IdadeMinimaVenda é a idade mínima para um cliente ser nomeado em uma venda.
const IdadeMinimaVenda = 18

// Cliente representa um cliente cadastrado na farmácia.
// O CPF chega validado quanto ao formato pela camada de entrada.
type Cliente struct {
	ID             string    `json:"id"`
	Nome           string    `json:"nome"`
	CPF            string    `json:"cpf"`
	Email          string    `json:"email"`
	Telefone       string    `json:"telefone,omitempty"`
	DataNascimento time.Time `json:"dataNascimento"` // Data de calendário, sem componente de hora
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Idade calcula a idade em anos completos na data de referência.
// Aplica a regra padrão de "o aniversário já ocorreu neste ano": se o mês/dia
// da referência precede o mês/dia do nascimento, desconta um ano.
func Idade(nascimento, ref time.Time) int {
	anos := ref.Year() - nascimento.Year()
	if ref.Month() < nascimento.Month() ||
		(ref.Month() == nascimento.Month() && ref.Day() < nascimento.Day()) {
		anos--
	}
	return anos
}

// MaiorDeIdade informa se a idade atende ao mínimo legal para compra.
// Quem completa 18 anos exatamente hoje já é elegível.
func MaiorDeIdade(idade int) bool {
	return idade >= IdadeMinimaVenda
}

// IdadeEm é um atalho para calcular a idade do próprio cliente.
func (c Cliente) IdadeEm(ref time.Time) int {
	return Idade(c.DataNascimento, ref)
}
