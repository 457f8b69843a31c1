package domain

// DashboardStats é o rollup somente-leitura exibido na tela inicial.
// Todos os valores são recalculados a cada consulta; dependências vazias
// produzem zeros, nunca erro.
type DashboardStats struct {
	MedicamentosAtivos  int `json:"medicamentosAtivos"`
	ClientesCadastrados int `json:"clientesCadastrados"`
	VendasHoje          int `json:"vendasHoje"`
	AlertasAtivos       int `json:"alertasAtivos"`
}
