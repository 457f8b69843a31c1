package domain

// Categoria agrupa medicamentos por finalidade terapêutica (e.g., "Analgésicos").
// A identidade (ID) é imutável; nome e descrição são editáveis.
type Categoria struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao,omitempty"`
}
