package domain

// TipoAlerta classifica os alertas derivados do catálogo.
type TipoAlerta string

const (
	AlertaEstoqueBaixo    TipoAlerta = "ESTOQUE_BAIXO"
	AlertaValidadeProxima TipoAlerta = "VALIDADE_PROXIMA"
	AlertaVencido         TipoAlerta = "VENCIDO"
)

// Limiares padrão dos alertas, sobrescrevíveis via configuração.
const (
	LimiteEstoqueBaixoPadrao = 10
	JanelaValidadeDiasPadrao = 30
)

// Alerta é uma entidade transiente, recalculada a cada consulta a partir do
// estado atual do catálogo. Nunca é persistida.
type Alerta struct {
	Medicamento Medicamento `json:"medicamento"`
	Tipo        TipoAlerta  `json:"tipo"`
	Mensagem    string      `json:"mensagem"`
}
