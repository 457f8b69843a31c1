package audit

import (
	"time"

	"gofarma/internal/pkg/logger"
)

// Ações auditadas pelo sistema.
const (
	AcaoMedicamentoCriado  = "MEDICAMENTO_CRIADO"
	AcaoMedicamentoEditado = "MEDICAMENTO_EDITADO"
	AcaoMedicamentoStatus  = "MEDICAMENTO_STATUS_ALTERADO"
	AcaoClienteCriado      = "CLIENTE_CRIADO"
	AcaoClienteEditado     = "CLIENTE_EDITADO"
	AcaoClienteRemovido    = "CLIENTE_REMOVIDO"
	AcaoEstoqueEntrada     = "ESTOQUE_ENTRADA"
	AcaoEstoqueSaida       = "ESTOQUE_SAIDA"
	AcaoVendaCriada        = "VENDA_CRIADA"
)

// Evento é uma notificação de auditoria emitida pelos serviços.
type Evento struct {
	Acao     string                 `json:"acao"`
	Entidade string                 `json:"entidade"`
	ID       string                 `json:"id"`
	Detalhes map[string]interface{} `json:"detalhes,omitempty"`
	Data     time.Time              `json:"data"`
}

// Notifier é o colaborador de auditoria consumido pelos serviços.
// O contrato é fire-and-forget: Notify nunca bloqueia o chamador e uma falha
// de auditoria jamais falha a operação de negócio que a originou.
type Notifier interface {
	Notify(evento Evento)
	Close()
}

// LogNotifier implementa Notifier despachando os eventos para o logger
// estruturado em uma goroutine dedicada, através de um canal com buffer.
// Eventos são descartados (com aviso) se o buffer encher.
type LogNotifier struct {
	eventos chan Evento
	done    chan struct{}
	logger  logger.Logger
}

// NewLogNotifier cria o notificador e inicia a goroutine de despacho.
func NewLogNotifier(log logger.Logger, bufferSize int) *LogNotifier {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	n := &LogNotifier{
		eventos: make(chan Evento, bufferSize),
		done:    make(chan struct{}),
		logger:  log,
	}
	go n.despachar()
	return n
}

// Notify enfileira o evento sem bloquear. Se o buffer estiver cheio, o evento
// é descartado: auditoria nunca pode atrasar nem falhar a operação de negócio.
func (n *LogNotifier) Notify(evento Evento) {
	if evento.Data.IsZero() {
		evento.Data = time.Now()
	}
	select {
	case n.eventos <- evento:
	default:
		n.logger.Warn("Buffer de auditoria cheio. Evento descartado.", map[string]interface{}{
			"acao": evento.Acao,
			"id":   evento.ID,
		})
	}
}

// Close drena os eventos pendentes e encerra a goroutine de despacho.
func (n *LogNotifier) Close() {
	close(n.eventos)
	<-n.done
}

func (n *LogNotifier) despachar() {
	defer close(n.done)
	for evento := range n.eventos {
		fields := map[string]interface{}{
			"acao":     evento.Acao,
			"entidade": evento.Entidade,
			"id":       evento.ID,
			"data":     evento.Data.Format(time.RFC3339),
		}
		for k, v := range evento.Detalhes {
			fields[k] = v
		}
		n.logger.Info("Evento de auditoria.", fields)
	}
}
