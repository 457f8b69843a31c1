package alertaservice

import (
	"context"
	"fmt"
	"time"

	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
)

// MedicamentoRepository define a consulta de catálogo necessária para derivar alertas.
type MedicamentoRepository interface {
	FindAll(ctx context.Context, filter domain.MedicamentoFilter) ([]domain.Medicamento, error)
}

// Service deriva alertas do estado corrente do catálogo a cada consulta.
// Alertas não são persistidos: resolvida a condição (reposição, nova validade),
// o alerta desaparece da próxima consulta sem nenhum passo de limpeza.
type Service struct {
	repo          MedicamentoRepository
	limiteEstoque int
	janelaDias    int
	logger        logger.Logger
}

// NewService cria o serviço de alertas com os limiares configurados.
// Valores não positivos caem nos padrões do domínio.
func NewService(repo MedicamentoRepository, limiteEstoque, janelaDias int, log logger.Logger) *Service {
	if limiteEstoque <= 0 {
		limiteEstoque = domain.LimiteEstoqueBaixoPadrao
	}
	if janelaDias <= 0 {
		janelaDias = domain.JanelaValidadeDiasPadrao
	}
	return &Service{
		repo:          repo,
		limiteEstoque: limiteEstoque,
		janelaDias:    janelaDias,
		logger:        log,
	}
}

// ListarAlertas recalcula e retorna os alertas ativos do catálogo.
// Apenas medicamentos ativos geram alertas. Um mesmo medicamento pode aparecer
// em mais de um alerta (estoque baixo E validade próxima, por exemplo).
func (s *Service) ListarAlertas(ctx context.Context) ([]domain.Alerta, error) {
	medicamentos, err := s.repo.FindAll(ctx, domain.MedicamentoFilter{ApenasAtivos: true})
	if err != nil {
		return nil, err
	}

	agora := time.Now()
	alertas := []domain.Alerta{}
	for _, med := range medicamentos {
		// Estoque baixo: acima de zero e até o limiar. Estoque zerado não é
		// "baixo"; a ausência total fica evidente no próprio catálogo.
		if med.Estoque > 0 && med.Estoque <= s.limiteEstoque {
			alertas = append(alertas, domain.Alerta{
				Medicamento: med,
				Tipo:        domain.AlertaEstoqueBaixo,
				Mensagem:    fmt.Sprintf("Estoque baixo: apenas %d unidades restantes.", med.Estoque),
			})
		}

		dias := med.DiasAteValidade(agora)
		switch {
		case dias < 0:
			alertas = append(alertas, domain.Alerta{
				Medicamento: med,
				Tipo:        domain.AlertaVencido,
				Mensagem:    fmt.Sprintf("Medicamento vencido há %d dias.", -dias),
			})
		case dias <= s.janelaDias:
			alertas = append(alertas, domain.Alerta{
				Medicamento: med,
				Tipo:        domain.AlertaValidadeProxima,
				Mensagem:    fmt.Sprintf("Validade próxima: vence em %d dias.", dias),
			})
		}
	}

	s.logger.Debug("Alertas recalculados.", map[string]interface{}{"total": len(alertas)})
	return alertas, nil
}

// ContarAlertas retorna o número de alertas ativos, para o painel.
func (s *Service) ContarAlertas(ctx context.Context) (int, error) {
	alertas, err := s.ListarAlertas(ctx)
	if err != nil {
		return 0, err
	}
	return len(alertas), nil
}
