package dashboardservice

import (
	"context"
	"time"

	"gofarma/internal/domain"
	"gofarma/internal/pkg/logger"
)

// MedicamentoRepository expõe a contagem de medicamentos ativos do catálogo.
type MedicamentoRepository interface {
	CountAtivos(ctx context.Context) (int, error)
}

// ClienteRepository expõe a contagem de clientes cadastrados.
type ClienteRepository interface {
	Count(ctx context.Context) (int, error)
}

// VendaRepository expõe a contagem de vendas por dia de calendário.
type VendaRepository interface {
	CountPorDia(ctx context.Context, dia time.Time) (int, error)
}

// AlertaService expõe a contagem de alertas ativos.
type AlertaService interface {
	ContarAlertas(ctx context.Context) (int, error)
}

// Service agrega os indicadores do painel. Tudo é derivado do estado corrente:
// nenhum contador é mantido incrementalmente.
type Service struct {
	medicamentos MedicamentoRepository
	clientes     ClienteRepository
	vendas       VendaRepository
	alertas      AlertaService
	logger       logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço do Painel.
func NewService(
	medicamentos MedicamentoRepository,
	clientes ClienteRepository,
	vendas VendaRepository,
	alertas AlertaService,
	log logger.Logger,
) *Service {
	return &Service{
		medicamentos: medicamentos,
		clientes:     clientes,
		vendas:       vendas,
		alertas:      alertas,
		logger:       log,
	}
}

// ObterEstatisticas monta o resumo do painel. "Vendas hoje" é uma contagem do
// dia de calendário corrente, não de uma janela móvel de 24 horas.
func (s *Service) ObterEstatisticas(ctx context.Context) (domain.DashboardStats, error) {
	medicamentos, err := s.medicamentos.CountAtivos(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	clientes, err := s.clientes.Count(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	vendasHoje, err := s.vendas.CountPorDia(ctx, time.Now())
	if err != nil {
		return domain.DashboardStats{}, err
	}

	alertas, err := s.alertas.ContarAlertas(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	return domain.DashboardStats{
		MedicamentosAtivos:  medicamentos,
		ClientesCadastrados: clientes,
		VendasHoje:          vendasHoje,
		AlertasAtivos:       alertas,
	}, nil
}
