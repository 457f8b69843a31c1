package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gofarma/internal/domain"
)

// TestVencido_VenceHoje verifica que um medicamento que vence hoje ainda é vendável.
func TestVencido_VenceHoje(t *testing.T) {
	ref := time.Date(2026, time.August, 31, 18, 0, 0, 0, time.UTC)
	med := domain.Medicamento{DataValidade: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)}

	assert.False(t, med.Vencido(ref))
	assert.Equal(t, 0, med.DiasAteValidade(ref))
}

// TestVencido_VenceuOntem verifica a comparação por dia de calendário.
func TestVencido_VenceuOntem(t *testing.T) {
	ref := time.Date(2026, time.August, 31, 0, 1, 0, 0, time.UTC)
	med := domain.Medicamento{DataValidade: time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)}

	assert.True(t, med.Vencido(ref))
	assert.Equal(t, -1, med.DiasAteValidade(ref))
}

// TestDiasAteValidade_IgnoraHora verifica que a contagem de dias não depende
// do horário da referência.
func TestDiasAteValidade_IgnoraHora(t *testing.T) {
	med := domain.Medicamento{DataValidade: time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)}

	manha := time.Date(2026, time.August, 31, 1, 0, 0, 0, time.UTC)
	noite := time.Date(2026, time.August, 31, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, med.DiasAteValidade(manha))
	assert.Equal(t, 30, med.DiasAteValidade(noite))
}

// TestNomeExibicao_ComEDosagem verifica o formato do nome com e sem dosagem.
func TestNomeExibicao_ComEDosagem(t *testing.T) {
	comDosagem := domain.Medicamento{Nome: "Dipirona", Dosagem: "500mg"}
	semDosagem := domain.Medicamento{Nome: "Soro Fisiológico"}

	assert.Equal(t, "Dipirona (500mg)", comDosagem.NomeExibicao())
	assert.Equal(t, "Soro Fisiológico", semDosagem.NomeExibicao())
}
