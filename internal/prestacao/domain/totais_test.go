package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msg)
}

func TestCalcularTotais(t *testing.T) {
	cargo := &Cargo{ValorDiariaDentroEstado: dec("100"), ValorDiariaForaEstado: dec("200")}
	despesa := &DespesaDiaria{DiariasDentroEstado: 2, DiariasForaEstado: 1, RefeicoesDentroEstado: 1}
	adiantamento := &Adiantamento{Tipo: AdiantamentoDiaria, Valor: dec("500")}

	got := CalcularTotais(cargo, despesa, adiantamento)

	assertDec(t, "400", got.TotalDiarias)
	assertDec(t, "15", got.TotalRefeicoes)
	assertDec(t, "415", got.TotalGeral)
	assertDec(t, "500", got.ValorAdiantamentoDiaria)
	assertDec(t, "-85", got.Diferenca)

	require.NotNil(t, got.Detalhes)
	assertDec(t, "15", got.Detalhes.RefeicoesDentroEstado.ValorUnitario)
	assertDec(t, "30", got.Detalhes.RefeicoesForaEstado.ValorUnitario)
	assert.Equal(t, 2, got.Detalhes.DiariasDentroEstado.Quantidade)
	assertDec(t, "200", got.Detalhes.DiariasForaEstado.Total)
}

func TestCalcularTotais_NoAdvance(t *testing.T) {
	cargo := &Cargo{ValorDiariaDentroEstado: dec("80.50"), ValorDiariaForaEstado: dec("120")}
	despesa := &DespesaDiaria{DiariasDentroEstado: 3}

	got := CalcularTotais(cargo, despesa, nil)

	assertDec(t, "241.5", got.TotalGeral)
	assertDec(t, "0", got.ValorAdiantamentoDiaria)
	assertDec(t, "241.5", got.Diferenca)
}

func TestCalcularTotais_MissingInputs(t *testing.T) {
	cargo := &Cargo{ValorDiariaDentroEstado: dec("100"), ValorDiariaForaEstado: dec("200")}

	for name, got := range map[string]Totais{
		"no cargo":   CalcularTotais(nil, &DespesaDiaria{DiariasDentroEstado: 1}, nil),
		"no despesa": CalcularTotais(cargo, nil, &Adiantamento{Valor: dec("10")}),
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, got.TotalGeral.IsZero())
			assert.True(t, got.Diferenca.IsZero())
			assert.Nil(t, got.Detalhes)
		})
	}
}

func TestResumirPassagens(t *testing.T) {
	passagens := []DespesaPassagem{
		{Valor: dec("120.40"), TipoViagem: ViagemIda},
		{Valor: dec("119.60"), TipoViagem: ViagemVolta},
	}

	got := ResumirPassagens(&Adiantamento{Valor: dec("300")}, passagens)
	assertDec(t, "240", got.TotalPassagens)
	assertDec(t, "60", got.ValorADevolver)

	none := ResumirPassagens(nil, passagens)
	assertDec(t, "-240", none.ValorADevolver)
}

func TestFindAdiantamento(t *testing.T) {
	list := []Adiantamento{
		{ID: 1, Tipo: AdiantamentoPassagem},
		{ID: 2, Tipo: AdiantamentoDiaria},
	}
	require.NotNil(t, FindAdiantamento(list, AdiantamentoDiaria))
	assert.Equal(t, int64(2), FindAdiantamento(list, AdiantamentoDiaria).ID)
	assert.Nil(t, FindAdiantamento(list[:1], AdiantamentoDiaria))
}
