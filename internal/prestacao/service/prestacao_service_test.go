package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camaramunicipal/prestacontas/internal/platform/config"
	"github.com/camaramunicipal/prestacontas/internal/platform/database"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/adapter/repo"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

type fixture struct {
	cadastro   *CadastroService
	prestacoes *PrestacaoService
	servidor   *domain.Servidor
	presidente *domain.Presidente
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "svc.db"),
		MaxOpenConns: 1,
	}, "test", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(ctx, db))
	t.Cleanup(func() { _ = database.Close(db) })

	cadRepo := repo.NewCadastroRepo(db)
	f := &fixture{
		cadastro:   NewCadastroService(cadRepo, zap.NewNop()),
		prestacoes: NewPrestacaoService(repo.NewPrestacaoRepo(db), cadRepo, zap.NewNop()),
	}
	f.prestacoes.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	f.servidor, err = f.cadastro.CreateServidor(ctx, NovoServidor{Nome: "Maria Souza", Cargo: "Vereador"})
	require.NoError(t, err)
	f.presidente, err = f.cadastro.CreatePresidente(ctx, "João Lima")
	require.NoError(t, err)
	return f
}

func (f *fixture) novaPrestacao(t *testing.T) *domain.Prestacao {
	t.Helper()
	p, err := f.prestacoes.CreatePrestacao(context.Background(), NovaPrestacao{
		ServidorID:   f.servidor.ID,
		PresidenteID: f.presidente.ID,
	})
	require.NoError(t, err)
	return p
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCadastroService_Cargos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c, err := f.cadastro.CreateCargo(ctx, NovoCargo{
		NomeCargo: " Vereador ", ValorDiariaDentroEstado: dec("100"), ValorDiariaForaEstado: dec("200"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Vereador", c.NomeCargo)

	_, err = f.cadastro.CreateCargo(ctx, NovoCargo{NomeCargo: "Vereador"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.cadastro.CreateCargo(ctx, NovoCargo{NomeCargo: "Assessor", ValorDiariaDentroEstado: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	novo := dec("150")
	updated, err := f.cadastro.UpdateCargo(ctx, c.ID, AtualizaCargo{ValorDiariaDentroEstado: &novo})
	require.NoError(t, err)
	assert.True(t, updated.ValorDiariaDentroEstado.Equal(novo))
	assert.True(t, updated.ValorDiariaForaEstado.Equal(dec("200")), "untouched fields are kept")

	_, err = f.cadastro.UpdateCargo(ctx, 999, AtualizaCargo{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCadastroService_RequiresNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.cadastro.CreateServidor(ctx, NovoServidor{Nome: "  ", Cargo: "Vereador"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.cadastro.CreatePresidente(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrestacaoService_CreatePrestacao(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.novaPrestacao(t)
	require.NotNil(t, p.Servidor)
	assert.Equal(t, "Maria Souza", p.Servidor.Nome)
	assert.Equal(t, 2024, p.DataCriacao.Year())

	_, err := f.prestacoes.CreatePrestacao(ctx, NovaPrestacao{ServidorID: 999, PresidenteID: f.presidente.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.prestacoes.CreatePrestacao(ctx, NovaPrestacao{ServidorID: f.servidor.ID, PresidenteID: 999})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrestacaoService_RegistrarAdiantamento(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.novaPrestacao(t)

	_, err := f.prestacoes.RegistrarAdiantamento(ctx, p.ID, NovoAdiantamento{
		Tipo: "outro", NumeroAdiantamento: "1", NumeroEmpenho: "2", Valor: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.prestacoes.RegistrarAdiantamento(ctx, p.ID, NovoAdiantamento{
		Tipo: domain.AdiantamentoDiaria, NumeroAdiantamento: "1", NumeroEmpenho: "2",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "zero amount is rejected")

	_, err = f.prestacoes.RegistrarAdiantamento(ctx, 999, NovoAdiantamento{
		Tipo: domain.AdiantamentoDiaria, NumeroAdiantamento: "1", NumeroEmpenho: "2", Valor: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	a, err := f.prestacoes.RegistrarAdiantamento(ctx, p.ID, NovoAdiantamento{
		Tipo: domain.AdiantamentoDiaria, NumeroAdiantamento: "566", NumeroEmpenho: "6706", Valor: dec("500"),
	})
	require.NoError(t, err)
	assert.NotZero(t, a.ID)

	list, err := f.prestacoes.ListAdiantamentos(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPrestacaoService_CalcularTotais(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.novaPrestacao(t)

	// servidor's cargo does not exist yet
	_, err := f.prestacoes.CalcularTotais(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.cadastro.CreateCargo(ctx, NovoCargo{
		NomeCargo: "Vereador", ValorDiariaDentroEstado: dec("100"), ValorDiariaForaEstado: dec("200"),
	})
	require.NoError(t, err)

	// no per-diem counts yet
	totais, err := f.prestacoes.CalcularTotais(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, totais.TotalGeral.IsZero())
	assert.Nil(t, totais.Detalhes)

	_, err = f.prestacoes.SalvarDespesaDiaria(ctx, p.ID, ContagemDiarias{DiariasDentroEstado: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.prestacoes.SalvarDespesaDiaria(ctx, p.ID, ContagemDiarias{
		DiariasDentroEstado: 2, DiariasForaEstado: 1, RefeicoesDentroEstado: 1,
	})
	require.NoError(t, err)
	_, err = f.prestacoes.RegistrarAdiantamento(ctx, p.ID, NovoAdiantamento{
		Tipo: domain.AdiantamentoDiaria, NumeroAdiantamento: "566", NumeroEmpenho: "6706", Valor: dec("500"),
	})
	require.NoError(t, err)

	totais, err = f.prestacoes.CalcularTotais(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, totais.TotalDiarias.Equal(dec("400")), totais.TotalDiarias.String())
	assert.True(t, totais.TotalRefeicoes.Equal(dec("15")), totais.TotalRefeicoes.String())
	assert.True(t, totais.TotalGeral.Equal(dec("415")))
	assert.True(t, totais.Diferenca.Equal(dec("-85")))
	require.NotNil(t, totais.Detalhes)
}

func TestPrestacaoService_VerificarEtapa(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.novaPrestacao(t)

	v, err := f.prestacoes.VerificarEtapa(ctx, p.ID, domain.EtapaAdiantamentos)
	require.NoError(t, err)
	assert.False(t, v.OK)
	assert.Equal(t, domain.MsgFaltaAdiantamentoDiaria, v.Mensagem)

	_, err = f.prestacoes.AddDocumento(ctx, p.ID, NovoDocumento{TipoDocumento: domain.DocNotaFiscal, Descricao: "Almoço"})
	require.NoError(t, err)
	v, err = f.prestacoes.VerificarEtapa(ctx, p.ID, domain.EtapaDocumentos)
	require.NoError(t, err)
	assert.False(t, v.OK, "hotel receipt still missing")

	_, err = f.prestacoes.AddDocumento(ctx, p.ID, NovoDocumento{TipoDocumento: domain.DocNotaHotel, Descricao: "Hotel"})
	require.NoError(t, err)
	v, err = f.prestacoes.VerificarEtapa(ctx, p.ID, domain.EtapaDocumentos)
	require.NoError(t, err)
	assert.True(t, v.OK)

	// without a ticket advance the passagens step passes
	v, err = f.prestacoes.VerificarEtapa(ctx, p.ID, domain.EtapaPassagens)
	require.NoError(t, err)
	assert.True(t, v.OK)

	_, err = f.prestacoes.RegistrarAdiantamento(ctx, p.ID, NovoAdiantamento{
		Tipo: domain.AdiantamentoPassagem, NumeroAdiantamento: "567", NumeroEmpenho: "6707", Valor: dec("300"),
	})
	require.NoError(t, err)
	v, err = f.prestacoes.VerificarEtapa(ctx, p.ID, domain.EtapaPassagens)
	require.NoError(t, err)
	assert.Equal(t, domain.MsgFaltaPassagem, v.Mensagem)

	_, err = f.prestacoes.VerificarEtapa(ctx, p.ID, "final")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrestacaoService_DocumentosEPassagens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.novaPrestacao(t)

	_, err := f.prestacoes.AddDocumento(ctx, p.ID, NovoDocumento{TipoDocumento: "boleto", Descricao: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.prestacoes.AddDocumento(ctx, p.ID, NovoDocumento{TipoDocumento: domain.DocOutros})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	doc, err := f.prestacoes.AddDocumento(ctx, p.ID, NovoDocumento{
		TipoDocumento: domain.DocNotaFiscal, Descricao: "Almoço", Valor: decimal.NewNullDecimal(dec("42.90")),
	})
	require.NoError(t, err)
	require.NoError(t, f.prestacoes.DeleteDocumento(ctx, doc.ID))
	assert.ErrorIs(t, f.prestacoes.DeleteDocumento(ctx, doc.ID), domain.ErrNotFound)

	_, err = f.prestacoes.AddPassagem(ctx, p.ID, NovaPassagem{BPE: "BPE-1", Valor: dec("120"), TipoViagem: "circular"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.prestacoes.AddPassagem(ctx, p.ID, NovaPassagem{BPE: "", Valor: dec("120"), TipoViagem: domain.ViagemIda})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bilhete, err := f.prestacoes.AddPassagem(ctx, p.ID, NovaPassagem{BPE: "BPE-1", Valor: dec("120"), TipoViagem: domain.ViagemIda})
	require.NoError(t, err)
	list, err := f.prestacoes.ListPassagens(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	require.NoError(t, f.prestacoes.DeletePassagem(ctx, bilhete.ID))
}

func TestPrestacaoService_MontarDossie(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.novaPrestacao(t)

	// missing cargo yields zero totals instead of an error
	d, err := f.prestacoes.MontarDossie(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Cargo)
	assert.True(t, d.Totais.TotalGeral.IsZero())
	assert.Equal(t, "Maria Souza", d.NomeServidor())
	assert.Equal(t, "João Lima", d.NomePresidente())

	_, err = f.prestacoes.RegistrarAdiantamento(ctx, p.ID, NovoAdiantamento{
		Tipo: domain.AdiantamentoPassagem, NumeroAdiantamento: "567", NumeroEmpenho: "6707", Valor: dec("300"),
	})
	require.NoError(t, err)
	d, err = f.prestacoes.MontarDossie(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, d.AdiantamentoDiaria)
	require.NotNil(t, d.AdiantamentoPassagem)

	_, err = f.prestacoes.MontarDossie(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
