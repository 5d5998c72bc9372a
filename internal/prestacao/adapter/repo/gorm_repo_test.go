package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/camaramunicipal/prestacontas/internal/platform/config"
	"github.com/camaramunicipal/prestacontas/internal/platform/database"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "repo.db"),
		MaxOpenConns: 1,
	}, "test", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seed(t *testing.T, db *gorm.DB) (*GormCadastroRepo, *GormPrestacaoRepo, *domain.Prestacao) {
	t.Helper()
	ctx := context.Background()
	cad := NewCadastroRepo(db)
	pr := NewPrestacaoRepo(db)

	s := &domain.Servidor{Nome: "Maria Souza", Cargo: "Vereador"}
	require.NoError(t, cad.CreateServidor(ctx, s))
	p := &domain.Presidente{Nome: "João Lima"}
	require.NoError(t, cad.CreatePresidente(ctx, p))

	prest := &domain.Prestacao{ServidorID: s.ID, PresidenteID: p.ID}
	require.NoError(t, pr.Create(ctx, prest))
	return cad, pr, prest
}

func TestCadastroRepo_Cargos(t *testing.T) {
	ctx := context.Background()
	repo := NewCadastroRepo(newTestDB(t))

	c := &domain.Cargo{
		NomeCargo:               "Vereador",
		ValorDiariaDentroEstado: decimal.RequireFromString("250.00"),
		ValorDiariaForaEstado:   decimal.RequireFromString("480.50"),
	}
	require.NoError(t, repo.CreateCargo(ctx, c))
	require.NotZero(t, c.ID)

	found, err := repo.FindCargoByNome(ctx, "Vereador")
	require.NoError(t, err)
	assert.True(t, found.ValorDiariaForaEstado.Equal(decimal.RequireFromString("480.5")))

	c.ValorDiariaDentroEstado = decimal.RequireFromString("300")
	require.NoError(t, repo.UpdateCargo(ctx, c))
	found, err = repo.FindCargo(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, found.ValorDiariaDentroEstado.Equal(decimal.NewFromInt(300)))

	_, err = repo.FindCargoByNome(ctx, "Assessor")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.UpdateCargo(ctx, &domain.Cargo{ID: 999, NomeCargo: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPrestacaoRepo_FindPreloads(t *testing.T) {
	db := newTestDB(t)
	_, pr, prest := seed(t, db)

	got, err := pr.FindByID(context.Background(), prest.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Servidor)
	require.NotNil(t, got.Presidente)
	assert.Equal(t, "Maria Souza", got.Servidor.Nome)
	assert.Equal(t, "João Lima", got.Presidente.Nome)

	_, err = pr.FindByID(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPrestacaoRepo_SaveAdiantamentoReplacesSameType(t *testing.T) {
	ctx := context.Background()
	_, pr, prest := seed(t, newTestDB(t))

	data, err := domain.ParseDate("2024-02-10")
	require.NoError(t, err)

	first := &domain.Adiantamento{
		PrestacaoID: prest.ID, Tipo: domain.AdiantamentoDiaria,
		NumeroAdiantamento: "566", NumeroEmpenho: "6706",
		Valor: decimal.NewFromInt(500), DataAdiantamento: data,
	}
	require.NoError(t, pr.SaveAdiantamento(ctx, first))

	passagem := &domain.Adiantamento{
		PrestacaoID: prest.ID, Tipo: domain.AdiantamentoPassagem,
		NumeroAdiantamento: "567", NumeroEmpenho: "6707", Valor: decimal.NewFromInt(300),
	}
	require.NoError(t, pr.SaveAdiantamento(ctx, passagem))

	second := &domain.Adiantamento{
		PrestacaoID: prest.ID, Tipo: domain.AdiantamentoDiaria,
		NumeroAdiantamento: "600", NumeroEmpenho: "6706", Valor: decimal.NewFromInt(650),
	}
	require.NoError(t, pr.SaveAdiantamento(ctx, second))

	list, err := pr.ListAdiantamentos(ctx, prest.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	diaria := domain.FindAdiantamento(list, domain.AdiantamentoDiaria)
	require.NotNil(t, diaria)
	assert.Equal(t, "600", diaria.NumeroAdiantamento)
	assert.True(t, diaria.DataAdiantamento.IsZero())

	p := domain.FindAdiantamento(list, domain.AdiantamentoPassagem)
	require.NotNil(t, p)
	assert.Equal(t, "567", p.NumeroAdiantamento)
}

func TestPrestacaoRepo_DespesaDiariaUpsert(t *testing.T) {
	ctx := context.Background()
	_, pr, prest := seed(t, newTestDB(t))

	_, err := pr.FindDespesaDiaria(ctx, prest.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, pr.SaveDespesaDiaria(ctx, &domain.DespesaDiaria{
		PrestacaoID: prest.ID, DiariasDentroEstado: 3, RefeicoesDentroEstado: 2,
	}))
	require.NoError(t, pr.SaveDespesaDiaria(ctx, &domain.DespesaDiaria{
		PrestacaoID: prest.ID, DiariasForaEstado: 1,
	}))

	got, err := pr.FindDespesaDiaria(ctx, prest.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.DiariasDentroEstado, "zero values must overwrite")
	assert.Equal(t, 0, got.RefeicoesDentroEstado)
	assert.Equal(t, 1, got.DiariasForaEstado)
}

func TestPrestacaoRepo_DocumentosAndPassagens(t *testing.T) {
	ctx := context.Background()
	_, pr, prest := seed(t, newTestDB(t))

	doc := &domain.Documento{
		PrestacaoID: prest.ID, TipoDocumento: domain.DocNotaFiscal, Descricao: "Almoço",
		Valor: decimal.NewNullDecimal(decimal.RequireFromString("42.90")),
	}
	require.NoError(t, pr.CreateDocumento(ctx, doc))
	semValor := &domain.Documento{PrestacaoID: prest.ID, TipoDocumento: domain.DocCertificado, Descricao: "Curso"}
	require.NoError(t, pr.CreateDocumento(ctx, semValor))

	docs, err := pr.ListDocumentos(ctx, prest.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.True(t, docs[0].Valor.Valid)
	assert.False(t, docs[1].Valor.Valid)

	require.NoError(t, pr.DeleteDocumento(ctx, doc.ID))
	assert.ErrorIs(t, pr.DeleteDocumento(ctx, doc.ID), domain.ErrNotFound)

	bilhete := &domain.DespesaPassagem{
		PrestacaoID: prest.ID, BPE: "BPE-001", Valor: decimal.NewFromInt(120), TipoViagem: domain.ViagemIda,
	}
	require.NoError(t, pr.CreatePassagem(ctx, bilhete))
	list, err := pr.ListPassagens(ctx, prest.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BPE-001", list[0].BPE)

	require.NoError(t, pr.DeletePassagem(ctx, bilhete.ID))
	assert.ErrorIs(t, pr.DeletePassagem(ctx, bilhete.ID), domain.ErrNotFound)
}
