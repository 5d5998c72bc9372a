package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/camaramunicipal/prestacontas/internal/platform/config"
	"github.com/camaramunicipal/prestacontas/internal/platform/database"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/adapter/repo"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/service"
	"github.com/camaramunicipal/prestacontas/internal/report"
	"github.com/camaramunicipal/prestacontas/internal/report/archive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T, arc archive.Archive) *testAPI {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "api.db"),
		MaxOpenConns: 1,
	}, "test", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background(), db))
	t.Cleanup(func() { _ = database.Close(db) })

	cad := repo.NewCadastroRepo(db)
	h := NewPrestacaoHandler(
		service.NewCadastroService(cad, zap.NewNop()),
		service.NewPrestacaoService(repo.NewPrestacaoRepo(db), cad, zap.NewNop()),
		report.NewGenerator("Município Exemplo", "Contadora"),
		arc,
		zap.NewNop(),
	)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return &testAPI{t: t, router: r}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) created(path string, body any) map[string]any {
	a.t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out map[string]any
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// novaPrestacao 创建职务、公务员、主席和报销单，返回报销单 ID
func (a *testAPI) novaPrestacao() int64 {
	a.created("/api/cargos", map[string]any{
		"nome_cargo": "Vereador", "valor_diaria_dentro_estado": 100, "valor_diaria_fora_estado": 200,
	})
	s := a.created("/api/servidores", map[string]any{"nome": "Maria Souza", "cargo": "Vereador"})
	p := a.created("/api/presidentes", map[string]any{"nome": "João Lima"})
	prest := a.created("/api/prestacoes", map[string]any{"servidor_id": s["id"], "presidente_id": p["id"]})
	return int64(prest["id"].(float64))
}

func TestHandler_Cadastro(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.do(http.MethodGet, "/api/servidores", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = a.do(http.MethodPost, "/api/servidores", map[string]any{"nome": "Sem cargo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cargo := a.created("/api/cargos", map[string]any{
		"nome_cargo": "Vereador", "valor_diaria_dentro_estado": 100, "valor_diaria_fora_estado": 200,
	})
	assert.EqualValues(t, 100, cargo["valor_diaria_dentro_estado"], "money stays numeric on the wire")

	w = a.do(http.MethodPost, "/api/cargos", map[string]any{"nome_cargo": "Vereador"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPut, fmt.Sprintf("/api/cargos/%v", cargo["id"]), map[string]any{"valor_diaria_fora_estado": 250.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"valor_diaria_fora_estado":250.5`)
	assert.Contains(t, w.Body.String(), `"valor_diaria_dentro_estado":100`)

	w = a.do(http.MethodPut, "/api/cargos/999", map[string]any{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_PrestacaoFlow(t *testing.T) {
	a := newTestAPI(t, nil)
	id := a.novaPrestacao()
	base := fmt.Sprintf("/api/prestacoes/%d", id)

	w := a.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"nome":"Maria Souza"`)

	// G1 fails before the per-diem advance exists
	w = a.do(http.MethodGet, base+"/etapas/adiantamentos/verificar", nil)
	assert.JSONEq(t, `{"ok":false,"mensagem":"Por favor, preencha os dados do adiantamento de diária."}`, w.Body.String())

	a.created(base+"/adiantamentos", map[string]any{
		"tipo": "diaria", "numero_adiantamento": "566", "numero_empenho": "6706",
		"valor": 500, "data_adiantamento": "2024-02-10",
	})
	w = a.do(http.MethodGet, base+"/etapas/adiantamentos/verificar", nil)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = a.do(http.MethodGet, base+"/despesas-diarias", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())

	a.created(base+"/despesas-diarias", map[string]any{
		"diarias_dentro_estado": 2, "diarias_fora_estado": 1, "refeicoes_dentro_estado": 1,
	})
	w = a.do(http.MethodPut, base+"/despesas-diarias", map[string]any{
		"diarias_dentro_estado": 2, "diarias_fora_estado": 1, "refeicoes_dentro_estado": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, base+"/calcular-totais", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var totais struct {
		TotalDiarias   float64 `json:"total_diarias"`
		TotalRefeicoes float64 `json:"total_refeicoes"`
		TotalGeral     float64 `json:"total_geral"`
		Diferenca      float64 `json:"diferenca"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &totais))
	assert.Equal(t, 400.0, totais.TotalDiarias)
	assert.Equal(t, 15.0, totais.TotalRefeicoes)
	assert.Equal(t, 415.0, totais.TotalGeral)
	assert.Equal(t, -85.0, totais.Diferenca)

	doc := a.created(base+"/documentos", map[string]any{
		"tipo_documento": "nota_fiscal", "descricao": "Almoço", "data_documento": "10/02/2024", "valor": 42.9,
	})
	assert.Equal(t, "2024-02-10", doc["data_documento"])
	w = a.do(http.MethodGet, base+"/etapas/documentos/verificar", nil)
	assert.Contains(t, w.Body.String(), `"ok":false`)

	a.created(base+"/documentos", map[string]any{"tipo_documento": "nota_hotel", "descricao": "Hotel"})
	w = a.do(http.MethodGet, base+"/etapas/documentos/verificar", nil)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = a.do(http.MethodDelete, fmt.Sprintf("/api/documentos/%v", doc["id"]), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodDelete, fmt.Sprintf("/api/documentos/%v", doc["id"]), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	passagem := a.created(base+"/despesas-passagens", map[string]any{"bpe": "BPE-1", "valor": 120, "tipo_viagem": "ida"})
	w = a.do(http.MethodGet, base+"/despesas-passagens", nil)
	assert.Contains(t, w.Body.String(), `"bpe":"BPE-1"`)
	w = a.do(http.MethodDelete, fmt.Sprintf("/api/despesas-passagens/%v", passagem["id"]), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, base+"/etapas/final/verificar", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CalcularTotaisWithoutCargo(t *testing.T) {
	a := newTestAPI(t, nil)
	s := a.created("/api/servidores", map[string]any{"nome": "Ana", "cargo": "Assessor"})
	p := a.created("/api/presidentes", map[string]any{"nome": "João"})
	prest := a.created("/api/prestacoes", map[string]any{"servidor_id": s["id"], "presidente_id": p["id"]})

	w := a.do(http.MethodGet, fmt.Sprintf("/api/prestacoes/%v/calcular-totais", prest["id"]), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestHandler_Errors(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.do(http.MethodGet, "/api/prestacoes/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/api/prestacoes/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/prestacoes", map[string]any{"servidor_id": 1, "presidente_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/prestacoes/999/adiantamentos", map[string]any{
		"tipo": "diaria", "numero_adiantamento": "1", "numero_empenho": "2", "valor": 10,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_PDF(t *testing.T) {
	dir := t.TempDir()
	arc, err := archive.NewLocal(dir)
	require.NoError(t, err)
	a := newTestAPI(t, arc)
	id := a.novaPrestacao()
	base := fmt.Sprintf("/api/prestacoes/%d", id)

	w := a.do(http.MethodGet, base+"/pdf/recibo", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Tipo de PDF inválido"}`, w.Body.String())

	// diária report needs the per-diem advance
	w = a.do(http.MethodGet, base+"/pdf/diaria", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, base+"/pdf/parecer", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="parecer_tecnico_Maria_Souza.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	_, err = os.Stat(filepath.Join(dir, fmt.Sprint(id), "parecer_tecnico_Maria_Souza.pdf"))
	assert.NoError(t, err, "report is archived")

	a.created(base+"/adiantamentos", map[string]any{
		"tipo": "diaria", "numero_adiantamento": "566", "numero_empenho": "6706", "valor": 500,
	})
	w = a.do(http.MethodGet, base+"/pdf/diaria", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, base+"/pdf/passagem", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/prestacoes/999/pdf/parecer", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
