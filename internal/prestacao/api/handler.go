package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/service"
	"github.com/camaramunicipal/prestacontas/internal/report"
	"github.com/camaramunicipal/prestacontas/internal/report/archive"
)

type PrestacaoHandler struct {
	cadastro   *service.CadastroService
	prestacoes *service.PrestacaoService
	reports    *report.Generator
	archive    archive.Archive
	logger     *zap.Logger
}

func NewPrestacaoHandler(
	cadastro *service.CadastroService,
	prestacoes *service.PrestacaoService,
	reports *report.Generator,
	arc archive.Archive,
	logger *zap.Logger,
) *PrestacaoHandler {
	if arc == nil {
		arc = archive.Nop{}
	}
	return &PrestacaoHandler{
		cadastro:   cadastro,
		prestacoes: prestacoes,
		reports:    reports,
		archive:    arc,
		logger:     logger,
	}
}

// RegisterRoutes 注册路由
func (h *PrestacaoHandler) RegisterRoutes(r *gin.RouterGroup) {
	// 基础数据
	r.GET("/servidores", h.ListServidores)
	r.POST("/servidores", h.CreateServidor)
	r.GET("/presidentes", h.ListPresidentes)
	r.POST("/presidentes", h.CreatePresidente)
	r.GET("/cargos", h.ListCargos)
	r.POST("/cargos", h.CreateCargo)
	r.PUT("/cargos/:id", h.UpdateCargo)

	r.POST("/prestacoes", h.CreatePrestacao)
	prestacao := r.Group("/prestacoes/:id")
	{
		prestacao.GET("", h.GetPrestacao)
		prestacao.GET("/adiantamentos", h.ListAdiantamentos)
		prestacao.POST("/adiantamentos", h.CreateAdiantamento)
		prestacao.GET("/despesas-diarias", h.GetDespesaDiaria)
		prestacao.POST("/despesas-diarias", h.SaveDespesaDiaria)
		prestacao.PUT("/despesas-diarias", h.SaveDespesaDiaria)
		prestacao.GET("/calcular-totais", h.CalcularTotais)
		prestacao.GET("/etapas/:etapa/verificar", h.VerificarEtapa)
		prestacao.GET("/documentos", h.ListDocumentos)
		prestacao.POST("/documentos", h.CreateDocumento)
		prestacao.GET("/despesas-passagens", h.ListPassagens)
		prestacao.POST("/despesas-passagens", h.CreatePassagem)
		prestacao.GET("/pdf/:tipo", h.GerarPDF)
	}
	r.DELETE("/documentos/:id", h.DeleteDocumento)
	r.DELETE("/despesas-passagens/:id", h.DeletePassagem)
}

// ==========================================
// 基础数据
// ==========================================

func (h *PrestacaoHandler) ListServidores(c *gin.Context) {
	list, err := h.cadastro.ListServidores(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

func (h *PrestacaoHandler) CreateServidor(c *gin.Context) {
	var req CreateServidorReq
	if !bind(c, &req) {
		return
	}
	s, err := h.cadastro.CreateServidor(c.Request.Context(), service.NovoServidor{Nome: req.Nome, Cargo: req.Cargo})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *PrestacaoHandler) ListPresidentes(c *gin.Context) {
	list, err := h.cadastro.ListPresidentes(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

func (h *PrestacaoHandler) CreatePresidente(c *gin.Context) {
	var req CreatePresidenteReq
	if !bind(c, &req) {
		return
	}
	p, err := h.cadastro.CreatePresidente(c.Request.Context(), req.Nome)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PrestacaoHandler) ListCargos(c *gin.Context) {
	list, err := h.cadastro.ListCargos(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

func (h *PrestacaoHandler) CreateCargo(c *gin.Context) {
	var req CreateCargoReq
	if !bind(c, &req) {
		return
	}
	cargo, err := h.cadastro.CreateCargo(c.Request.Context(), service.NovoCargo{
		NomeCargo:               req.NomeCargo,
		ValorDiariaDentroEstado: req.ValorDiariaDentroEstado,
		ValorDiariaForaEstado:   req.ValorDiariaForaEstado,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cargo)
}

// UpdateCargo PUT /api/cargos/:id
func (h *PrestacaoHandler) UpdateCargo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateCargoReq
	if !bind(c, &req) {
		return
	}
	cargo, err := h.cadastro.UpdateCargo(c.Request.Context(), id, service.AtualizaCargo{
		NomeCargo:               req.NomeCargo,
		ValorDiariaDentroEstado: req.ValorDiariaDentroEstado,
		ValorDiariaForaEstado:   req.ValorDiariaForaEstado,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cargo)
}

// ==========================================
// 报销单
// ==========================================

// CreatePrestacao POST /api/prestacoes
func (h *PrestacaoHandler) CreatePrestacao(c *gin.Context) {
	var req CreatePrestacaoReq
	if !bind(c, &req) {
		return
	}
	p, err := h.prestacoes.CreatePrestacao(c.Request.Context(), service.NovaPrestacao{
		ServidorID:   req.ServidorID,
		PresidenteID: req.PresidenteID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PrestacaoHandler) GetPrestacao(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.prestacoes.GetPrestacao(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PrestacaoHandler) ListAdiantamentos(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.prestacoes.ListAdiantamentos(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

func (h *PrestacaoHandler) CreateAdiantamento(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AdiantamentoReq
	if !bind(c, &req) {
		return
	}
	a, err := h.prestacoes.RegistrarAdiantamento(c.Request.Context(), id, service.NovoAdiantamento{
		Tipo:               domain.TipoAdiantamento(req.Tipo),
		NumeroAdiantamento: req.NumeroAdiantamento,
		NumeroEmpenho:      req.NumeroEmpenho,
		Valor:              req.Valor,
		DataAdiantamento:   req.DataAdiantamento,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// GetDespesaDiaria 不存在时返回 404 和空对象
func (h *PrestacaoHandler) GetDespesaDiaria(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.prestacoes.GetDespesaDiaria(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// SaveDespesaDiaria POST 返回 201，PUT 返回 200，两者都是 upsert
func (h *PrestacaoHandler) SaveDespesaDiaria(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req DespesaDiariaReq
	if !bind(c, &req) {
		return
	}
	d, err := h.prestacoes.SalvarDespesaDiaria(c.Request.Context(), id, service.ContagemDiarias{
		DiariasDentroEstado:   req.DiariasDentroEstado,
		RefeicoesDentroEstado: req.RefeicoesDentroEstado,
		DiariasForaEstado:     req.DiariasForaEstado,
		RefeicoesForaEstado:   req.RefeicoesForaEstado,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	status := http.StatusOK
	if c.Request.Method == http.MethodPost {
		status = http.StatusCreated
	}
	c.JSON(status, d)
}

func (h *PrestacaoHandler) CalcularTotais(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.prestacoes.CalcularTotais(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// VerificarEtapa GET /api/prestacoes/:id/etapas/:etapa/verificar
func (h *PrestacaoHandler) VerificarEtapa(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.prestacoes.VerificarEtapa(c.Request.Context(), id, domain.Etapa(c.Param("etapa")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *PrestacaoHandler) ListDocumentos(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.prestacoes.ListDocumentos(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

func (h *PrestacaoHandler) CreateDocumento(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req DocumentoReq
	if !bind(c, &req) {
		return
	}
	d, err := h.prestacoes.AddDocumento(c.Request.Context(), id, service.NovoDocumento{
		TipoDocumento: domain.TipoDocumento(req.TipoDocumento),
		Descricao:     req.Descricao,
		DataDocumento: req.DataDocumento,
		Valor:         req.Valor,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *PrestacaoHandler) DeleteDocumento(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.prestacoes.DeleteDocumento(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PrestacaoHandler) ListPassagens(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.prestacoes.ListPassagens(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

func (h *PrestacaoHandler) CreatePassagem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req PassagemReq
	if !bind(c, &req) {
		return
	}
	p, err := h.prestacoes.AddPassagem(c.Request.Context(), id, service.NovaPassagem{
		BPE:        req.BPE,
		Valor:      req.Valor,
		TipoViagem: domain.TipoViagem(req.TipoViagem),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PrestacaoHandler) DeletePassagem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.prestacoes.DeletePassagem(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ==========================================
// PDF
// ==========================================

// GerarPDF GET /api/prestacoes/:id/pdf/:tipo
func (h *PrestacaoHandler) GerarPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// 1. 先校验类型，避免无谓的查询
	tipo := domain.TipoRelatorio(c.Param("tipo"))
	if !tipo.IsValid() {
		c.JSON(http.StatusBadRequest, ErrorResp{Error: "Tipo de PDF inválido"})
		return
	}

	// 2. 汇总数据
	ctx := c.Request.Context()
	dossie, err := h.prestacoes.MontarDossie(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	// 3. 渲染
	var buf bytes.Buffer
	if err := h.reports.Generate(&buf, tipo, dossie); err != nil {
		h.fail(c, err)
		return
	}
	filename := report.FileName(tipo, dossie)

	// 4. 归档失败不影响下载
	if loc, err := h.archive.Store(ctx, archive.Key(id, filename), buf.Bytes()); err != nil {
		h.logger.Warn("report archive failed", zap.Int64("prestacao_id", id), zap.Error(err))
	} else if loc != "" {
		h.logger.Info("report archived", zap.Int64("prestacao_id", id), zap.String("location", loc))
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ==========================================
// helpers
// ==========================================

// fail 把领域错误映射为 HTTP 状态码
func (h *PrestacaoHandler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, ErrorResp{Error: err.Error()})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResp{Error: "Invalid request: " + err.Error()})
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResp{Error: "invalid id: " + c.Param(name)})
		return 0, false
	}
	return id, true
}
