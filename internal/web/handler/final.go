package handler

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

type relatorioLink struct {
	Tipo  domain.TipoRelatorio
	Label string
}

type finalPage struct {
	Prestacao  *domain.Prestacao
	Relatorios []relatorioLink
}

var relatorios = []relatorioLink{
	{domain.RelatorioDiaria, "Prestação de Contas de Diária"},
	{domain.RelatorioPassagem, "Prestação de Contas de Passagem"},
	{domain.RelatorioParecer, "Parecer Técnico"},
}

func (h *WizardHandler) Final(c *gin.Context) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		h.renderSemPrestacao(c, "final", "Finalização")
		return
	}

	page := &finalPage{Relatorios: relatorios}
	p, err := api.GetPrestacao(c.Request.Context(), id)
	if err != nil && h.loadFailed(c, s, err, "Erro ao carregar a prestação de contas.") {
		return
	}
	page.Prestacao = p
	h.render(c, http.StatusOK, "final", "Finalização", page)
}

// BaixarPDF 代理下载后端生成的 PDF
func (h *WizardHandler) BaixarPDF(c *gin.Context) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		h.renderSemPrestacao(c, "final", "Finalização")
		return
	}

	tipo := domain.TipoRelatorio(c.Param("tipo"))
	if !tipo.IsValid() {
		s.Toasts.Error("Tipo de PDF inválido")
		redirect(c, "/final")
		return
	}

	filename, data, err := api.DownloadPDF(c.Request.Context(), id, tipo)
	if err != nil {
		h.fail(c, s, err, "Erro ao gerar PDF. Tente novamente.", "/final")
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "application/pdf", data)
}

// NovaPrestacao 清除当前报销单，回到首页
func (h *WizardHandler) NovaPrestacao(c *gin.Context) {
	_, s := h.client(c)
	s.SetPrestacaoID(0)
	redirect(c, "/")
}
