package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/camaramunicipal/prestacontas/internal/apiclient"
	"github.com/camaramunicipal/prestacontas/internal/platform/brl"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
	"github.com/camaramunicipal/prestacontas/internal/web/mask"
	"github.com/camaramunicipal/prestacontas/internal/web/validation"
	"github.com/camaramunicipal/prestacontas/internal/web/wizard"
)

type documentosPage struct {
	Documentos []domain.Documento
	Tipos      []domain.TipoDocumento
	Form       *validation.Form
}

func tipoDocumento(v string, _ map[string]string) string {
	if !domain.TipoDocumento(v).IsValid() {
		return "Tipo de documento inválido"
	}
	return ""
}

func documentoForm() *validation.Form {
	return validation.New(map[string]string{
		"tipo_documento": "", "descricao": "", "data_documento": "", "valor": "",
	}, map[string]validation.Rules{
		"tipo_documento": {Required: true, Custom: tipoDocumento},
		"descricao":      {Required: true, MaxLength: 500},
		"data_documento": {Custom: dataBR},
		"valor":          {Custom: dinheiro},
	})
}

func (h *WizardHandler) Documentos(c *gin.Context) {
	h.renderDocumentos(c, http.StatusOK, documentoForm())
}

func (h *WizardHandler) renderDocumentos(c *gin.Context, status int, form *validation.Form) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		h.renderSemPrestacao(c, "documentos", "Documentos")
		return
	}

	page := &documentosPage{Tipos: domain.TiposDocumento, Form: form}
	docs, err := api.ListDocumentos(c.Request.Context(), id)
	if err != nil && h.loadFailed(c, s, err, "Erro ao carregar documentos.") {
		return
	}
	page.Documentos = docs
	h.render(c, status, "documentos", "Documentos", page)
}

func (h *WizardHandler) AdicionarDocumento(c *gin.Context) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		h.renderSemPrestacao(c, "documentos", "Documentos")
		return
	}

	form := documentoForm()
	form.Bind(postForm(c))
	if !form.ValidateAll() {
		s.Toasts.Error("Por favor, preencha pelo menos o tipo e a descrição do documento.")
		h.renderDocumentos(c, http.StatusUnprocessableEntity, form)
		return
	}

	in := apiclient.DocumentoInput{
		TipoDocumento: domain.TipoDocumento(form.Value("tipo_documento")),
		Descricao:     form.Value("descricao"),
	}
	in.DataDocumento, _ = domain.ParseDate(mask.Reformat(form.Value("data_documento"), mask.Date))
	if v := form.Value("valor"); v != "" {
		d, _ := brl.Parse(v)
		in.Valor = decimal.NewNullDecimal(d)
	}

	if _, err := api.CreateDocumento(c.Request.Context(), id, in); err != nil {
		h.fail(c, s, err, "Erro ao adicionar documento.", "/documentos")
		return
	}
	s.Toasts.Success("Documento adicionado com sucesso!")
	redirect(c, "/documentos")
}

func (h *WizardHandler) RemoverDocumento(c *gin.Context) {
	api, s := h.client(c)
	docID, ok := formID(c, "id")
	if !ok {
		s.Toasts.Error("Documento inválido.")
		redirect(c, "/documentos")
		return
	}
	if err := api.DeleteDocumento(c.Request.Context(), docID); err != nil {
		h.fail(c, s, err, "Erro ao remover documento.", "/documentos")
		return
	}
	s.Toasts.Success("Documento removido.")
	redirect(c, "/documentos")
}

// AvancarDocumentos 后端检查凭证是否齐全
func (h *WizardHandler) AvancarDocumentos(c *gin.Context) {
	h.avancar(c, wizard.Documentos, domain.EtapaDocumentos)
}

// avancar 通过检查后进入下一步，否则留在当前页并提示
func (h *WizardHandler) avancar(c *gin.Context, step wizard.Step, etapa domain.Etapa) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		redirect(c, step.Path())
		return
	}

	v, err := api.VerificarEtapa(c.Request.Context(), id, etapa)
	if err != nil {
		h.fail(c, s, err, "Erro ao verificar a etapa.", step.Path())
		return
	}
	if !v.OK {
		s.Toasts.Warning(v.Mensagem)
		redirect(c, step.Path())
		return
	}
	redirect(c, wizard.Next(step).Path())
}
