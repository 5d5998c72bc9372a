package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/camaramunicipal/prestacontas/internal/apiclient"
	"github.com/camaramunicipal/prestacontas/internal/platform/brl"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
	"github.com/camaramunicipal/prestacontas/internal/web/validation"
	"github.com/camaramunicipal/prestacontas/internal/web/wizard"
)

type passagensPage struct {
	Passagens            []domain.DespesaPassagem
	AdiantamentoPassagem *domain.Adiantamento
	Resumo               domain.ResumoPassagens
	Form                 *validation.Form
}

func passagemForm() *validation.Form {
	return validation.New(map[string]string{"bpe": "", "valor": "", "tipo_viagem": ""}, map[string]validation.Rules{
		"bpe":   {Required: true, MaxLength: 50},
		"valor": {Required: true, Custom: dinheiro},
		"tipo_viagem": {Required: true, Custom: func(v string, _ map[string]string) string {
			if !domain.TipoViagem(v).IsValid() {
				return "Tipo de viagem inválido"
			}
			return ""
		}},
	})
}

func (h *WizardHandler) Passagens(c *gin.Context) {
	h.renderPassagens(c, http.StatusOK, passagemForm())
}

func (h *WizardHandler) renderPassagens(c *gin.Context, status int, form *validation.Form) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		h.renderSemPrestacao(c, "passagens", "Passagens")
		return
	}

	var (
		adiantamentos []domain.Adiantamento
		passagens     []domain.DespesaPassagem
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		adiantamentos, err = api.ListAdiantamentos(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		passagens, err = api.ListPassagens(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil && h.loadFailed(c, s, err, "Erro ao carregar passagens.") {
		return
	}

	adiantamento := domain.FindAdiantamento(adiantamentos, domain.AdiantamentoPassagem)
	h.render(c, status, "passagens", "Passagens", &passagensPage{
		Passagens:            passagens,
		AdiantamentoPassagem: adiantamento,
		Resumo:               domain.ResumirPassagens(adiantamento, passagens),
		Form:                 form,
	})
}

func (h *WizardHandler) AdicionarPassagem(c *gin.Context) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		h.renderSemPrestacao(c, "passagens", "Passagens")
		return
	}

	form := passagemForm()
	form.Bind(postForm(c))
	if !form.ValidateAll() {
		s.Toasts.Error("Por favor, preencha todos os campos da passagem.")
		h.renderPassagens(c, http.StatusUnprocessableEntity, form)
		return
	}

	valor, _ := brl.Parse(form.Value("valor"))
	_, err := api.CreatePassagem(c.Request.Context(), id, apiclient.PassagemInput{
		BPE:        form.Value("bpe"),
		Valor:      valor,
		TipoViagem: domain.TipoViagem(form.Value("tipo_viagem")),
	})
	if err != nil {
		h.fail(c, s, err, "Erro ao adicionar passagem.", "/passagens")
		return
	}
	s.Toasts.Success("Passagem adicionada com sucesso!")
	redirect(c, "/passagens")
}

func (h *WizardHandler) RemoverPassagem(c *gin.Context) {
	api, s := h.client(c)
	passagemID, ok := formID(c, "id")
	if !ok {
		s.Toasts.Error("Passagem inválida.")
		redirect(c, "/passagens")
		return
	}
	if err := api.DeletePassagem(c.Request.Context(), passagemID); err != nil {
		h.fail(c, s, err, "Erro ao remover passagem.", "/passagens")
		return
	}
	s.Toasts.Success("Passagem removida.")
	redirect(c, "/passagens")
}

// AvancarPassagens 有车票预支款时至少要登记一张车票
func (h *WizardHandler) AvancarPassagens(c *gin.Context) {
	h.avancar(c, wizard.Passagens, domain.EtapaPassagens)
}
