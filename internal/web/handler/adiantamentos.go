package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/camaramunicipal/prestacontas/internal/apiclient"
	"github.com/camaramunicipal/prestacontas/internal/platform/brl"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
	"github.com/camaramunicipal/prestacontas/internal/web/mask"
	"github.com/camaramunicipal/prestacontas/internal/web/validation"
	"github.com/camaramunicipal/prestacontas/internal/web/wizard"
)

type adiantamentosPage struct {
	Prestacao *domain.Prestacao
	Form      *validation.Form
	Totais    *domain.Totais
}

var inteiro = regexp.MustCompile(`^\d+$`)

var contagens = []string{
	"diarias_dentro_estado", "refeicoes_dentro_estado", "diarias_fora_estado", "refeicoes_fora_estado",
}

func dataBR(v string, _ map[string]string) string {
	if _, err := domain.ParseDate(mask.Reformat(v, mask.Date)); err != nil {
		return "Data inválida"
	}
	return ""
}

// comEmpenho 填写了预支款编号时必须有拨款单号
func comEmpenho(prefix string) func(string, map[string]string) string {
	return func(_ string, all map[string]string) string {
		if strings.TrimSpace(all[prefix+"empenho"]) == "" {
			return "Informe também o número do empenho"
		}
		return ""
	}
}

// adiantamentoCampos 每类预支款的字段后缀
var adiantamentoCampos = []string{"numero", "empenho", "valor", "data"}

func adiantamentosForm(initial map[string]string) *validation.Form {
	if initial == nil {
		initial = map[string]string{}
		for _, prefix := range []string{"diaria_", "passagem_"} {
			for _, campo := range adiantamentoCampos {
				initial[prefix+campo] = ""
			}
		}
		for _, name := range contagens {
			initial[name] = "0"
		}
	}
	rules := map[string]validation.Rules{
		"diaria_numero":   {MaxLength: 50, Custom: comEmpenho("diaria_")},
		"diaria_valor":    {Custom: dinheiro},
		"diaria_data":     {Custom: dataBR},
		"passagem_numero": {MaxLength: 50, Custom: comEmpenho("passagem_")},
		"passagem_valor":  {Custom: dinheiro},
		"passagem_data":   {Custom: dataBR},
	}
	for _, name := range contagens {
		rules[name] = validation.Rules{Pattern: inteiro, PatternMessage: "Informe um número inteiro"}
	}
	return validation.New(initial, rules)
}

// adiantamentoValues 已保存的预支款和天数转成表单初始值
func adiantamentoValues(list []domain.Adiantamento, despesa *domain.DespesaDiaria) map[string]string {
	v := map[string]string{}
	for _, tipo := range []domain.TipoAdiantamento{domain.AdiantamentoDiaria, domain.AdiantamentoPassagem} {
		prefix := string(tipo) + "_"
		for _, campo := range adiantamentoCampos {
			v[prefix+campo] = ""
		}
		if a := domain.FindAdiantamento(list, tipo); a != nil {
			v[prefix+"numero"] = a.NumeroAdiantamento
			v[prefix+"empenho"] = a.NumeroEmpenho
			v[prefix+"valor"] = brl.Number(a.Valor)
			v[prefix+"data"] = a.DataAdiantamento.BR()
		}
	}
	counts := [4]int{}
	if despesa != nil {
		counts = [4]int{despesa.DiariasDentroEstado, despesa.RefeicoesDentroEstado, despesa.DiariasForaEstado, despesa.RefeicoesForaEstado}
	}
	for i, name := range contagens {
		v[name] = strconv.Itoa(counts[i])
	}
	return v
}

func (h *WizardHandler) Adiantamentos(c *gin.Context) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		h.renderSemPrestacao(c, "adiantamentos", "Adiantamentos")
		return
	}

	var (
		prestacao     *domain.Prestacao
		adiantamentos []domain.Adiantamento
		despesa       *domain.DespesaDiaria
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		prestacao, err = api.GetPrestacao(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		adiantamentos, err = api.ListAdiantamentos(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		despesa, err = api.GetDespesaDiaria(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil && h.loadFailed(c, s, err, "Erro ao carregar dados.") {
		return
	}

	page := &adiantamentosPage{
		Prestacao: prestacao,
		Form:      adiantamentosForm(adiantamentoValues(adiantamentos, despesa)),
	}
	// 职务未配置时没有合计，不视为错误
	if despesa != nil {
		if totais, err := api.CalcularTotais(c.Request.Context(), id); err == nil {
			page.Totais = totais
		} else if h.expired(c, s, err) {
			return
		}
	}
	h.render(c, http.StatusOK, "adiantamentos", "Adiantamentos", page)
}

// SalvarAdiantamentos acao=salvar 保存并重算；acao=avancar 保存后检查日补贴预支款再进入下一步
func (h *WizardHandler) SalvarAdiantamentos(c *gin.Context) {
	api, s := h.client(c)
	id := s.PrestacaoID()
	if id == 0 {
		h.renderSemPrestacao(c, "adiantamentos", "Adiantamentos")
		return
	}

	form := adiantamentosForm(nil)
	form.Bind(postForm(c))
	if !form.ValidateAll() {
		s.Toasts.Error(msgCorrijaErros)
		h.render(c, http.StatusUnprocessableEntity, "adiantamentos", "Adiantamentos", &adiantamentosPage{Form: form})
		return
	}
	ctx := c.Request.Context()

	// 1. 编号和金额都填写了才保存对应的预支款
	for _, tipo := range []domain.TipoAdiantamento{domain.AdiantamentoDiaria, domain.AdiantamentoPassagem} {
		prefix := string(tipo) + "_"
		numero, valor := form.Value(prefix+"numero"), form.Value(prefix+"valor")
		if numero == "" || valor == "" {
			continue
		}
		v, _ := brl.Parse(valor)
		dt, _ := domain.ParseDate(mask.Reformat(form.Value(prefix+"data"), mask.Date))
		_, err := api.SaveAdiantamento(ctx, id, apiclient.AdiantamentoInput{
			Tipo:               tipo,
			NumeroAdiantamento: numero,
			NumeroEmpenho:      form.Value(prefix + "empenho"),
			Valor:              v,
			DataAdiantamento:   dt,
		})
		if err != nil {
			h.fail(c, s, err, "Erro ao salvar adiantamento.", "/adiantamentos")
			return
		}
	}

	// 2. 天数与餐数
	var counts [4]int
	for i, name := range contagens {
		counts[i], _ = strconv.Atoi(form.Value(name))
	}
	_, err := api.SaveDespesaDiaria(ctx, id, apiclient.DespesaDiariaInput{
		DiariasDentroEstado:   counts[0],
		RefeicoesDentroEstado: counts[1],
		DiariasForaEstado:     counts[2],
		RefeicoesForaEstado:   counts[3],
	})
	if err != nil {
		h.fail(c, s, err, "Erro ao salvar diárias.", "/adiantamentos")
		return
	}

	if c.PostForm("acao") != "avancar" {
		s.Toasts.Success("Dados salvos com sucesso!")
		redirect(c, "/adiantamentos")
		return
	}

	// 3. 进入下一步前的检查
	if form.Value("diaria_numero") == "" || form.Value("diaria_valor") == "" {
		s.Toasts.Warning(domain.MsgFaltaAdiantamentoDiaria)
		redirect(c, "/adiantamentos")
		return
	}
	redirect(c, wizard.Next(wizard.Adiantamentos).Path())
}
