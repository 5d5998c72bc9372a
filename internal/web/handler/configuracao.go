package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/camaramunicipal/prestacontas/internal/apiclient"
	"github.com/camaramunicipal/prestacontas/internal/platform/brl"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
	"github.com/camaramunicipal/prestacontas/internal/web/validation"
)

type configuracaoPage struct {
	Cargos   []domain.Cargo
	Form     *validation.Form
	Editando int64
}

// dinheiro 金额字段：可选，非空时必须是非负数
func dinheiro(v string, _ map[string]string) string {
	d, err := brl.Parse(v)
	if err != nil {
		return "Valor inválido"
	}
	if d.IsNegative() {
		return "O valor não pode ser negativo"
	}
	return ""
}

func cargoForm(initial map[string]string) *validation.Form {
	return validation.New(initial, map[string]validation.Rules{
		"nome_cargo":                 {Required: true, MaxLength: 100},
		"valor_diaria_dentro_estado": {Required: true, Custom: dinheiro},
		"valor_diaria_fora_estado":   {Required: true, Custom: dinheiro},
	})
}

func (h *WizardHandler) Configuracao(c *gin.Context) {
	api, s := h.client(c)
	page := &configuracaoPage{Form: cargoForm(nil)}

	cargos, err := api.ListCargos(c.Request.Context())
	if err != nil {
		if h.loadFailed(c, s, err, "Erro ao carregar cargos.") {
			return
		}
	}
	page.Cargos = cargos

	// ?editar=ID 预填编辑表单
	if id, err := strconv.ParseInt(c.Query("editar"), 10, 64); err == nil {
		for _, cg := range cargos {
			if cg.ID == id {
				page.Editando = id
				page.Form = cargoForm(map[string]string{
					"nome_cargo":                 cg.NomeCargo,
					"valor_diaria_dentro_estado": brl.Number(cg.ValorDiariaDentroEstado),
					"valor_diaria_fora_estado":   brl.Number(cg.ValorDiariaForaEstado),
				})
			}
		}
	}
	h.render(c, http.StatusOK, "configuracao", "Configuração de Diárias", page)
}

// SalvarCargo 带 id 时更新，否则新建
func (h *WizardHandler) SalvarCargo(c *gin.Context) {
	api, s := h.client(c)
	form := cargoForm(nil)
	form.Bind(postForm(c))
	id, editando := formID(c, "id")

	if !form.ValidateAll() {
		s.Toasts.Error("Por favor, preencha todos os campos.")
		cargos, err := api.ListCargos(c.Request.Context())
		if err != nil && h.loadFailed(c, s, err, "Erro ao carregar cargos.") {
			return
		}
		h.render(c, http.StatusUnprocessableEntity, "configuracao", "Configuração de Diárias",
			&configuracaoPage{Cargos: cargos, Form: form, Editando: id})
		return
	}

	// 已通过校验，解析不会失败
	dentro, _ := brl.Parse(form.Value("valor_diaria_dentro_estado"))
	fora, _ := brl.Parse(form.Value("valor_diaria_fora_estado"))
	in := apiclient.CargoInput{
		NomeCargo:               form.Value("nome_cargo"),
		ValorDiariaDentroEstado: dentro,
		ValorDiariaForaEstado:   fora,
	}

	var err error
	if editando {
		_, err = api.UpdateCargo(c.Request.Context(), id, in)
	} else {
		_, err = api.CreateCargo(c.Request.Context(), in)
	}
	if err != nil {
		h.fail(c, s, err, "Erro ao salvar cargo.", "/configuracao-diarias")
		return
	}
	s.Toasts.Success("Cargo salvo com sucesso!")
	redirect(c, "/configuracao-diarias")
}
