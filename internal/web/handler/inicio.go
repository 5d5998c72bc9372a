package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
	"github.com/camaramunicipal/prestacontas/internal/web/validation"
)

type inicioPage struct {
	Servidores     []domain.Servidor
	Presidentes    []domain.Presidente
	Cargos         []domain.Cargo
	ServidorForm   *validation.Form
	PresidenteForm *validation.Form
	ServidorID     int64
	PresidenteID   int64
	PrestacaoAtual int64
}

func servidorForm() *validation.Form {
	return validation.New(map[string]string{"nome": "", "cargo": ""}, map[string]validation.Rules{
		"nome":  {Required: true, MinLength: 2, MaxLength: 100},
		"cargo": {Required: true},
	})
}

func presidenteForm() *validation.Form {
	return validation.New(map[string]string{"nome": ""}, map[string]validation.Rules{
		"nome": {Required: true, MinLength: 2, MaxLength: 100},
	})
}

func (h *WizardHandler) Inicio(c *gin.Context) {
	page := &inicioPage{ServidorForm: servidorForm(), PresidenteForm: presidenteForm()}
	page.ServidorID, _ = strconv.ParseInt(c.Query("servidor_id"), 10, 64)
	page.PresidenteID, _ = strconv.ParseInt(c.Query("presidente_id"), 10, 64)
	h.renderInicio(c, http.StatusOK, page)
}

// renderInicio 并发加载三个列表后渲染
func (h *WizardHandler) renderInicio(c *gin.Context, status int, page *inicioPage) {
	api, s := h.client(c)
	page.PrestacaoAtual = s.PrestacaoID()

	var (
		servidores  []domain.Servidor
		presidentes []domain.Presidente
		cargos      []domain.Cargo
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		servidores, err = api.ListServidores(ctx)
		return err
	})
	g.Go(func() (err error) {
		presidentes, err = api.ListPresidentes(ctx)
		return err
	})
	g.Go(func() (err error) {
		cargos, err = api.ListCargos(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if h.loadFailed(c, s, err, "Erro ao carregar dados. Tente novamente.") {
			return
		}
	} else {
		page.Servidores, page.Presidentes, page.Cargos = servidores, presidentes, cargos
	}
	h.render(c, status, "inicio", "Início", page)
}

func (h *WizardHandler) CriarServidor(c *gin.Context) {
	api, s := h.client(c)
	form := servidorForm()
	form.Bind(postForm(c))

	if !form.ValidateAll() {
		s.Toasts.Error(msgCorrijaErros)
		h.renderInicio(c, http.StatusUnprocessableEntity, &inicioPage{ServidorForm: form, PresidenteForm: presidenteForm()})
		return
	}

	sv, err := api.CreateServidor(c.Request.Context(), form.Value("nome"), form.Value("cargo"))
	if err != nil {
		h.fail(c, s, err, "Erro ao cadastrar servidor. Tente novamente.", "/")
		return
	}
	s.Toasts.Success("Servidor cadastrado com sucesso!")
	redirect(c, fmt.Sprintf("/?servidor_id=%d", sv.ID))
}

func (h *WizardHandler) CriarPresidente(c *gin.Context) {
	api, s := h.client(c)
	form := presidenteForm()
	form.Bind(postForm(c))

	if !form.ValidateAll() {
		s.Toasts.Error(msgCorrijaErros)
		h.renderInicio(c, http.StatusUnprocessableEntity, &inicioPage{ServidorForm: servidorForm(), PresidenteForm: form})
		return
	}

	p, err := api.CreatePresidente(c.Request.Context(), form.Value("nome"))
	if err != nil {
		h.fail(c, s, err, "Erro ao cadastrar presidente. Tente novamente.", "/")
		return
	}
	s.Toasts.Success("Presidente cadastrado com sucesso!")
	redirect(c, fmt.Sprintf("/?presidente_id=%d", p.ID))
}

// IniciarPrestacao 创建报销单并记入会话
func (h *WizardHandler) IniciarPrestacao(c *gin.Context) {
	api, s := h.client(c)
	servidorID, okServidor := formID(c, "servidor_id")
	presidenteID, okPresidente := formID(c, "presidente_id")
	if !okServidor || !okPresidente {
		s.Toasts.Error("Por favor, selecione um servidor e um presidente.")
		redirect(c, "/")
		return
	}

	p, err := api.CreatePrestacao(c.Request.Context(), servidorID, presidenteID)
	if err != nil {
		if h.expired(c, s, err) {
			return
		}
		s.Toasts.Error("Erro ao iniciar prestação de contas: " + h.message(err, "tente novamente"))
		redirect(c, "/")
		return
	}
	s.SetPrestacaoID(p.ID)
	s.Toasts.Success("Prestação de contas iniciada!")
	redirect(c, "/adiantamentos")
}
