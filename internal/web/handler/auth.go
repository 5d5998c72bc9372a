package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camaramunicipal/prestacontas/internal/web/session"
	"github.com/camaramunicipal/prestacontas/internal/web/theme"
	"github.com/camaramunicipal/prestacontas/internal/web/validation"
)

type loginPage struct {
	Modo    string // login | registro
	Form    *validation.Form
	Erro    string
	Sucesso string
}

func loginForm() *validation.Form {
	return validation.New(map[string]string{"username": "", "password": ""}, map[string]validation.Rules{
		"username": {Required: true},
		"password": {Required: true},
	})
}

func registroForm() *validation.Form {
	return validation.New(nil, map[string]validation.Rules{
		"username": {Required: true, MaxLength: 80},
		"email":    {Required: true, Email: true, MaxLength: 120},
		"password": {Required: true},
		"confirmPassword": {Required: true, Custom: func(v string, all map[string]string) string {
			if v != all["password"] {
				return "As senhas não coincidem"
			}
			return ""
		}},
	})
}

func (h *WizardHandler) LoginPage(c *gin.Context) {
	if s := session.FromContext(c); s.Authenticated() {
		redirect(c, "/")
		return
	}
	if c.Query("modo") == "registro" {
		h.render(c, http.StatusOK, "login", "Criar Conta", &loginPage{Modo: "registro", Form: registroForm()})
		return
	}
	h.render(c, http.StatusOK, "login", "Entrar", &loginPage{Modo: "login", Form: loginForm()})
}

func (h *WizardHandler) Login(c *gin.Context) {
	api, s := h.client(c)
	form := loginForm()
	form.Bind(postForm(c))
	page := &loginPage{Modo: "login", Form: form}

	if !form.ValidateAll() {
		h.render(c, http.StatusUnprocessableEntity, "login", "Entrar", page)
		return
	}

	if _, err := api.Login(c.Request.Context(), form.Value("username"), form.Value("password")); err != nil {
		page.Erro = h.message(err, "Erro ao processar solicitação")
		h.render(c, apiStatus(err), "login", "Entrar", page)
		return
	}

	s.Toasts.Success("Login realizado com sucesso!")
	redirect(c, "/")
}

func (h *WizardHandler) Registro(c *gin.Context) {
	api, _ := h.client(c)
	form := registroForm()
	form.Bind(postForm(c))
	page := &loginPage{Modo: "registro", Form: form}

	if !form.ValidateAll() {
		h.render(c, http.StatusUnprocessableEntity, "login", "Criar Conta", page)
		return
	}

	err := api.Register(c.Request.Context(), form.Value("username"), form.Value("email"), form.Value("password"))
	if err != nil {
		page.Erro = h.message(err, "Erro ao processar solicitação")
		h.render(c, apiStatus(err), "login", "Criar Conta", page)
		return
	}

	h.render(c, http.StatusOK, "login", "Entrar", &loginPage{
		Modo:    "login",
		Form:    loginForm(),
		Sucesso: "Conta criada com sucesso! Faça login para continuar.",
	})
}

func (h *WizardHandler) Logout(c *gin.Context) {
	api, _ := h.client(c)
	api.Logout(c.Request.Context())
	redirect(c, session.LoginPath)
}

// SetTheme 写入主题 cookie 后回到原页面
func (h *WizardHandler) SetTheme(c *gin.Context) {
	back := localPath(c.PostForm("voltar"))
	t, err := theme.Parse(c.PostForm("tema"))
	if err == nil {
		err = h.themes(c).SetTheme(t)
	}
	if err != nil {
		session.FromContext(c).Toasts.Error("Tema inválido")
	}
	redirect(c, back)
}

func (h *WizardHandler) CloseToast(c *gin.Context) {
	if id, ok := formID(c, "id"); ok {
		session.FromContext(c).Toasts.Remove(id)
	}
	redirect(c, localPath(c.PostForm("voltar")))
}
