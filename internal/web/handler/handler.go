// Package handler 向导页面：服务端渲染，通过 apiclient 调用 REST 接口
package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camaramunicipal/prestacontas/internal/apiclient"
	authdomain "github.com/camaramunicipal/prestacontas/internal/auth/domain"
	"github.com/camaramunicipal/prestacontas/internal/platform/config"
	"github.com/camaramunicipal/prestacontas/internal/web/responsive"
	"github.com/camaramunicipal/prestacontas/internal/web/session"
	"github.com/camaramunicipal/prestacontas/internal/web/templates"
	"github.com/camaramunicipal/prestacontas/internal/web/theme"
	"github.com/camaramunicipal/prestacontas/internal/web/toast"
	"github.com/camaramunicipal/prestacontas/internal/web/wizard"
)

// 通用提示
const (
	msgCorrijaErros  = "Por favor, corrija os erros no formulário"
	msgSessaoExpirou = "Sua sessão expirou. Faça login novamente."
)

type WizardHandler struct {
	api      *apiclient.Client
	sessions *session.Store
	pages    *templates.Renderer
	themeKey string
	theme    theme.Theme
	logger   *zap.Logger
}

// NewWizardHandler api 不带令牌，每个请求用会话的令牌派生
func NewWizardHandler(api *apiclient.Client, sessions *session.Store, pages *templates.Renderer, cfg config.WebConfig, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{
		api:      api,
		sessions: sessions,
		pages:    pages,
		themeKey: cfg.ThemeStorageKey,
		theme:    theme.Theme(cfg.DefaultTheme),
		logger:   logger,
	}
}

func (h *WizardHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("", h.sessions.Load())

	// 无需登录
	g.GET("/login", h.LoginPage)
	g.POST("/login", h.Login)
	g.POST("/registro", h.Registro)
	g.POST("/logout", h.Logout)
	g.POST("/tema", h.SetTheme)
	g.POST("/toasts/fechar", h.CloseToast)

	p := g.Group("", session.RequireAuth())
	{
		p.GET("/", h.Inicio)
		p.POST("/inicio/servidores", h.CriarServidor)
		p.POST("/inicio/presidentes", h.CriarPresidente)
		p.POST("/inicio/prestacao", h.IniciarPrestacao)

		p.GET("/configuracao-diarias", h.Configuracao)
		p.POST("/configuracao-diarias", h.SalvarCargo)

		p.GET("/adiantamentos", h.Adiantamentos)
		p.POST("/adiantamentos", h.SalvarAdiantamentos)

		p.GET("/documentos", h.Documentos)
		p.POST("/documentos", h.AdicionarDocumento)
		p.POST("/documentos/excluir", h.RemoverDocumento)
		p.POST("/documentos/avancar", h.AvancarDocumentos)

		p.GET("/passagens", h.Passagens)
		p.POST("/passagens", h.AdicionarPassagem)
		p.POST("/passagens/excluir", h.RemoverPassagem)
		p.POST("/passagens/avancar", h.AvancarPassagens)

		p.GET("/final", h.Final)
		p.GET("/final/pdf/:tipo", h.BaixarPDF)
		p.POST("/final/nova", h.NovaPrestacao)
	}
}

// ==========================================
// 渲染
// ==========================================

// view layout 模板的数据
type view struct {
	Title        string
	Path         string
	Bare         bool
	RootClass    string
	Theme        string
	Themes       []theme.Theme
	User         *authdomain.User
	Progress     wizard.ProgressInfo
	Compact      wizard.CompactInfo
	Crumbs       []wizard.Crumb
	Screen       responsive.Info
	Toasts       []toast.Toast
	SemPrestacao bool
	Page         any
}

func (h *WizardHandler) themes(c *gin.Context) *theme.Manager {
	return theme.NewManager(theme.NewCookieStore(c.Writer, c.Request), h.themeKey, h.theme)
}

func (h *WizardHandler) render(c *gin.Context, status int, page, title string, data any) {
	h.write(c, status, page, h.newView(c, page, title, data))
}

// renderSemPrestacao 没有选中报销单时的占位页
func (h *WizardHandler) renderSemPrestacao(c *gin.Context, page, title string) {
	v := h.newView(c, page, title, nil)
	v.SemPrestacao = true
	h.write(c, http.StatusOK, page, v)
}

func (h *WizardHandler) newView(c *gin.Context, page, title string, data any) view {
	path := c.Request.URL.Path
	tm := h.themes(c)
	v := view{
		Title:     title,
		Path:      path,
		Bare:      page == "login",
		RootClass: tm.RootClass(theme.PrefersDark(c.Request)),
		Theme:     string(tm.Theme()),
		Themes:    []theme.Theme{theme.Light, theme.Dark, theme.System},
		Progress:  wizard.Progress(path),
		Compact:   wizard.Compact(path),
		Crumbs:    wizard.Breadcrumbs(path),
		Screen:    responsive.FromRequest(c.Request),
		Page:      data,
	}
	if s := session.FromContext(c); s != nil {
		v.User = s.User()
		v.Toasts = s.Toasts.List()
	}
	return v
}

func (h *WizardHandler) write(c *gin.Context, status int, page string, v view) {
	var buf bytes.Buffer
	if err := h.pages.Render(&buf, page, v); err != nil {
		h.logger.Error("render failed", zap.String("page", page), zap.Error(err))
		c.String(http.StatusInternalServerError, "Erro ao renderizar a página")
		return
	}
	c.Header("Accept-CH", "Sec-CH-Prefers-Color-Scheme, Sec-CH-Viewport-Width")
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// ==========================================
// 辅助函数
// ==========================================

// client 使用当前会话令牌的 API 客户端
func (h *WizardHandler) client(c *gin.Context) (*apiclient.Client, *session.Session) {
	s := session.FromContext(c)
	return h.api.WithTokens(s), s
}

// expired 会话过期时跳转登录页，返回 true 表示已处理
func (h *WizardHandler) expired(c *gin.Context, s *session.Session, err error) bool {
	if !errors.Is(err, apiclient.ErrSessionExpired) {
		return false
	}
	s.Toasts.Warning(msgSessaoExpirou)
	c.Redirect(http.StatusSeeOther, session.LoginPath)
	return true
}

// message 优先使用后端返回的错误文本
func (h *WizardHandler) message(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr == nil {
		h.logger.Error("api call failed", zap.Error(err))
	}
	return fallback
}

// apiStatus 后端的状态码；网络错误视为 502
func apiStatus(err error) int {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

// fail POST 失败：toast 后回到 back
func (h *WizardHandler) fail(c *gin.Context, s *session.Session, err error, fallback, back string) {
	if h.expired(c, s, err) {
		return
	}
	s.Toasts.Error(h.message(err, fallback))
	c.Redirect(http.StatusSeeOther, back)
}

// loadFailed GET 加载失败：会话过期时跳转，否则 toast 后继续渲染
func (h *WizardHandler) loadFailed(c *gin.Context, s *session.Session, err error, fallback string) bool {
	if h.expired(c, s, err) {
		return true
	}
	s.Toasts.Error(h.message(err, fallback))
	return false
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

// localPath 只接受站内路径，防止开放重定向
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "/"
	}
	return p
}

func formID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.PostForm(name)), 10, 64)
	return id, err == nil && id > 0
}

// postForm 提交的表单字段
func postForm(c *gin.Context) url.Values {
	if err := c.Request.ParseForm(); err != nil {
		return url.Values{}
	}
	return c.Request.PostForm
}
