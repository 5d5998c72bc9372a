package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/shopspring/decimal"

	authdomain "github.com/camaramunicipal/prestacontas/internal/auth/domain"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

// ==========================================
// 请求体
// ==========================================

type CargoInput struct {
	NomeCargo               string          `json:"nome_cargo"`
	ValorDiariaDentroEstado decimal.Decimal `json:"valor_diaria_dentro_estado"`
	ValorDiariaForaEstado   decimal.Decimal `json:"valor_diaria_fora_estado"`
}

type AdiantamentoInput struct {
	Tipo               domain.TipoAdiantamento `json:"tipo"`
	NumeroAdiantamento string                  `json:"numero_adiantamento"`
	NumeroEmpenho      string                  `json:"numero_empenho"`
	Valor              decimal.Decimal         `json:"valor"`
	DataAdiantamento   domain.Date             `json:"data_adiantamento"`
}

type DespesaDiariaInput struct {
	DiariasDentroEstado   int `json:"diarias_dentro_estado"`
	RefeicoesDentroEstado int `json:"refeicoes_dentro_estado"`
	DiariasForaEstado     int `json:"diarias_fora_estado"`
	RefeicoesForaEstado   int `json:"refeicoes_fora_estado"`
}

type DocumentoInput struct {
	TipoDocumento domain.TipoDocumento `json:"tipo_documento"`
	Descricao     string               `json:"descricao"`
	DataDocumento domain.Date          `json:"data_documento"`
	Valor         decimal.NullDecimal  `json:"valor"`
}

type PassagemInput struct {
	BPE        string            `json:"bpe"`
	Valor      decimal.Decimal   `json:"valor"`
	TipoViagem domain.TipoViagem `json:"tipo_viagem"`
}

// LoginResult /auth/login 的响应
type LoginResult struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         *authdomain.User `json:"user"`
}

// ==========================================
// 认证
// ==========================================

// Login 成功后把令牌写入 TokenStore
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.doPublic(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.tokens.SetTokens(out.AccessToken, out.RefreshToken, out.User)
	return &out, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.doPublic(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
}

// Logout 通知后端后清空本地令牌；后端失败不影响登出
func (c *Client) Logout(ctx context.Context) {
	if c.tokens.AccessToken() != "" {
		if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
			c.logger.Debug("logout request failed")
		}
	}
	c.tokens.Clear()
}

func (c *Client) Me(ctx context.Context) (*authdomain.User, error) {
	var u authdomain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ==========================================
// 基础数据
// ==========================================

func (c *Client) ListServidores(ctx context.Context) ([]domain.Servidor, error) {
	var out []domain.Servidor
	err := c.do(ctx, http.MethodGet, "/servidores", nil, &out)
	return out, err
}

func (c *Client) CreateServidor(ctx context.Context, nome, cargo string) (*domain.Servidor, error) {
	var out domain.Servidor
	err := c.do(ctx, http.MethodPost, "/servidores", map[string]string{"nome": nome, "cargo": cargo}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPresidentes(ctx context.Context) ([]domain.Presidente, error) {
	var out []domain.Presidente
	err := c.do(ctx, http.MethodGet, "/presidentes", nil, &out)
	return out, err
}

func (c *Client) CreatePresidente(ctx context.Context, nome string) (*domain.Presidente, error) {
	var out domain.Presidente
	if err := c.do(ctx, http.MethodPost, "/presidentes", map[string]string{"nome": nome}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCargos(ctx context.Context) ([]domain.Cargo, error) {
	var out []domain.Cargo
	err := c.do(ctx, http.MethodGet, "/cargos", nil, &out)
	return out, err
}

func (c *Client) CreateCargo(ctx context.Context, in CargoInput) (*domain.Cargo, error) {
	var out domain.Cargo
	if err := c.do(ctx, http.MethodPost, "/cargos", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCargo(ctx context.Context, id int64, in CargoInput) (*domain.Cargo, error) {
	var out domain.Cargo
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cargos/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ==========================================
// 报销单
// ==========================================

func (c *Client) CreatePrestacao(ctx context.Context, servidorID, presidenteID int64) (*domain.Prestacao, error) {
	var out domain.Prestacao
	err := c.do(ctx, http.MethodPost, "/prestacoes", map[string]int64{
		"servidor_id":   servidorID,
		"presidente_id": presidenteID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPrestacao(ctx context.Context, id int64) (*domain.Prestacao, error) {
	var out domain.Prestacao
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prestacoes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAdiantamentos(ctx context.Context, prestacaoID int64) ([]domain.Adiantamento, error) {
	var out []domain.Adiantamento
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prestacoes/%d/adiantamentos", prestacaoID), nil, &out)
	return out, err
}

func (c *Client) SaveAdiantamento(ctx context.Context, prestacaoID int64, in AdiantamentoInput) (*domain.Adiantamento, error) {
	var out domain.Adiantamento
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/prestacoes/%d/adiantamentos", prestacaoID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDespesaDiaria 尚未登记时返回 nil, nil
func (c *Client) GetDespesaDiaria(ctx context.Context, prestacaoID int64) (*domain.DespesaDiaria, error) {
	var out domain.DespesaDiaria
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prestacoes/%d/despesas-diarias", prestacaoID), nil, &out)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveDespesaDiaria PUT 是 upsert
func (c *Client) SaveDespesaDiaria(ctx context.Context, prestacaoID int64, in DespesaDiariaInput) (*domain.DespesaDiaria, error) {
	var out domain.DespesaDiaria
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/prestacoes/%d/despesas-diarias", prestacaoID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CalcularTotais(ctx context.Context, prestacaoID int64) (*domain.Totais, error) {
	var out domain.Totais
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prestacoes/%d/calcular-totais", prestacaoID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerificarEtapa(ctx context.Context, prestacaoID int64, etapa domain.Etapa) (domain.Verificacao, error) {
	var out domain.Verificacao
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prestacoes/%d/etapas/%s/verificar", prestacaoID, etapa), nil, &out)
	return out, err
}

func (c *Client) ListDocumentos(ctx context.Context, prestacaoID int64) ([]domain.Documento, error) {
	var out []domain.Documento
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prestacoes/%d/documentos", prestacaoID), nil, &out)
	return out, err
}

func (c *Client) CreateDocumento(ctx context.Context, prestacaoID int64, in DocumentoInput) (*domain.Documento, error) {
	var out domain.Documento
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/prestacoes/%d/documentos", prestacaoID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDocumento(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/documentos/%d", id), nil, nil)
}

func (c *Client) ListPassagens(ctx context.Context, prestacaoID int64) ([]domain.DespesaPassagem, error) {
	var out []domain.DespesaPassagem
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prestacoes/%d/despesas-passagens", prestacaoID), nil, &out)
	return out, err
}

func (c *Client) CreatePassagem(ctx context.Context, prestacaoID int64, in PassagemInput) (*domain.DespesaPassagem, error) {
	var out domain.DespesaPassagem
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/prestacoes/%d/despesas-passagens", prestacaoID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePassagem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/despesas-passagens/%d", id), nil, nil)
}

// DownloadPDF 返回文件名与内容
func (c *Client) DownloadPDF(ctx context.Context, prestacaoID int64, tipo domain.TipoRelatorio) (string, []byte, error) {
	resp, err := c.doRaw(ctx, http.MethodGet, fmt.Sprintf("/prestacoes/%d/pdf/%s", prestacaoID, tipo), nil)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if err := decode(resp, nil); err != nil {
		return "", nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read pdf: %w", err)
	}
	filename := fmt.Sprintf("prestacao_%d_%s.pdf", prestacaoID, tipo)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return filename, data, nil
}
