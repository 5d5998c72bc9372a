// Package apiclient 向导页面调用 REST 接口的 HTTP 客户端
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	authdomain "github.com/camaramunicipal/prestacontas/internal/auth/domain"
)

// ErrSessionExpired 刷新失败或重试后仍然 401，调用方应跳转登录页
var ErrSessionExpired = errors.New("sessão expirada")

// APIError 后端返回的非 2xx 响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return e.Message
}

// IsStatus 判断 err 是否是指定状态码的 APIError
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// TokenStore 令牌与当前用户的存放位置（Web 会话）
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string)
	SetTokens(access, refresh string, user *authdomain.User)
	Clear()
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  *zap.Logger
}

// New baseURL 例如 http://127.0.0.1:5000/api
func New(baseURL string, httpClient *http.Client, tokens TokenStore, logger *zap.Logger) *Client {
	if httpClient == nil {
		// 不设超时，请求随调用方的 context 取消
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
	}
}

// WithTokens 同一个底层连接池，换一个会话的令牌
func (c *Client) WithTokens(tokens TokenStore) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// do 带鉴权的请求：401 时最多刷新一次并重试一次
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.doRaw(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

// doRaw 返回成功的响应，调用方负责关闭 Body
func (c *Client) doRaw(ctx context.Context, method, path string, in any) (*http.Response, error) {
	body, err := encode(in)
	if err != nil {
		return nil, err
	}

	// 1. 首次请求
	resp, err := c.send(ctx, method, path, body, c.tokens.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	drain(resp)

	// 2. 刷新 access token
	access, err := c.refresh(ctx)
	if err != nil {
		c.expire(path, err)
		return nil, ErrSessionExpired
	}

	// 3. 只重试一次
	resp, err = c.send(ctx, method, path, body, access)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.expire(path, errors.New("unauthorized after refresh"))
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// doPublic 不附带令牌也不刷新（登录、注册）
func (c *Client) doPublic(ctx context.Context, method, path string, in, out any) error {
	body, err := encode(in)
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, method, path, body, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		return "", errors.New("no refresh token")
	}
	resp, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, refresh)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("refresh returned no token")
	}
	c.tokens.SetAccessToken(out.AccessToken)
	c.logger.Debug("access token refreshed")
	return out.AccessToken, nil
}

func (c *Client) expire(path string, cause error) {
	c.tokens.Clear()
	c.logger.Info("session expired", zap.String("path", path), zap.Error(cause))
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func encode(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return b, nil
}

// decode 非 2xx 转成 APIError，保留后端的 error 文本
func decode(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
}
