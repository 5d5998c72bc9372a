package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/camaramunicipal/prestacontas/internal/auth/domain"
)

// RegisterInput 注册 / 管理员创建用户
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateInput 空字段保持不变
type UpdateInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult 登录成功返回的令牌对
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type AuthService struct {
	repo       domain.UserRepository
	tokens     *TokenIssuer
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

func NewAuthService(repo domain.UserRepository, tokens *TokenIssuer, bcryptCost int, logger *zap.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Tokens 供 API 中间件校验 access token
func (s *AuthService) Tokens() *TokenIssuer {
	return s.tokens
}

// Register 用户名和邮箱都必须唯一
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.Fail(domain.ErrInvalidInput, "Username, email e password são obrigatórios")
	}
	if err := s.ensureUnique(ctx, 0, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Login 校验密码，成功后更新 last_login 并签发令牌对
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.Fail(domain.ErrInvalidInput, "Username e password são obrigatórios")
	}

	// 1. 用户不存在与密码错误返回同样的错误
	u, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Fail(domain.ErrUnauthorized, "Credenciais inválidas")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("login failed", zap.String("username", username))
		return nil, domain.Fail(domain.ErrUnauthorized, "Credenciais inválidas")
	}

	// 2. 停用账号
	if !u.IsActive {
		return nil, domain.Fail(domain.ErrForbidden, "Usuário desativado")
	}

	// 3. 记录登录时间
	now := s.now().UTC()
	u.LastLogin = &now
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	// 4. 签发令牌
	access, err := s.tokens.Issue(u, AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(u, RefreshToken)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", zap.Int64("user_id", u.ID))
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// Refresh 用 refresh token 换新的 access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	id, err := s.tokens.Parse(refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !u.IsActive {
		return "", domain.Fail(domain.ErrNotFound, "Usuário não encontrado ou desativado")
	}
	return s.tokens.Issue(u, AccessToken)
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.Fail(domain.ErrInvalidInput, "Senha antiga e nova senha são obrigatórias")
	}
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return domain.Fail(domain.ErrUnauthorized, "Senha antiga incorreta")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return s.repo.Update(ctx, u)
}

// ==========================================
// 用户管理
// ==========================================

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser 只能修改自己的账号
func (s *AuthService) UpdateUser(ctx context.Context, actorID, id int64, in UpdateInput) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != id {
		return nil, domain.Fail(domain.ErrForbidden, "Não autorizado a atualizar este usuário")
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		username = u.Username
	}
	if email == "" {
		email = u.Email
	}
	if err := s.ensureUnique(ctx, u.ID, username, email); err != nil {
		return nil, err
	}
	u.Username = username
	u.Email = email

	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser 只能删除自己的账号
func (s *AuthService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID != id {
		return domain.Fail(domain.ErrForbidden, "Não autorizado a deletar este usuário")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

// ensureUnique selfID 为 0 表示新用户
func (s *AuthService) ensureUnique(ctx context.Context, selfID int64, username, email string) error {
	if u, err := s.repo.FindByUsername(ctx, username); err == nil && u.ID != selfID {
		return domain.Fail(domain.ErrConflict, "Username já está em uso")
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if u, err := s.repo.FindByEmail(ctx, email); err == nil && u.ID != selfID {
		return domain.Fail(domain.ErrConflict, "Email já está em uso")
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}
