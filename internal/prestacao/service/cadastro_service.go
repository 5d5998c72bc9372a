package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

// NovoServidor 创建公务员的输入
type NovoServidor struct {
	Nome  string
	Cargo string
}

// NovoCargo 创建职务的输入
type NovoCargo struct {
	NomeCargo               string
	ValorDiariaDentroEstado decimal.Decimal
	ValorDiariaForaEstado   decimal.Decimal
}

// AtualizaCargo 部分更新，nil 字段保持原值
type AtualizaCargo struct {
	NomeCargo               *string
	ValorDiariaDentroEstado *decimal.Decimal
	ValorDiariaForaEstado   *decimal.Decimal
}

// CadastroService 基础数据维护
type CadastroService struct {
	repo   domain.CadastroRepository
	logger *zap.Logger
}

func NewCadastroService(repo domain.CadastroRepository, logger *zap.Logger) *CadastroService {
	return &CadastroService{repo: repo, logger: logger}
}

func (s *CadastroService) ListServidores(ctx context.Context) ([]domain.Servidor, error) {
	return s.repo.ListServidores(ctx)
}

func (s *CadastroService) CreateServidor(ctx context.Context, req NovoServidor) (*domain.Servidor, error) {
	nome := strings.TrimSpace(req.Nome)
	cargo := strings.TrimSpace(req.Cargo)
	if nome == "" || cargo == "" {
		return nil, fmt.Errorf("%w: nome e cargo são obrigatórios", domain.ErrInvalidInput)
	}
	sv := &domain.Servidor{Nome: nome, Cargo: cargo}
	if err := s.repo.CreateServidor(ctx, sv); err != nil {
		return nil, err
	}
	s.logger.Info("servidor criado", zap.Int64("id", sv.ID))
	return sv, nil
}

func (s *CadastroService) ListPresidentes(ctx context.Context) ([]domain.Presidente, error) {
	return s.repo.ListPresidentes(ctx)
}

func (s *CadastroService) CreatePresidente(ctx context.Context, nome string) (*domain.Presidente, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", domain.ErrInvalidInput)
	}
	p := &domain.Presidente{Nome: nome}
	if err := s.repo.CreatePresidente(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("presidente criado", zap.Int64("id", p.ID))
	return p, nil
}

func (s *CadastroService) ListCargos(ctx context.Context) ([]domain.Cargo, error) {
	return s.repo.ListCargos(ctx)
}

func (s *CadastroService) CreateCargo(ctx context.Context, req NovoCargo) (*domain.Cargo, error) {
	c := &domain.Cargo{
		NomeCargo:               strings.TrimSpace(req.NomeCargo),
		ValorDiariaDentroEstado: req.ValorDiariaDentroEstado,
		ValorDiariaForaEstado:   req.ValorDiariaForaEstado,
	}
	if err := validarCargo(c); err != nil {
		return nil, err
	}

	// 职务名称唯一
	if _, err := s.repo.FindCargoByNome(ctx, c.NomeCargo); err == nil {
		return nil, fmt.Errorf("%w: cargo %q", domain.ErrConflict, c.NomeCargo)
	}

	if err := s.repo.CreateCargo(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("cargo criado", zap.Int64("id", c.ID), zap.String("nome", c.NomeCargo))
	return c, nil
}

// UpdateCargo 对应 PUT /cargos/:id
func (s *CadastroService) UpdateCargo(ctx context.Context, id int64, req AtualizaCargo) (*domain.Cargo, error) {
	c, err := s.repo.FindCargo(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.NomeCargo != nil {
		c.NomeCargo = strings.TrimSpace(*req.NomeCargo)
	}
	if req.ValorDiariaDentroEstado != nil {
		c.ValorDiariaDentroEstado = *req.ValorDiariaDentroEstado
	}
	if req.ValorDiariaForaEstado != nil {
		c.ValorDiariaForaEstado = *req.ValorDiariaForaEstado
	}
	if err := validarCargo(c); err != nil {
		return nil, err
	}
	if other, err := s.repo.FindCargoByNome(ctx, c.NomeCargo); err == nil && other.ID != c.ID {
		return nil, fmt.Errorf("%w: cargo %q", domain.ErrConflict, c.NomeCargo)
	}
	if err := s.repo.UpdateCargo(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("cargo atualizado", zap.Int64("id", c.ID))
	return c, nil
}

func validarCargo(c *domain.Cargo) error {
	if c.NomeCargo == "" {
		return fmt.Errorf("%w: nome do cargo é obrigatório", domain.ErrInvalidInput)
	}
	if c.ValorDiariaDentroEstado.IsNegative() || c.ValorDiariaForaEstado.IsNegative() {
		return fmt.Errorf("%w: valores de diária não podem ser negativos", domain.ErrInvalidInput)
	}
	return nil
}
