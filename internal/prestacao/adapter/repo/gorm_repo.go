package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

// Migrate 建表（SQLite / PostgreSQL 通用）
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&domain.Servidor{},
		&domain.Cargo{},
		&domain.Presidente{},
		&domain.Prestacao{},
		&domain.Adiantamento{},
		&domain.DespesaDiaria{},
		&domain.Documento{},
		&domain.DespesaPassagem{},
	)
}

// notFound 把 gorm 的 ErrRecordNotFound 转成领域错误
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// ---------------------------------------------------------

type GormCadastroRepo struct {
	db *gorm.DB
}

func NewCadastroRepo(db *gorm.DB) *GormCadastroRepo {
	return &GormCadastroRepo{db: db}
}

func (r *GormCadastroRepo) ListServidores(ctx context.Context) ([]domain.Servidor, error) {
	var list []domain.Servidor
	err := r.db.WithContext(ctx).Order("nome").Find(&list).Error
	return list, err
}

func (r *GormCadastroRepo) CreateServidor(ctx context.Context, s *domain.Servidor) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *GormCadastroRepo) FindServidor(ctx context.Context, id int64) (*domain.Servidor, error) {
	var s domain.Servidor
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, "servidor")
	}
	return &s, nil
}

func (r *GormCadastroRepo) ListPresidentes(ctx context.Context) ([]domain.Presidente, error) {
	var list []domain.Presidente
	err := r.db.WithContext(ctx).Order("nome").Find(&list).Error
	return list, err
}

func (r *GormCadastroRepo) CreatePresidente(ctx context.Context, p *domain.Presidente) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormCadastroRepo) FindPresidente(ctx context.Context, id int64) (*domain.Presidente, error) {
	var p domain.Presidente
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "presidente")
	}
	return &p, nil
}

func (r *GormCadastroRepo) ListCargos(ctx context.Context) ([]domain.Cargo, error) {
	var list []domain.Cargo
	err := r.db.WithContext(ctx).Order("nome_cargo").Find(&list).Error
	return list, err
}

func (r *GormCadastroRepo) CreateCargo(ctx context.Context, c *domain.Cargo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormCadastroRepo) FindCargo(ctx context.Context, id int64) (*domain.Cargo, error) {
	var c domain.Cargo
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "cargo")
	}
	return &c, nil
}

func (r *GormCadastroRepo) FindCargoByNome(ctx context.Context, nome string) (*domain.Cargo, error) {
	var c domain.Cargo
	if err := r.db.WithContext(ctx).Where("nome_cargo = ?", nome).First(&c).Error; err != nil {
		return nil, notFound(err, "cargo")
	}
	return &c, nil
}

// UpdateCargo 全字段覆盖
func (r *GormCadastroRepo) UpdateCargo(ctx context.Context, c *domain.Cargo) error {
	result := r.db.WithContext(ctx).Model(&domain.Cargo{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"nome_cargo":                 c.NomeCargo,
			"valor_diaria_dentro_estado": c.ValorDiariaDentroEstado,
			"valor_diaria_fora_estado":   c.ValorDiariaForaEstado,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cargo %d: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------

type GormPrestacaoRepo struct {
	db *gorm.DB
}

func NewPrestacaoRepo(db *gorm.DB) *GormPrestacaoRepo {
	return &GormPrestacaoRepo{db: db}
}

func (r *GormPrestacaoRepo) Create(ctx context.Context, p *domain.Prestacao) error {
	// 只插入主表，关联对象由 FindByID 重新加载
	return r.db.WithContext(ctx).Omit("Servidor", "Presidente").Create(p).Error
}

func (r *GormPrestacaoRepo) FindByID(ctx context.Context, id int64) (*domain.Prestacao, error) {
	var p domain.Prestacao
	err := r.db.WithContext(ctx).
		Preload("Servidor").
		Preload("Presidente").
		First(&p, id).Error
	if err != nil {
		return nil, notFound(err, "prestação")
	}
	return &p, nil
}

func (r *GormPrestacaoRepo) ListAdiantamentos(ctx context.Context, prestacaoID int64) ([]domain.Adiantamento, error) {
	var list []domain.Adiantamento
	err := r.db.WithContext(ctx).Where("prestacao_id = ?", prestacaoID).Order("id").Find(&list).Error
	return list, err
}

// SaveAdiantamento 删除同类型旧记录后插入，保证每种类型只有一条
func (r *GormPrestacaoRepo) SaveAdiantamento(ctx context.Context, a *domain.Adiantamento) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prestacao_id = ? AND tipo = ?", a.PrestacaoID, a.Tipo).
			Delete(&domain.Adiantamento{}).Error; err != nil {
			return err
		}
		a.ID = 0
		return tx.Create(a).Error
	})
}

func (r *GormPrestacaoRepo) FindDespesaDiaria(ctx context.Context, prestacaoID int64) (*domain.DespesaDiaria, error) {
	var d domain.DespesaDiaria
	if err := r.db.WithContext(ctx).Where("prestacao_id = ?", prestacaoID).First(&d).Error; err != nil {
		return nil, notFound(err, "despesa diária")
	}
	return &d, nil
}

func (r *GormPrestacaoRepo) SaveDespesaDiaria(ctx context.Context, d *domain.DespesaDiaria) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.DespesaDiaria
		err := tx.Where("prestacao_id = ?", d.PrestacaoID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			d.ID = 0
			return tx.Create(d).Error
		case err != nil:
			return err
		}
		d.ID = existing.ID
		// Save 会写入零值字段（Updates 不会）
		return tx.Save(d).Error
	})
}

func (r *GormPrestacaoRepo) ListDocumentos(ctx context.Context, prestacaoID int64) ([]domain.Documento, error) {
	var list []domain.Documento
	err := r.db.WithContext(ctx).Where("prestacao_id = ?", prestacaoID).Order("id").Find(&list).Error
	return list, err
}

func (r *GormPrestacaoRepo) CreateDocumento(ctx context.Context, d *domain.Documento) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *GormPrestacaoRepo) DeleteDocumento(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Documento{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("documento %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *GormPrestacaoRepo) ListPassagens(ctx context.Context, prestacaoID int64) ([]domain.DespesaPassagem, error) {
	var list []domain.DespesaPassagem
	err := r.db.WithContext(ctx).Where("prestacao_id = ?", prestacaoID).Order("id").Find(&list).Error
	return list, err
}

func (r *GormPrestacaoRepo) CreatePassagem(ctx context.Context, p *domain.DespesaPassagem) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormPrestacaoRepo) DeletePassagem(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.DespesaPassagem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("despesa de passagem %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
