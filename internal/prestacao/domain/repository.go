package domain

import "context"

// CadastroRepository 基础数据仓储：公务员、主席、职务
type CadastroRepository interface {
	ListServidores(ctx context.Context) ([]Servidor, error)
	CreateServidor(ctx context.Context, s *Servidor) error
	FindServidor(ctx context.Context, id int64) (*Servidor, error)

	ListPresidentes(ctx context.Context) ([]Presidente, error)
	CreatePresidente(ctx context.Context, p *Presidente) error
	FindPresidente(ctx context.Context, id int64) (*Presidente, error)

	ListCargos(ctx context.Context) ([]Cargo, error)
	CreateCargo(ctx context.Context, c *Cargo) error
	FindCargo(ctx context.Context, id int64) (*Cargo, error)
	// FindCargoByNome 公务员只保存职务名称，计算补贴时按名称查找
	FindCargoByNome(ctx context.Context, nome string) (*Cargo, error)
	UpdateCargo(ctx context.Context, c *Cargo) error
}

// PrestacaoRepository 报销单及其子实体仓储
type PrestacaoRepository interface {
	Create(ctx context.Context, p *Prestacao) error
	// FindByID 预加载 Servidor 和 Presidente
	FindByID(ctx context.Context, id int64) (*Prestacao, error)

	ListAdiantamentos(ctx context.Context, prestacaoID int64) ([]Adiantamento, error)
	// SaveAdiantamento 同一报销单同一类型只保留一条（在事务中替换旧记录）
	SaveAdiantamento(ctx context.Context, a *Adiantamento) error

	FindDespesaDiaria(ctx context.Context, prestacaoID int64) (*DespesaDiaria, error)
	// SaveDespesaDiaria 不存在则创建，存在则覆盖
	SaveDespesaDiaria(ctx context.Context, d *DespesaDiaria) error

	ListDocumentos(ctx context.Context, prestacaoID int64) ([]Documento, error)
	CreateDocumento(ctx context.Context, d *Documento) error
	DeleteDocumento(ctx context.Context, id int64) error

	ListPassagens(ctx context.Context, prestacaoID int64) ([]DespesaPassagem, error)
	CreatePassagem(ctx context.Context, p *DespesaPassagem) error
	DeletePassagem(ctx context.Context, id int64) error
}
