package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// 金额在 JSON 中保持数字格式（与前端约定一致），内部仍使用 decimal 防止精度丢失
	decimal.MarshalJSONWithoutQuotes = true
}

// Servidor 公务员
// 对应数据库表: servidores
type Servidor struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Nome  string `gorm:"type:varchar(200);not null;index" json:"nome"`
	Cargo string `gorm:"type:varchar(100);not null;index" json:"cargo"` // 职务名称，对应 Cargo.NomeCargo
}

func (Servidor) TableName() string {
	return "servidores"
}

// Cargo 职务及其日补贴标准
type Cargo struct {
	ID                      int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	NomeCargo               string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"nome_cargo"`
	ValorDiariaDentroEstado decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"valor_diaria_dentro_estado"`
	ValorDiariaForaEstado   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"valor_diaria_fora_estado"`
}

func (Cargo) TableName() string {
	return "cargos"
}

// Presidente 议会主席（审批人）
type Presidente struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Nome string `gorm:"type:varchar(200);not null" json:"nome"`
}

func (Presidente) TableName() string {
	return "presidentes"
}

// Prestacao 报销单聚合根，后续所有步骤都通过它的 ID 关联
type Prestacao struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ServidorID   int64     `gorm:"not null;index" json:"servidor_id"`
	PresidenteID int64     `gorm:"not null;index" json:"presidente_id"`
	DataCriacao  time.Time `gorm:"index" json:"data_criacao"`

	Servidor   *Servidor   `gorm:"foreignKey:ServidorID" json:"servidor"`
	Presidente *Presidente `gorm:"foreignKey:PresidenteID" json:"presidente"`
}

func (Prestacao) TableName() string {
	return "prestacoes_contas"
}

// Adiantamento 出差前的预支款（日补贴或车票）
type Adiantamento struct {
	ID                 int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	PrestacaoID        int64            `gorm:"not null;index" json:"prestacao_id"`
	Tipo               TipoAdiantamento `gorm:"type:varchar(20);not null;index" json:"tipo"`
	NumeroAdiantamento string           `gorm:"type:varchar(50);not null" json:"numero_adiantamento"`
	NumeroEmpenho      string           `gorm:"type:varchar(50);not null" json:"numero_empenho"`
	Valor              decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"valor"`
	DataAdiantamento   Date             `gorm:"type:date" json:"data_adiantamento"`
}

func (Adiantamento) TableName() string {
	return "adiantamentos"
}

// DespesaDiaria 日补贴天数与餐数，每个报销单最多一条
type DespesaDiaria struct {
	ID                    int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PrestacaoID           int64 `gorm:"not null;uniqueIndex" json:"prestacao_id"`
	DiariasDentroEstado   int   `gorm:"not null;default:0" json:"diarias_dentro_estado"`
	RefeicoesDentroEstado int   `gorm:"not null;default:0" json:"refeicoes_dentro_estado"`
	DiariasForaEstado     int   `gorm:"not null;default:0" json:"diarias_fora_estado"`
	RefeicoesForaEstado   int   `gorm:"not null;default:0" json:"refeicoes_fora_estado"`
}

func (DespesaDiaria) TableName() string {
	return "despesas_diarias"
}

// Documento 报销凭证
type Documento struct {
	ID            int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	PrestacaoID   int64               `gorm:"not null;index" json:"prestacao_id"`
	TipoDocumento TipoDocumento       `gorm:"type:varchar(50);not null;index" json:"tipo_documento"`
	Descricao     string              `gorm:"type:text;not null" json:"descricao"`
	DataDocumento Date                `gorm:"type:date" json:"data_documento"`
	Valor         decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"valor"`
}

func (Documento) TableName() string {
	return "documentos_comprovacao"
}

// DespesaPassagem 车票支出
type DespesaPassagem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	PrestacaoID int64           `gorm:"not null;index" json:"prestacao_id"`
	BPE         string          `gorm:"column:bpe;type:varchar(50);not null" json:"bpe"` // 电子车票编号
	Valor       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"valor"`
	TipoViagem  TipoViagem      `gorm:"type:varchar(10);not null" json:"tipo_viagem"`
}

func (DespesaPassagem) TableName() string {
	return "despesas_passagens"
}
