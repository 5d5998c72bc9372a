package domain

// TipoAdiantamento 预支款类型
type TipoAdiantamento string

const (
	AdiantamentoDiaria   TipoAdiantamento = "diaria"
	AdiantamentoPassagem TipoAdiantamento = "passagem"
)

// IsValid 校验类型合法性
func (t TipoAdiantamento) IsValid() bool {
	return t == AdiantamentoDiaria || t == AdiantamentoPassagem
}

// TipoDocumento 凭证类型（固定枚举）
type TipoDocumento string

const (
	DocNotaFiscal  TipoDocumento = "nota_fiscal"
	DocNotaHotel   TipoDocumento = "nota_hotel"
	DocCurso       TipoDocumento = "curso"
	DocCertificado TipoDocumento = "certificado"
	DocRelatorio   TipoDocumento = "relatorio"
	DocAtestado    TipoDocumento = "atestado"
	DocOutros      TipoDocumento = "outros"
)

// TiposDocumento 按界面展示顺序排列
var TiposDocumento = []TipoDocumento{
	DocNotaFiscal, DocNotaHotel, DocCurso, DocCertificado, DocRelatorio, DocAtestado, DocOutros,
}

var tipoDocumentoLabels = map[TipoDocumento]string{
	DocNotaFiscal:  "Nota Fiscal",
	DocNotaHotel:   "Nota de Hotel",
	DocCurso:       "Nota de Curso",
	DocCertificado: "Certificado",
	DocRelatorio:   "Relatório de Viagem",
	DocAtestado:    "Atestado de Presença",
	DocOutros:      "Outros",
}

func (t TipoDocumento) IsValid() bool {
	_, ok := tipoDocumentoLabels[t]
	return ok
}

// Label 未知类型原样返回
func (t TipoDocumento) Label() string {
	if l, ok := tipoDocumentoLabels[t]; ok {
		return l
	}
	return string(t)
}

// TipoViagem 行程方向
type TipoViagem string

const (
	ViagemIda   TipoViagem = "ida"
	ViagemVolta TipoViagem = "volta"
)

func (t TipoViagem) IsValid() bool {
	return t == ViagemIda || t == ViagemVolta
}

// TipoRelatorio 可生成的 PDF 类型
type TipoRelatorio string

const (
	RelatorioDiaria   TipoRelatorio = "diaria"
	RelatorioPassagem TipoRelatorio = "passagem"
	RelatorioParecer  TipoRelatorio = "parecer"
)

func (t TipoRelatorio) IsValid() bool {
	return t == RelatorioDiaria || t == RelatorioPassagem || t == RelatorioParecer
}

// Etapa 需要校验的向导步骤
type Etapa string

const (
	EtapaAdiantamentos Etapa = "adiantamentos"
	EtapaDocumentos    Etapa = "documentos"
	EtapaPassagens     Etapa = "passagens"
)

func (e Etapa) IsValid() bool {
	return e == EtapaAdiantamentos || e == EtapaDocumentos || e == EtapaPassagens
}
