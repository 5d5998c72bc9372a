package api

import (
	"github.com/shopspring/decimal"

	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

// ==========================================
// 请求 DTO (JSON 字段名与前端保持一致)
// ==========================================

type CreateServidorReq struct {
	Nome  string `json:"nome" binding:"required,max=200"`
	Cargo string `json:"cargo" binding:"required,max=100"`
}

type CreatePresidenteReq struct {
	Nome string `json:"nome" binding:"required,max=200"`
}

type CreateCargoReq struct {
	NomeCargo               string          `json:"nome_cargo" binding:"required,max=100"`
	ValorDiariaDentroEstado decimal.Decimal `json:"valor_diaria_dentro_estado"`
	ValorDiariaForaEstado   decimal.Decimal `json:"valor_diaria_fora_estado"`
}

// UpdateCargoReq 缺省字段保持原值
type UpdateCargoReq struct {
	NomeCargo               *string          `json:"nome_cargo"`
	ValorDiariaDentroEstado *decimal.Decimal `json:"valor_diaria_dentro_estado"`
	ValorDiariaForaEstado   *decimal.Decimal `json:"valor_diaria_fora_estado"`
}

type CreatePrestacaoReq struct {
	ServidorID   int64 `json:"servidor_id" binding:"required"`
	PresidenteID int64 `json:"presidente_id" binding:"required"`
}

type AdiantamentoReq struct {
	Tipo               string          `json:"tipo" binding:"required"`
	NumeroAdiantamento string          `json:"numero_adiantamento" binding:"required"`
	NumeroEmpenho      string          `json:"numero_empenho" binding:"required"`
	Valor              decimal.Decimal `json:"valor"`
	DataAdiantamento   domain.Date     `json:"data_adiantamento"`
}

type DespesaDiariaReq struct {
	DiariasDentroEstado   int `json:"diarias_dentro_estado" binding:"min=0"`
	RefeicoesDentroEstado int `json:"refeicoes_dentro_estado" binding:"min=0"`
	DiariasForaEstado     int `json:"diarias_fora_estado" binding:"min=0"`
	RefeicoesForaEstado   int `json:"refeicoes_fora_estado" binding:"min=0"`
}

type DocumentoReq struct {
	TipoDocumento string              `json:"tipo_documento" binding:"required"`
	Descricao     string              `json:"descricao" binding:"required"`
	DataDocumento domain.Date         `json:"data_documento"`
	Valor         decimal.NullDecimal `json:"valor"`
}

type PassagemReq struct {
	BPE        string          `json:"bpe" binding:"required"`
	Valor      decimal.Decimal `json:"valor"`
	TipoViagem string          `json:"tipo_viagem" binding:"required"`
}

// ErrorResp 所有错误响应的统一格式
type ErrorResp struct {
	Error string `json:"error"`
}

// orEmpty 列表接口总是返回 [] 而不是 null
func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
