package domain

import "github.com/shopspring/decimal"

// FatorRefeicao 每餐补贴 = 当日补贴标准的 15%
var FatorRefeicao = decimal.RequireFromString("0.15")

// ItemTotal 单项明细
type ItemTotal struct {
	Quantidade    int             `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	Total         decimal.Decimal `json:"total"`
}

// Detalhes 四类补贴的明细
type Detalhes struct {
	DiariasDentroEstado   ItemTotal `json:"diarias_dentro_estado"`
	DiariasForaEstado     ItemTotal `json:"diarias_fora_estado"`
	RefeicoesDentroEstado ItemTotal `json:"refeicoes_dentro_estado"`
	RefeicoesForaEstado   ItemTotal `json:"refeicoes_fora_estado"`
}

// Totais 补贴合计与预支款的差额
type Totais struct {
	TotalDiarias            decimal.Decimal `json:"total_diarias"`
	TotalRefeicoes          decimal.Decimal `json:"total_refeicoes"`
	TotalGeral              decimal.Decimal `json:"total_geral"`
	ValorAdiantamentoDiaria decimal.Decimal `json:"valor_adiantamento_diaria"`
	Diferenca               decimal.Decimal `json:"diferenca"` // 正数: 应补发；负数: 应退还
	Detalhes                *Detalhes       `json:"detalhes,omitempty"`
}

// CalcularTotais 纯函数，缺少职务或天数记录时返回全零（无明细）
func CalcularTotais(cargo *Cargo, despesa *DespesaDiaria, adiantamentoDiaria *Adiantamento) Totais {
	if cargo == nil || despesa == nil {
		return Totais{}
	}

	dentro := cargo.ValorDiariaDentroEstado
	fora := cargo.ValorDiariaForaEstado
	refeicaoDentro := dentro.Mul(FatorRefeicao)
	refeicaoFora := fora.Mul(FatorRefeicao)

	item := func(qtd int, unit decimal.Decimal) ItemTotal {
		return ItemTotal{
			Quantidade:    qtd,
			ValorUnitario: unit,
			Total:         unit.Mul(decimal.NewFromInt(int64(qtd))),
		}
	}

	det := Detalhes{
		DiariasDentroEstado:   item(despesa.DiariasDentroEstado, dentro),
		DiariasForaEstado:     item(despesa.DiariasForaEstado, fora),
		RefeicoesDentroEstado: item(despesa.RefeicoesDentroEstado, refeicaoDentro),
		RefeicoesForaEstado:   item(despesa.RefeicoesForaEstado, refeicaoFora),
	}

	totalDiarias := det.DiariasDentroEstado.Total.Add(det.DiariasForaEstado.Total)
	totalRefeicoes := det.RefeicoesDentroEstado.Total.Add(det.RefeicoesForaEstado.Total)
	totalGeral := totalDiarias.Add(totalRefeicoes)

	adiantado := decimal.Zero
	if adiantamentoDiaria != nil {
		adiantado = adiantamentoDiaria.Valor
	}

	return Totais{
		TotalDiarias:            totalDiarias,
		TotalRefeicoes:          totalRefeicoes,
		TotalGeral:              totalGeral,
		ValorAdiantamentoDiaria: adiantado,
		Diferenca:               totalGeral.Sub(adiantado),
		Detalhes:                &det,
	}
}

// ResumoPassagens 车票预支款核对
type ResumoPassagens struct {
	TotalPassagens    decimal.Decimal `json:"total_passagens"`
	ValorAdiantamento decimal.Decimal `json:"valor_adiantamento"`
	ValorADevolver    decimal.Decimal `json:"valor_a_devolver"`
}

// ResumirPassagens 应退还金额 = 预支款 - 车票合计
func ResumirPassagens(adiantamento *Adiantamento, passagens []DespesaPassagem) ResumoPassagens {
	total := decimal.Zero
	for _, p := range passagens {
		total = total.Add(p.Valor)
	}
	adiantado := decimal.Zero
	if adiantamento != nil {
		adiantado = adiantamento.Valor
	}
	return ResumoPassagens{
		TotalPassagens:    total,
		ValorAdiantamento: adiantado,
		ValorADevolver:    adiantado.Sub(total),
	}
}

// FindAdiantamento 返回指定类型的第一条预支款
func FindAdiantamento(list []Adiantamento, tipo TipoAdiantamento) *Adiantamento {
	for i := range list {
		if list[i].Tipo == tipo {
			return &list[i]
		}
	}
	return nil
}
