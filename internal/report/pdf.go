// Package report 生成报销单的 PDF 文档
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/camaramunicipal/prestacontas/internal/platform/brl"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
)

const (
	lineHeight = 5.0
	pageMargin = 20.0
	assinatura = "__________________________________________________"
)

// Generator 生成三种 PDF
type Generator struct {
	Municipio string
	Contadora string
}

func NewGenerator(municipio, contadora string) *Generator {
	return &Generator{Municipio: municipio, Contadora: contadora}
}

// FileName 下载文件名，空格替换为下划线
func FileName(tipo domain.TipoRelatorio, d *domain.Dossie) string {
	nome := "desconhecido"
	if d.Prestacao.Servidor != nil {
		nome = strings.ReplaceAll(d.Prestacao.Servidor.Nome, " ", "_")
	}
	switch tipo {
	case domain.RelatorioDiaria:
		return "prestacao_contas_diaria_" + nome + ".pdf"
	case domain.RelatorioPassagem:
		return "prestacao_contas_passagem_" + nome + ".pdf"
	default:
		return "parecer_tecnico_" + nome + ".pdf"
	}
}

// Generate 按类型写出 PDF
func (g *Generator) Generate(w io.Writer, tipo domain.TipoRelatorio, d *domain.Dossie) error {
	var doc *document
	var err error
	switch tipo {
	case domain.RelatorioDiaria:
		doc, err = g.diaria(d)
	case domain.RelatorioPassagem:
		doc = g.passagem(d)
	case domain.RelatorioParecer:
		doc = g.parecer(d)
	default:
		return fmt.Errorf("%w: Tipo de PDF inválido", domain.ErrInvalidInput)
	}
	if err != nil {
		return err
	}
	return doc.output(w)
}

// ==========================================
// 各类报表
// ==========================================

func (g *Generator) diaria(d *domain.Dossie) (*document, error) {
	a := d.AdiantamentoDiaria
	if a == nil {
		return nil, fmt.Errorf("%w: prestação sem adiantamento de diária", domain.ErrInvalidInput)
	}
	doc := newDocument()
	servidor := d.NomeServidor()
	local := g.localData(d)

	doc.title("PRESTAÇÃO DE CONTAS DE DIÁRIA")
	doc.rich(fmt.Sprintf(
		"O servidor <b>%s</b> em atendimento às exigências legais, vem proceder a Prestação de Contas da DIÁRIA "+
			"sob processo de Adiantamento Nº <b>%s</b> recebidos em <b>%s</b>, conforme Empenho número <b>%s</b>, "+
			"para o que junta a documentação das despesas efetuadas, e recolhimento conforme discriminação abaixo:",
		safe(servidor), safe(a.NumeroAdiantamento), a.DataAdiantamento.BR(), safe(a.NumeroEmpenho),
	))
	doc.space(6)

	// 1. 补贴明细
	widths := []float64{20, 80, 35, 35}
	doc.header(widths, "Qtd.", "Descrição", "Valor unitário", "Total")
	det := d.Totais.Detalhes
	if det == nil {
		det = &domain.Detalhes{}
	}
	itens := []struct {
		label string
		item  domain.ItemTotal
	}{
		{"Diária dentro do estado", det.DiariasDentroEstado},
		{"Diária fora do estado", det.DiariasForaEstado},
		{"Refeição dentro do estado", det.RefeicoesDentroEstado},
		{"Refeição fora do estado", det.RefeicoesForaEstado},
	}
	for _, it := range itens {
		doc.row(widths, fmt.Sprint(it.item.Quantidade), it.label, moeda(it.item.ValorUnitario), moeda(it.item.Total))
	}
	doc.row(widths, "", "Total geral", "", brl.Format(d.Totais.TotalGeral))
	doc.row(widths, "", "Adiantamento recebido", "", brl.Format(d.Totais.ValorAdiantamentoDiaria))
	doc.row(widths, "", "Diferença", "", brl.Format(d.Totais.Diferenca))
	doc.space(6)

	// 2. 凭证清单，至少 9 行
	doc.subtitle("DOCUMENTOS APRESENTADOS")
	widths = []float64{25, 110, 35}
	doc.header(widths, "DATA", "DESCRIÇÃO DOCUMENTO APRESENTADO", "REFERÊNCIA")
	for _, x := range d.Documentos {
		doc.row(widths, x.DataDocumento.BR(), x.Descricao, "Anexo")
	}
	for i := len(d.Documentos); i < 9; i++ {
		doc.row(widths, "", "", "")
	}
	doc.space(10)

	// 3. 签字栏
	doc.center(local)
	doc.signature(servidor, "Responsável pelo Adiantamento")

	doc.text("A Contadoria, analisando contabilmente a documentação apresentada, sugere a aceitação " +
		"da prestação de contas da diária, SE não houver sugestões de ajustes(abaixo).")
	doc.signature(g.Contadora, "Contadora")
	doc.center(local)
	doc.space(6)

	doc.subtitle("SUGESTÕES DE AJUSTES, SE HOUVER")
	doc.space(18)
	doc.subtitle("Remete a(o) Sr. Presidente da Câmara, para julgamento final")
	doc.rich(fmt.Sprintf(
		"Tendo em vista o Parecer Técnico da Contadoria, julgo boas as contas do(a) Sr.(a) <b>%s</b> "+
			"relativo a prestação de Contas da diária (acima).", safe(servidor)))
	doc.text("Remete-se à Contadoria para:")
	doc.subtitle("Baixa de responsabilidade.")
	doc.subtitle("Realizar as alterações sugeridas.")
	doc.signature(d.NomePresidente(), "Presidente da Câmara de Vereadores")
	doc.center(local)
	return doc, nil
}

func (g *Generator) passagem(d *domain.Dossie) *document {
	doc := newDocument()
	servidor := d.NomeServidor()
	doc.title("PRESTAÇÃO DE CONTAS DE ADIANTAMENTO")

	a := d.AdiantamentoPassagem
	if a == nil {
		doc.text("Não há adiantamento de passagem para esta prestação de contas.")
	} else {
		doc.rich(fmt.Sprintf(
			"O servidor <b>%s</b> em atendimento às exigências legais, vem proceder a Prestação de Contas do "+
				"Adiantamento número <b>%s</b>, <b>%s</b>, para o que junta a documentação comprobatória das "+
				"despesas efetuadas, e recolhimento conforme discriminação abaixo:",
			safe(servidor), safe(a.NumeroAdiantamento), a.DataAdiantamento.BR(),
		))
		doc.space(6)

		resumo := domain.ResumirPassagens(a, d.Passagens)
		widths := []float64{25, 75, 35, 35}
		doc.header(widths, "DATA", "DESCRIÇÃO", "DÉBITO/RECEBIDO", "CRÉDITO/COMPROVADO")
		doc.row(widths, a.DataAdiantamento.BR(), "Recebi conforme Empenho nº "+a.NumeroEmpenho, brl.Format(a.Valor), "")
		for _, p := range d.Passagens {
			doc.row(widths, "", fmt.Sprintf("Passagem %s - BPE: %s", p.TipoViagem, p.BPE), "", brl.Format(p.Valor))
		}
		for i := 0; i < 3; i++ {
			doc.row(widths, "", "", "", "")
		}
		devolver := ""
		if resumo.ValorADevolver.IsPositive() {
			devolver = brl.Format(resumo.ValorADevolver)
		}
		doc.row(widths, "", "KM Rodados - KM", "", "")
		doc.row(widths, "", "Anexo Notas de Combustível e Comprovantes", "", "")
		doc.row(widths, "", "Anulação empenho nº "+a.NumeroEmpenho, devolver, "")
		doc.row(widths, "", "", brl.Format(resumo.ValorAdiantamento), brl.Format(resumo.TotalPassagens))
	}

	doc.space(14)
	doc.center(g.localData(d))
	doc.signature(servidor, "Responsável pelo Adiantamento")
	return doc
}

func (g *Generator) parecer(d *domain.Dossie) *document {
	doc := newDocument()
	servidor := d.NomeServidor()
	presidente := d.NomePresidente()
	data := d.GeradoEm.Format("02/01/2006")

	doc.title("PREFEITURA MUNICIPAL DE " + strings.ToUpper(g.Municipio))
	doc.subtitle("SECRETARIA MUNICIPAL DE ADMINISTRAÇÃO, PLANEJAMENTO E FINANÇAS")
	doc.space(6)
	doc.text("A Contadoria, para o exame técnico em " + data)
	doc.signature("Secretário Municipal de Administração,", "Planejamento e Finanças")

	doc.title(`"PARECER TÉCNICO"`)
	numero, dataAdiantamento, valor := "", "", decimal.Zero
	if a := d.AdiantamentoDiaria; a != nil {
		numero, dataAdiantamento, valor = a.NumeroAdiantamento, a.DataAdiantamento.BR(), a.Valor
	}
	doc.rich(fmt.Sprintf(
		"A Contadoria, procedendo ao exame técnico de prestação de contas do(a) Sr.(a) <b>%s</b>, relativo ao "+
			"Adiantamento Nº <b>%s</b> de <b>%s</b> no valor de <b>%s</b> encontrou a documentação em perfeita "+
			"ordem quanto ao aspecto aritmético e legal das despesas efetuadas.",
		safe(servidor), safe(numero), dataAdiantamento, brl.Format(valor),
	))
	doc.text("À consideração Superior,")
	doc.space(6)
	doc.center("Contadoria Geral do Município, em " + data)
	doc.signature(g.Contadora, "Contadora")

	doc.text("Ao Sr. Presidente da Câmara de Vereadores, para julgamento, Secretaria Municipal de " +
		"Administração, Planejamento e Finanças em " + data)
	doc.title(`"TERMO DE JULGAMENTO"`)
	doc.rich(fmt.Sprintf(
		"Tendo em vista o Parecer Técnico da Contadoria, julgo boas as contas do(a) Sr.(a) <b>%s</b>, relativo "+
			"ao Adiantamento em epígrafe. Remeta-se à Contadoria, para a baixa da Responsabilidade.", safe(servidor)))
	doc.space(6)
	doc.center("Câmara de Vereadores, em " + data)
	doc.signature(presidente, "Presidente da Câmara de Vereadores")

	// 主席本人的报销单需要另一位委员会成员签字
	if presidente != "" && strings.EqualFold(servidor, presidente) {
		doc.signature("Membro da Mesa Diretora", "(Visto)")
	}
	return doc
}

func (g *Generator) localData(d *domain.Dossie) string {
	return fmt.Sprintf("%s, %s", g.Municipio, d.GeradoEm.Format("02/01/2006"))
}

func moeda(v decimal.Decimal) string {
	if v.IsZero() {
		return "-"
	}
	return brl.Format(v)
}

// safe 去掉会被 HTMLBasic 当成标签的字符
func safe(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}
