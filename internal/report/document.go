package report

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

// compress 测试中关闭压缩以便检查文本内容
var compress = true

// document 对 gofpdf 的薄封装，统一字体、编码与版式
type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDocument() *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCompression(compress)
	pdf.AddPage()
	return &document{
		pdf: pdf,
		// 核心字体使用 cp1252，葡语重音字符需要转换
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *document) title(s string) {
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.MultiCell(0, 8, d.tr(s), "", "C", false)
	d.pdf.Ln(4)
}

func (d *document) subtitle(s string) {
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.MultiCell(0, 6, d.tr(s), "", "C", false)
	d.pdf.Ln(2)
}

func (d *document) text(s string) {
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.MultiCell(0, lineHeight, d.tr(s), "", "J", false)
	d.pdf.Ln(2)
}

// rich 支持 <b> 加粗
func (d *document) rich(s string) {
	d.pdf.SetFont("Helvetica", "", 10)
	html := d.pdf.HTMLBasicNew()
	html.Write(lineHeight, d.tr(s))
	d.pdf.Ln(lineHeight + 2)
}

func (d *document) center(s string) {
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(0, lineHeight, d.tr(s), "", 1, "C", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) space(h float64) {
	d.pdf.Ln(h)
}

func (d *document) signature(nome, papel string) {
	d.pdf.Ln(12)
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(0, lineHeight, assinatura, "", 1, "C", false, 0, "")
	d.pdf.CellFormat(0, lineHeight, d.tr(nome), "", 1, "C", false, 0, "")
	d.pdf.CellFormat(0, lineHeight, d.tr(papel), "", 1, "C", false, 0, "")
	d.pdf.Ln(4)
}

func (d *document) header(widths []float64, cols ...string) {
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(128, 128, 128)
	d.pdf.SetTextColor(255, 255, 255)
	for i, c := range cols {
		d.pdf.CellFormat(widths[i], 7, d.tr(c), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *document) row(widths []float64, cols ...string) {
	d.pdf.SetFont("Helvetica", "", 9)
	for i, c := range cols {
		align := "C"
		if i == 1 {
			align = "L"
		}
		d.pdf.CellFormat(widths[i], 6, d.tr(c), "1", 0, align, false, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) output(w io.Writer) error {
	return d.pdf.Output(w)
}
