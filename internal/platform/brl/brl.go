// Package brl 巴西雷亚尔金额的格式化与解析
package brl

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Number 1234.5 -> "1.234,50"
func Number(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("%v", number.Decimal(f, number.Scale(2)))
}

// Format 1234.5 -> "R$ 1.234,50"
func Format(d decimal.Decimal) string {
	return "R$ " + Number(d)
}

// Parse 接受 "1.234,56"、"1234,56"、"1234.56" 与可选的 "R$" 前缀
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("valor vazio")
	}
	if strings.Contains(s, ",") {
		// vírgula decimal: pontos são separadores de milhar
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor inválido %q", s)
	}
	return d, nil
}
