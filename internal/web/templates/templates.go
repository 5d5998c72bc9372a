// Package templates 向导页面的 HTML 模板（编译进二进制）
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/camaramunicipal/prestacontas/internal/platform/brl"
	"github.com/camaramunicipal/prestacontas/internal/prestacao/domain"
	"github.com/camaramunicipal/prestacontas/internal/web/validation"
)

//go:embed *.html
var files embed.FS

// Pages 每个页面与 layout 组合成独立的模板
var Pages = []string{
	"login", "inicio", "configuracao", "adiantamentos", "documentos", "passagens", "final",
}

// Field 渲染单个输入框
type Field struct {
	validation.FieldProps
	Label       string
	Type        string
	Placeholder string
	InputMode   string
}

var funcs = template.FuncMap{
	"brl":   brl.Format,
	"field": field,
	"brlNull": func(v decimal.NullDecimal) string {
		if !v.Valid {
			return "-"
		}
		return brl.Format(v.Decimal)
	},
	"data": func(d domain.Date) string {
		if d.IsZero() {
			return "-"
		}
		return d.BR()
	},
	"pct": func(f float64) string {
		return strconv.FormatFloat(f, 'f', 0, 64)
	},
}

// field kind: text | password | email | data | dinheiro | numero
func field(f *validation.Form, name, label, kind string) Field {
	out := Field{FieldProps: f.FieldProps(name), Label: label, Type: kind}
	switch kind {
	case "password":
		out.Value = ""
	case "data":
		out.Type = "text"
		out.Placeholder = "dd/mm/aaaa"
		out.InputMode = "numeric"
	case "dinheiro":
		out.Type = "text"
		out.Placeholder = "0,00"
		out.InputMode = "decimal"
	case "numero":
		out.Type = "number"
		out.InputMode = "numeric"
	}
	return out
}

type Renderer struct {
	pages map[string]*template.Template
}

// Load 解析全部页面，启动时调用
func Load() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}
	for _, name := range Pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
