// Package validation 表单校验引擎：字段值、错误、touched 状态
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Rules 单个字段的校验规则，零值表示不校验
type Rules struct {
	Required       bool
	MinLength      int
	MaxLength      int
	Email          bool
	Pattern        *regexp.Regexp
	PatternMessage string
	// Custom 返回非空字符串即为错误信息，values 是表单当前全部值
	Custom func(value string, values map[string]string) string
}

// FieldProps 模板渲染一个输入框所需的属性
type FieldProps struct {
	Name            string
	Value           string
	Error           string
	AriaInvalid     bool
	AriaDescribedBy string
}

// Form 非并发安全，每个请求各自构造
type Form struct {
	initial map[string]string
	values  map[string]string
	errors  map[string]string
	touched map[string]bool
	rules   map[string]Rules
}

func New(initial map[string]string, rules map[string]Rules) *Form {
	f := &Form{
		initial: copyMap(initial),
		rules:   rules,
	}
	f.Reset()
	return f
}

// Validate 按 required → minLength → maxLength → email → pattern → custom 的顺序，返回第一个错误
func Validate(value string, r Rules, values map[string]string) string {
	if r.Required && strings.TrimSpace(value) == "" {
		return "Este campo é obrigatório"
	}
	// 只有空字符串才跳过其余规则，纯空格照常校验
	if value == "" {
		return ""
	}
	n := utf8.RuneCountInString(value)
	if r.MinLength > 0 && n < r.MinLength {
		return fmt.Sprintf("Deve ter pelo menos %d caracteres", r.MinLength)
	}
	if r.MaxLength > 0 && n > r.MaxLength {
		return fmt.Sprintf("Deve ter no máximo %d caracteres", r.MaxLength)
	}
	if r.Email && !emailPattern.MatchString(value) {
		return "Formato de email inválido"
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		if r.PatternMessage != "" {
			return r.PatternMessage
		}
		return "Formato inválido"
	}
	if r.Custom != nil {
		return r.Custom(value, values)
	}
	return ""
}

func (f *Form) validateField(name string) string {
	r, ok := f.rules[name]
	if !ok {
		return ""
	}
	msg := Validate(f.values[name], r, f.values)
	if msg == "" {
		delete(f.errors, name)
	} else {
		f.errors[name] = msg
	}
	return msg
}

// SetValue 字段已 touched 时立即重新校验
func (f *Form) SetValue(name, value string) {
	f.values[name] = value
	if f.touched[name] {
		f.validateField(name)
	}
}

func (f *Form) SetFieldTouched(name string) {
	f.touched[name] = true
	f.validateField(name)
}

// ValidateAll 校验所有带规则的字段并全部标记为 touched
func (f *Form) ValidateAll() bool {
	valid := true
	for name := range f.rules {
		f.touched[name] = true
		if f.validateField(name) != "" {
			valid = false
		}
	}
	return valid
}

func (f *Form) Reset() {
	f.values = copyMap(f.initial)
	f.errors = map[string]string{}
	f.touched = map[string]bool{}
}

func (f *Form) IsValid() bool { return len(f.errors) == 0 }

func (f *Form) Value(name string) string { return f.values[name] }

// Error 无论 touched 与否都返回当前错误
func (f *Form) Error(name string) string { return f.errors[name] }

// Errors 按字段名排序后的错误列表，用于汇总提示
func (f *Form) Errors() []string {
	names := make([]string, 0, len(f.errors))
	for name := range f.errors {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, f.errors[name])
	}
	return out
}

func (f *Form) Values() map[string]string { return copyMap(f.values) }

func (f *Form) FieldProps(name string) FieldProps {
	p := FieldProps{Name: name, Value: f.values[name]}
	if f.touched[name] {
		p.Error = f.errors[name]
	}
	if p.Error != "" {
		p.AriaInvalid = true
		p.AriaDescribedBy = name + "-error"
	}
	return p
}

// Bind 载入提交的表单值（只取已声明规则或初始值的字段）
func (f *Form) Bind(form url.Values) {
	for name := range f.fields() {
		if _, ok := form[name]; ok {
			f.SetValue(name, form.Get(name))
		}
	}
}

func (f *Form) fields() map[string]struct{} {
	names := make(map[string]struct{}, len(f.rules)+len(f.initial))
	for name := range f.rules {
		names[name] = struct{}{}
	}
	for name := range f.initial {
		names[name] = struct{}{}
	}
	return names
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
