// Package mask 输入掩码：9 数字，A 字母（转大写），* 任意字符，其余为字面量
package mask

import (
	"strings"
	"unicode"
)

func isDigit(c rune) bool  { return c >= '0' && c <= '9' }
func isLetter(c rune) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

// 常用掩码
const (
	CPF   = "999.999.999-99"
	CNPJ  = "99.999.999/9999-99"
	Phone = "(99) 99999-9999"
	CEP   = "99999-999"
	Date  = "99/99/9999"
	Time  = "99:99"
)

// Apply 按掩码格式化，遇到不匹配的字符即停止；value 用尽时结束，不补尾部字面量
func Apply(value, mask string) string {
	if value == "" || mask == "" {
		return value
	}
	in := []rune(value)
	var b strings.Builder
	vi := 0
	for _, m := range mask {
		if vi >= len(in) {
			break
		}
		c := in[vi]
		switch m {
		case '9':
			if !isDigit(c) {
				return b.String()
			}
			b.WriteRune(c)
			vi++
		case 'A':
			if !isLetter(c) {
				return b.String()
			}
			b.WriteRune(unicode.ToUpper(c))
			vi++
		case '*':
			b.WriteRune(c)
			vi++
		default:
			b.WriteRune(m)
		}
	}
	return b.String()
}

// Remove 去掉掩码字面量，只保留原始输入
func Remove(value, mask string) string {
	if value == "" || mask == "" {
		return value
	}
	m := []rune(mask)
	var b strings.Builder
	mi := 0
	for _, c := range value {
		if mi >= len(m) {
			break
		}
		switch m[mi] {
		case '9':
			if isDigit(c) {
				b.WriteRune(c)
				mi++
			}
		case 'A':
			if isLetter(c) {
				b.WriteRune(c)
				mi++
			}
		case '*':
			b.WriteRune(c)
			mi++
		default:
			if c == m[mi] {
				mi++
			}
		}
	}
	return b.String()
}

// Reformat 表单绑定时使用：丢掉掩码字面量和占位符不接受的字符，再重新套用。
// 已格式化和未格式化的输入结果相同
func Reformat(input, mask string) string {
	if input == "" || mask == "" {
		return input
	}
	var digits, letters, anyChar bool
	literal := map[rune]bool{}
	for _, m := range mask {
		switch m {
		case '9':
			digits = true
		case 'A':
			letters = true
		case '*':
			anyChar = true
		default:
			literal[m] = true
		}
	}
	var b strings.Builder
	for _, c := range input {
		switch {
		case literal[c]:
		case anyChar, digits && isDigit(c), letters && isLetter(c):
			b.WriteRune(c)
		}
	}
	return Apply(b.String(), mask)
}
