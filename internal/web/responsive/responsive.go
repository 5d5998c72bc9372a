// Package responsive 按视口宽度分类断点（Tailwind 默认断点）
package responsive

import (
	"net/http"
	"strconv"
)

type Breakpoint string

const (
	XS  Breakpoint = "xs"
	SM  Breakpoint = "sm"
	MD  Breakpoint = "md"
	LG  Breakpoint = "lg"
	XL  Breakpoint = "xl"
	XXL Breakpoint = "2xl"
)

// 各断点的最小宽度（px）
const (
	WidthSM  = 640
	WidthMD  = 768
	WidthLG  = 1024
	WidthXL  = 1280
	Width2XL = 1536
)

// DefaultWidth 客户端没有提供宽度时按桌面处理
const DefaultWidth = WidthXL

// ViewportCookie 页面脚本写入的视口宽度 cookie
const ViewportCookie = "vw"

func Classify(width int) Breakpoint {
	switch {
	case width >= Width2XL:
		return XXL
	case width >= WidthXL:
		return XL
	case width >= WidthLG:
		return LG
	case width >= WidthMD:
		return MD
	case width >= WidthSM:
		return SM
	default:
		return XS
	}
}

type Info struct {
	Width      int
	Breakpoint Breakpoint
	IsMobile   bool
	IsTablet   bool
	IsDesktop  bool
}

func NewInfo(width int) Info {
	return Info{
		Width:      width,
		Breakpoint: Classify(width),
		IsMobile:   width < WidthMD,
		IsTablet:   width >= WidthMD && width < WidthLG,
		IsDesktop:  width >= WidthLG,
	}
}

// AtLeast 宽度不小于 b 的下限
func (i Info) AtLeast(b Breakpoint) bool {
	return i.Width >= floors[b]
}

var floors = map[Breakpoint]int{XS: 0, SM: WidthSM, MD: WidthMD, LG: WidthLG, XL: WidthXL, XXL: Width2XL}

// FromRequest 依次读取 Sec-CH-Viewport-Width、Viewport-Width 和 vw cookie
func FromRequest(r *http.Request) Info {
	for _, h := range []string{"Sec-CH-Viewport-Width", "Viewport-Width"} {
		if w, ok := parseWidth(r.Header.Get(h)); ok {
			return NewInfo(w)
		}
	}
	if c, err := r.Cookie(ViewportCookie); err == nil {
		if w, ok := parseWidth(c.Value); ok {
			return NewInfo(w)
		}
	}
	return NewInfo(DefaultWidth)
}

func parseWidth(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	w, err := strconv.Atoi(s)
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}
