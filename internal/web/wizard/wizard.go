// Package wizard 向导步骤、进度条和面包屑
package wizard

import "strings"

type Step int

const (
	Inicio Step = iota
	Adiantamentos
	Documentos
	Passagens
	Final
	// ConfiguracaoDiarias 旁路页面，不参与顺序
	ConfiguracaoDiarias
)

type stepInfo struct {
	path  string
	label string
}

var steps = map[Step]stepInfo{
	Inicio:              {"/", "Início"},
	Adiantamentos:       {"/adiantamentos", "Adiantamentos"},
	Documentos:          {"/documentos", "Documentos"},
	Passagens:           {"/passagens", "Passagens"},
	Final:               {"/final", "Finalização"},
	ConfiguracaoDiarias: {"/configuracao-diarias", "Configuração de Diárias"},
}

// Sequence 按顺序参与进度的步骤
var Sequence = []Step{Inicio, Adiantamentos, Documentos, Passagens, Final}

func (s Step) Path() string  { return steps[s].path }
func (s Step) Label() string { return steps[s].label }

// StepForPath 精确匹配；未知路径视为 Inicio
func StepForPath(path string) Step {
	s, _ := lookup(path)
	return s
}

// IndexForPath 在顺序步骤中的下标，未知或旁路页面为 0
func IndexForPath(path string) int {
	for i, s := range Sequence {
		if s.Path() == path {
			return i
		}
	}
	return 0
}

// Marker 进度条上单个步骤的状态
type Marker struct {
	Step      Step
	Label     string
	Completed bool
	Current   bool
}

type ProgressInfo struct {
	Index    int
	Total    int
	Fraction float64
	Hidden   bool
	Markers  []Marker
}

func Progress(path string) ProgressInfo {
	idx := IndexForPath(path)
	total := len(Sequence)
	p := ProgressInfo{
		Index:    idx,
		Total:    total,
		Fraction: float64(idx) / float64(total-1),
		Hidden:   path == ConfiguracaoDiarias.Path(),
	}
	for i, s := range Sequence {
		p.Markers = append(p.Markers, Marker{
			Step:      s,
			Label:     s.Label(),
			Completed: i < idx,
			Current:   i == idx,
		})
	}
	return p
}

// CompactInfo 移动端的精简进度
type CompactInfo struct {
	Label    string
	Position int
	Total    int
	Percent  float64
	Hidden   bool
}

func Compact(path string) CompactInfo {
	idx := IndexForPath(path)
	total := len(Sequence)
	return CompactInfo{
		Label:    Sequence[idx].Label(),
		Position: idx + 1,
		Total:    total,
		Percent:  float64(idx+1) / float64(total) * 100,
		Hidden:   path == ConfiguracaoDiarias.Path(),
	}
}

type Crumb struct {
	Label   string
	Href    string // 当前页为空
	Current bool
}

// Breadcrumbs 首项总是 Início；逐段累积路径，只收录已知路由；首页返回 nil
func Breadcrumbs(path string) []Crumb {
	if path == "/" || path == "" {
		return nil
	}
	crumbs := []Crumb{{Label: Inicio.Label(), Href: "/"}}

	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	current := ""
	for i, seg := range segments {
		current += "/" + seg
		s, ok := lookup(current)
		if !ok {
			continue
		}
		last := i == len(segments)-1
		c := Crumb{Label: s.Label(), Current: last}
		if !last {
			c.Href = current
		}
		crumbs = append(crumbs, c)
	}
	return crumbs
}

func lookup(path string) (Step, bool) {
	for s, info := range steps {
		if info.path == path {
			return s, true
		}
	}
	return Inicio, false
}

// Next 顺序中的下一步；最后一步和旁路页面返回自身
func Next(s Step) Step {
	for i, seq := range Sequence {
		if seq == s && i+1 < len(Sequence) {
			return Sequence[i+1]
		}
	}
	return s
}

// Prev 顺序中的上一步；旁路页面返回 Inicio
func Prev(s Step) Step {
	if s == ConfiguracaoDiarias {
		return Inicio
	}
	for i, seq := range Sequence {
		if seq == s && i > 0 {
			return Sequence[i-1]
		}
	}
	return s
}
