// Package toast 会话内的通知队列，到期自动移除
package toast

import (
	"sync"
	"time"
)

// DefaultDuration 未指定时长时的自动移除时间
const DefaultDuration = 5 * time.Second

type Type string

const (
	Success Type = "success"
	Error   Type = "error"
	Warning Type = "warning"
	Info    Type = "info"
)

// Toast Duration 为 0 表示不自动移除，负数表示使用默认时长
type Toast struct {
	ID       int64
	Type     Type
	Title    string
	Message  string
	Duration time.Duration
}

// Timer 可停止的定时器（time.Timer 满足）
type Timer interface {
	Stop() bool
}

// AfterFunc 定时器工厂，测试中可替换
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Manager 并发安全
type Manager struct {
	mu     sync.Mutex
	nextID int64
	toasts []Toast
	timers map[int64]Timer
	after  AfterFunc
	closed bool
}

func NewManager() *Manager {
	return NewManagerWithTimer(realAfterFunc)
}

func NewManagerWithTimer(after AfterFunc) *Manager {
	return &Manager{
		timers: make(map[int64]Timer),
		after:  after,
	}
}

// Add 追加通知并按需安排移除，返回通知 ID
func (m *Manager) Add(t Toast) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t.ID = m.nextID
	if t.Duration < 0 {
		t.Duration = DefaultDuration
	}
	m.toasts = append(m.toasts, t)

	if t.Duration != 0 && !m.closed {
		id := t.ID
		m.timers[id] = m.after(t.Duration, func() { m.Remove(id) })
	}
	return t.ID
}

func (m *Manager) Remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if timer, ok := m.timers[id]; ok {
		timer.Stop()
		delete(m.timers, id)
	}
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// List 当前通知的快照
func (m *Manager) List() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

func (m *Manager) Success(message string) int64 {
	return m.Add(Toast{Type: Success, Title: "Sucesso", Message: message, Duration: DefaultDuration})
}

func (m *Manager) Error(message string) int64 {
	return m.Add(Toast{Type: Error, Title: "Erro", Message: message, Duration: DefaultDuration})
}

func (m *Manager) Warning(message string) int64 {
	return m.Add(Toast{Type: Warning, Title: "Atenção", Message: message, Duration: DefaultDuration})
}

func (m *Manager) Info(message string) int64 {
	return m.Add(Toast{Type: Info, Title: "Informação", Message: message, Duration: DefaultDuration})
}

// Close 停止所有未触发的定时器，之后新增的通知不再自动移除
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, timer := range m.timers {
		timer.Stop()
		delete(m.timers, id)
	}
	m.closed = true
}
