package toast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock 记录安排的回调，由测试手动触发
type fakeClock struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.pending = append(c.pending, t)
	return t
}

// advance 触发所有时长不超过 d 且未停止的定时器
func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.pending {
		if !t.stopped && t.d <= d {
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func TestManager_DefaultToastRemovedAfterFiveSeconds(t *testing.T) {
	clock := &fakeClock{}
	m := NewManagerWithTimer(clock.AfterFunc)

	id := m.Success("Prestação criada")
	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "Sucesso", list[0].Title)
	assert.Equal(t, Success, list[0].Type)

	require.Len(t, clock.pending, 1)
	assert.Equal(t, DefaultDuration, clock.pending[0].d)

	clock.advance(4 * time.Second)
	assert.Len(t, m.List(), 1)
	clock.advance(DefaultDuration)
	assert.Empty(t, m.List())
}

func TestManager_ZeroDurationNeverRemoved(t *testing.T) {
	clock := &fakeClock{}
	m := NewManagerWithTimer(clock.AfterFunc)

	m.Add(Toast{Type: Info, Title: "Informação", Message: "fixo", Duration: 0})
	assert.Empty(t, clock.pending)
	clock.advance(time.Hour)
	assert.Len(t, m.List(), 1)
}

func TestManager_NegativeDurationUsesDefault(t *testing.T) {
	clock := &fakeClock{}
	m := NewManagerWithTimer(clock.AfterFunc)

	m.Add(Toast{Type: Warning, Message: "x", Duration: -1})
	require.Len(t, clock.pending, 1)
	assert.Equal(t, DefaultDuration, clock.pending[0].d)
}

func TestManager_RemoveStopsTimerAndKeepsOthers(t *testing.T) {
	clock := &fakeClock{}
	m := NewManagerWithTimer(clock.AfterFunc)

	first := m.Error("falhou")
	m.Warning("cuidado")
	m.Remove(first)

	assert.True(t, clock.pending[0].stopped)
	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Atenção", list[0].Title)
}

func TestManager_TitlesFollowType(t *testing.T) {
	m := NewManagerWithTimer((&fakeClock{}).AfterFunc)
	m.Success("a")
	m.Error("b")
	m.Warning("c")
	m.Info("d")

	var titles []string
	for _, ts := range m.List() {
		titles = append(titles, ts.Title)
	}
	assert.Equal(t, []string{"Sucesso", "Erro", "Atenção", "Informação"}, titles)
}

func TestManager_RealTimerAndClose(t *testing.T) {
	m := NewManager()
	m.Add(Toast{Type: Info, Message: "rápido", Duration: 10 * time.Millisecond})
	m.Info("demorado")

	assert.Eventually(t, func() bool { return len(m.List()) == 1 }, time.Second, 5*time.Millisecond)

	// Close 之后不应留下任何定时器 goroutine
	m.Close()
	m.Info("depois de fechar")
	assert.Len(t, m.List(), 2)
}
