package theme

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = "prestacao-contas-theme"

func TestManager_DefaultIsDark(t *testing.T) {
	m := NewManager(NewMemoryStore(), key, "")
	assert.Equal(t, Dark, m.Theme())
	assert.Equal(t, "dark", m.RootClass(false))
}

func TestManager_SetThemePersists(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, key, Dark)

	require.NoError(t, m.SetTheme(Light))
	v, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, "light", v)

	// 另一个 Manager 读取同一存储
	assert.Equal(t, Light, NewManager(store, key, Dark).Theme())

	assert.Error(t, m.SetTheme("sepia"))
	assert.Equal(t, Light, m.Theme())
}

func TestManager_SystemFollowsClientPreference(t *testing.T) {
	m := NewManager(NewMemoryStore(), key, System)
	assert.Equal(t, "dark", m.RootClass(true))
	assert.Equal(t, "light", m.RootClass(false))
}

func TestManager_InvalidStoredValueFallsBack(t *testing.T) {
	store := NewMemoryStore()
	store.Set(key, "roxo")
	assert.Equal(t, Light, NewManager(store, key, Light).Theme())
}

func TestCookieStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: key, Value: "light"})
	rec := httptest.NewRecorder()

	m := NewManager(NewCookieStore(rec, req), key, Dark)
	assert.Equal(t, Light, m.Theme())

	require.NoError(t, m.SetTheme(System))
	assert.Equal(t, System, m.Theme(), "value written in this request is visible")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, key, cookies[0].Name)
	assert.Equal(t, "system", cookies[0].Value)
}

func TestPrefersDark(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, PrefersDark(req))
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", "dark")
	assert.True(t, PrefersDark(req))
}
