package responsive

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := map[int]Breakpoint{
		0:    XS,
		639:  XS,
		640:  SM,
		767:  SM,
		768:  MD,
		1023: MD,
		1024: LG,
		1280: XL,
		1535: XL,
		1536: XXL,
		2560: XXL,
	}
	for width, want := range cases {
		assert.Equal(t, want, Classify(width), "width %d", width)
	}
}

func TestNewInfo(t *testing.T) {
	phone := NewInfo(375)
	assert.True(t, phone.IsMobile)
	assert.False(t, phone.IsTablet)
	assert.False(t, phone.AtLeast(SM))

	tablet := NewInfo(800)
	assert.True(t, tablet.IsTablet)
	assert.False(t, tablet.IsMobile)
	assert.False(t, tablet.IsDesktop)
	assert.True(t, tablet.AtLeast(MD))

	desktop := NewInfo(1440)
	assert.True(t, desktop.IsDesktop)
	assert.Equal(t, XL, desktop.Breakpoint)
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, DefaultWidth, FromRequest(req).Width)

	req.AddCookie(&http.Cookie{Name: ViewportCookie, Value: "700"})
	assert.Equal(t, SM, FromRequest(req).Breakpoint)

	req.Header.Set("Viewport-Width", "900")
	assert.Equal(t, 900, FromRequest(req).Width)

	req.Header.Set("Sec-CH-Viewport-Width", "360")
	assert.True(t, FromRequest(req).IsMobile)

	req.Header.Set("Sec-CH-Viewport-Width", "abc")
	assert.Equal(t, 900, FromRequest(req).Width, "invalid hint falls through")
}
