package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"fundspark/pkg/views"
)

const (
	flashCookie = "flash"
	flashMaxAge = 60

	flashAlert  = "alert"
	flashNotice = "notice"
)

// setFlash leaves a one-shot message for the next page render.
func setFlash(c *gin.Context, kind, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, kind+":"+msg, flashMaxAge, "/", "", false, true)
}

// takeFlash reads and clears the pending message.
func takeFlash(c *gin.Context) (alert, notice string) {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return "", ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	kind, msg, ok := strings.Cut(raw, ":")
	if !ok {
		return "", ""
	}
	switch kind {
	case flashAlert:
		return msg, ""
	case flashNotice:
		return "", msg
	}
	return "", ""
}

// safeNext returns a local path to redirect to. Absolute and
// scheme-relative URLs fall back to "/". Any open dialog is dropped.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	q := u.Query()
	q.Del("modal")
	u.RawQuery = q.Encode()
	return u.RequestURI()
}

// withModal adds the modal query parameter to a local path.
func withModal(path string, m views.Modal) string {
	u, err := url.Parse(path)
	if err != nil {
		return "/?modal=" + m.String()
	}
	q := u.Query()
	q.Set("modal", m.String())
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
