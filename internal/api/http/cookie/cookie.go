package cookie

import (
	"net/http"
	"time"
)

const (
	AccessName  = "accessToken"
	RefreshName = "refreshToken"
)

// Options defines how credential cookies are issued.
type Options struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SetAccess writes the access token cookie.
func SetAccess(w http.ResponseWriter, token string, opts Options) {
	set(w, AccessName, token, opts.AccessTTL, opts.Secure)
}

// SetRefresh writes the refresh token cookie.
func SetRefresh(w http.ResponseWriter, token string, opts Options) {
	set(w, RefreshName, token, opts.RefreshTTL, opts.Secure)
}

// SetPair writes both credential cookies.
func SetPair(w http.ResponseWriter, accessToken, refreshToken string, opts Options) {
	SetAccess(w, accessToken, opts)
	SetRefresh(w, refreshToken, opts)
}

// Clear expires both credential cookies on the client.
func Clear(w http.ResponseWriter, opts Options) {
	for _, name := range []string{AccessName, RefreshName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// Read returns the value of the named cookie, or "" when absent.
func Read(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func set(w http.ResponseWriter, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
