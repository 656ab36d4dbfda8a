package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/librarydb/library-web/internal/apiclient"
	"github.com/librarydb/library-web/internal/errors"
)

// formStatus is the status of a form page re-rendered after err.
func formStatus(err error) int {
	if errors.Is(err, errors.ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) && reqErr.Status >= 400 && reqErr.Status < 500 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

// loadStatus is the status of a page whose content failed to load.
func loadStatus(err error) int {
	if errors.Is(err, errors.ErrValidation) {
		return http.StatusBadRequest
	}
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// localPath returns raw if it is a path on this site, or fallback.
func localPath(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return u.RequestURI()
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
