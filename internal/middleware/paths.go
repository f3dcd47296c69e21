package middleware

import (
	"net/http"
	"strings"
)

const uploadsPrefix = "/uploads/"

// RejectUploadTraversal answers 400 for /uploads/ requests carrying a ".."
// segment or a backslash. It must run before the mux, which would otherwise
// clean the path and redirect outside /uploads/.
func RejectUploadTraversal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isUploadTraversal(r.URL.Path) || isUploadTraversal(r.URL.EscapedPath()) {
			writeError(w, http.StatusBadRequest, "Invalid path")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isUploadTraversal(p string) bool {
	rest, ok := strings.CutPrefix(p, uploadsPrefix)
	if !ok {
		return false
	}
	if strings.Contains(rest, `\`) || strings.Contains(strings.ToLower(rest), "%5c") {
		return true
	}
	for _, seg := range strings.Split(rest, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
