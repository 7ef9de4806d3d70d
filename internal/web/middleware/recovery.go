package middleware

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/snakegame/internal/middleware"
	"github.com/mcoot/snakegame/internal/web/views"
)

// Recovery creates panic recovery middleware for the web interface.
// Returns an HTML error page on panic.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	page := views.ErrorPage(views.PageData{Title: "Internal Server Error"}, "Something went wrong. Please try again later.")
	templ.Handler(page, templ.WithStatus(http.StatusInternalServerError)).ServeHTTP(w, r)
}
