package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/snakegame/internal/web/middleware"
	"github.com/mcoot/snakegame/internal/web/views"
)

// pageData builds the shared page fields for a request
func pageData(r *http.Request, title string) views.PageData {
	return views.PageData{
		Title:    title,
		Username: middleware.Username(r.Context()),
		Flash:    middleware.GetFlash(r.Context()),
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render(w, r, status, views.ErrorPage(pageData(r, http.StatusText(status)), message))
}

// NotFound renders the 404 page
func NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "The page you were looking for does not exist.")
}
