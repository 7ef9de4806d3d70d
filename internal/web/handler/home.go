package handler

import (
	"net/http"

	"github.com/mcoot/snakegame/internal/web/views"
)

// HomeHandler handles the landing page
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home renders the landing page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, views.Home(pageData(r, "")))
}
