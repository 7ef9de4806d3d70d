package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/snakegame/internal/services/opportunity"
	"github.com/mcoot/snakegame/internal/web/views"
)

// OpportunityHandler serves the opportunities page
type OpportunityHandler struct {
	opportunities opportunity.ServiceInterface
	logger        *slog.Logger
}

// NewOpportunityHandler creates a new OpportunityHandler
func NewOpportunityHandler(svc opportunity.ServiceInterface, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{opportunities: svc, logger: logger}
}

// View renders GET /opportunities
func (h *OpportunityHandler) View(w http.ResponseWriter, r *http.Request) {
	opps, err := h.opportunities.Recent(r.Context(), opportunity.RecentLimit)
	if err != nil {
		h.logger.Error("failed to load opportunities", slog.String("error", err.Error()))
		renderError(w, r, http.StatusInternalServerError, "Could not load opportunities.")
		return
	}

	render(w, r, http.StatusOK, views.Opportunities(views.OpportunitiesData{
		PageData:      pageData(r, "Latest Opportunities"),
		Opportunities: opps,
	}))
}
