package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/snakegame/internal/api/request"
	"github.com/mcoot/snakegame/internal/api/response"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/opportunity"
)

// OpportunityHandler handles opportunity endpoints
type OpportunityHandler struct {
	opportunities opportunity.ServiceInterface
	recorder      Recorder
	logger        *slog.Logger
}

// NewOpportunityHandler creates a new opportunity handler
func NewOpportunityHandler(opportunities opportunity.ServiceInterface, recorder Recorder, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		opportunities: opportunities,
		recorder:      recorderOrNop(recorder),
		logger:        logger,
	}
}

// Create handles POST /api/v1/opportunities
func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOpportunityRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	opp, err := h.opportunities.Create(r.Context(), req.ToInput())
	if err != nil {
		WriteError(w, err)
		return
	}
	h.recorder.OpportunityCreated(insightsOutcome(opp.Insights))

	response.JSON(w, http.StatusCreated, response.OpportunityFromModel(opp))
}

// List handles GET /api/v1/opportunities
func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	opps, err := h.opportunities.Recent(r.Context(), opportunity.RecentLimit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.OpportunitiesFromModel(opps))
}

// insightsOutcome labels how insight generation went
func insightsOutcome(ins model.Insights) string {
	switch {
	case ins[model.InsightKeyError] != nil:
		return "error"
	case ins[model.InsightKeyRaw] != nil:
		return "raw"
	default:
		return "ok"
	}
}
