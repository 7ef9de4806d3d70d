package model

import "time"

// OpportunityID identifies a stored sales opportunity
type OpportunityID int64

// Opportunity is a sales lead annotated with generated insights
type Opportunity struct {
	ID           OpportunityID
	Title        string
	Client       string
	ContactName  string
	ContactEmail string
	Description  string
	Type         string
	Complexity   string
	Duration     string
	Skills       string
	DealValue    float64
	Insights     Insights
	CreatedAt    time.Time
}

// Insights is the free-form JSON object produced for an opportunity.
// A well-formed reply carries the InsightKey* fields; otherwise it holds
// InsightKeyRaw or InsightKeyError.
type Insights map[string]any

// Keys used in Insights
const (
	InsightKeyLeadSources        = "top_performing_lead_sources"
	InsightKeyConversionPatterns = "conversion_patterns"
	InsightKeyRecommendations    = "recommendations"
	InsightKeyRaw                = "raw"
	InsightKeyError              = "error"
)
