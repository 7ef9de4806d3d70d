package views

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/snakegame/internal/model"
)

// Home is the landing page
func Home(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<p>Play snake, post your score and watch the board update live.</p>`)
		h.raw(`<ul class="links">`)
		h.raw(`<li><a href="/leaderboard">Leaderboard</a></li>`)
		h.raw(`<li><a href="/opportunities">Latest opportunities</a></li>`)
		h.raw(`<li><a href="/api/v1/health">API health</a></li>`)
		h.raw(`</ul>`)
		return h.err
	})
	return Layout(data, body)
}

// LeaderboardData is the leaderboard page model
type LeaderboardData struct {
	PageData
	Entries []*model.LeaderboardEntry
}

// Leaderboard renders the top scores and the submission form
func Leaderboard(data LeaderboardData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(data.Entries) == 0 {
			h.raw(`<p class="empty">No scores yet.</p>`)
		} else {
			h.raw(`<table class="leaderboard-table"><thead><tr><th>#</th><th>Player</th><th>Score</th></tr></thead><tbody>`)
			for i, e := range data.Entries {
				h.raw(`<tr><td class="rank">`)
				h.text(strconv.Itoa(i + 1))
				h.raw(`</td><td class="username">`)
				h.text(e.Username)
				h.raw(`</td><td class="score">`)
				h.text(strconv.Itoa(e.Score))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		h.raw(`<form method="post" action="/leaderboard" class="submit-score">`)
		h.raw(`<input type="text" name="username" placeholder="Name" required value="`)
		h.text(data.Username)
		h.raw(`">`)
		h.raw(`<input type="number" name="score" min="0" placeholder="Score" required>`)
		h.raw(`<button type="submit">Submit score</button></form>`)
		return h.err
	})
	return Layout(data.PageData, body)
}

// OpportunitiesData is the opportunities page model
type OpportunitiesData struct {
	PageData
	Opportunities []*model.Opportunity
}

// Opportunities renders the latest opportunities with their insights
func Opportunities(data OpportunitiesData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(data.Opportunities) == 0 {
			h.raw(`<p class="empty">No opportunities found.</p>`)
			return h.err
		}

		h.raw(`<table class="opp-table"><thead><tr>`)
		for _, col := range []string{"Title", "Client", "Contact", "Type", "Complexity", "Duration", "Skills", "Deal value", "Insights"} {
			h.raw(`<th>`)
			h.text(col)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, o := range data.Opportunities {
			h.raw(`<tr data-id="`)
			h.text(strconv.FormatInt(int64(o.ID), 10))
			h.raw(`"><td class="title">`)
			h.text(o.Title)
			h.raw(`</td><td class="client">`)
			h.text(o.Client)
			h.raw(`</td><td class="contact">`)
			h.text(o.ContactName)
			h.raw(` &lt;`)
			h.text(o.ContactEmail)
			h.raw(`&gt;</td><td>`)
			h.text(o.Type)
			h.raw(`</td><td>`)
			h.text(o.Complexity)
			h.raw(`</td><td>`)
			h.text(o.Duration)
			h.raw(`</td><td>`)
			h.text(o.Skills)
			h.raw(`</td><td class="deal-value">`)
			h.text(fmt.Sprintf("%.2f", o.DealValue))
			h.raw(`</td><td class="insights">`)
			writeInsights(h, o.Insights)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
	return Layout(data.PageData, body)
}

// insightOrder lists the keys shown first, in this order
var insightOrder = []string{
	model.InsightKeyLeadSources,
	model.InsightKeyConversionPatterns,
	model.InsightKeyRecommendations,
	model.InsightKeyRaw,
	model.InsightKeyError,
}

var insightLabels = map[string]string{
	model.InsightKeyLeadSources:        "Lead sources",
	model.InsightKeyConversionPatterns: "Conversion patterns",
	model.InsightKeyRecommendations:    "Recommendations",
	model.InsightKeyRaw:                "Notes",
	model.InsightKeyError:              "Error",
}

func writeInsights(h *htmlWriter, ins model.Insights) {
	if len(ins) == 0 {
		return
	}
	h.raw(`<dl>`)
	for _, key := range insightOrder {
		v, ok := ins[key]
		if !ok {
			continue
		}
		h.raw(`<dt>`)
		h.text(insightLabels[key])
		h.raw(`</dt><dd class="insight-`)
		h.text(key)
		h.raw(`">`)
		h.text(insightText(v))
		h.raw(`</dd>`)
	}
	h.raw(`</dl>`)
}

// insightText flattens an insight value for display
func insightText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// ErrorPage is shown for unknown routes and failures
func ErrorPage(data PageData, message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<p class="error-message">`)
		h.text(message)
		h.raw(`</p><p><a href="/">Return to home</a></p>`)
		return h.err
	})
	return Layout(data, body)
}
