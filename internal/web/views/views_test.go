package views

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/snakegame/internal/model"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Leaderboard | Snake", pageTitle("Leaderboard"))
	assert.Equal(t, "Snake", pageTitle(""))
}

func TestLayoutEscapesUserText(t *testing.T) {
	out := render(t, Home(PageData{Title: "Home", Username: "<script>alert(1)</script>"}))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestLayoutShowsFlash(t *testing.T) {
	out := render(t, Home(PageData{Flash: &FlashMessage{Type: "success", Message: "Score submitted"}}))

	assert.Contains(t, out, `class="flash flash-success"`)
	assert.Contains(t, out, "Score submitted")
}

func TestOpportunitiesEmpty(t *testing.T) {
	out := render(t, Opportunities(OpportunitiesData{}))

	assert.Contains(t, out, "No opportunities found.")
	assert.NotContains(t, out, "opp-table")
}

func TestInsightText(t *testing.T) {
	assert.Equal(t, "call", insightText("call"))
	assert.Equal(t, `["a","b"]`, insightText([]any{"a", "b"}))
	assert.Equal(t, "", insightText(nil))
}

func TestWriteInsightsKnownKeysOnly(t *testing.T) {
	var b strings.Builder
	h := &htmlWriter{w: &b}
	writeInsights(h, model.Insights{
		model.InsightKeyRecommendations: "follow up",
		"unexpected":                    "ignored",
	})

	require.NoError(t, h.err)
	assert.Contains(t, b.String(), "Recommendations")
	assert.NotContains(t, b.String(), "ignored")
}
