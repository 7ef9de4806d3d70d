package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/snakegame/internal/api"
	"github.com/mcoot/snakegame/internal/cli"
	"github.com/mcoot/snakegame/internal/factory"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/testutil"
	"github.com/mcoot/snakegame/internal/web"
)

// testServer runs the full HTTP surface in-process
type testServer struct {
	url string
	app *factory.TestApp
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	logger := testutil.NopLogger()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		LeaderboardService: app.LeaderboardService,
		GameService:        app.GameService,
		OpportunityService: app.OpportunityService,
		TodoService:        app.TodoService,
		HubManager:         app.HubManager,
		Metrics:            app.Metrics,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		LeaderboardService: app.LeaderboardService,
		OpportunityService: app.OpportunityService,
		Metrics:            app.Metrics,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", app.Metrics.Handler())
	mux.Handle("/", webRouter)

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		// Hubs close first so open event streams end
		_ = app.Close()
		srv.Close()
	})

	return &testServer{url: srv.URL, app: app}
}

// cliRunner executes snakectl commands in-process against a server
type cliRunner struct {
	t         *testing.T
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()
	t.Setenv("SNAKECTL_TOKEN", "")
	return &cliRunner{
		t:         t,
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) exec(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

// run executes a command with JSON output
func (r *cliRunner) run(args ...string) (string, error) {
	return r.exec(context.Background(), append([]string{"--output", "json"}, args...)...)
}

// runText executes a command with text output
func (r *cliRunner) runText(args ...string) (string, error) {
	return r.exec(context.Background(), args...)
}

// mustRun executes a command that must succeed and decodes its JSON output
func mustRun[T any](r *cliRunner, args ...string) T {
	r.t.Helper()
	out, err := r.run(args...)
	require.NoError(r.t, err, out)
	var v T
	require.NoError(r.t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestCLIHealth(t *testing.T) {
	ts := startTestServer(t)
	r := newCLIRunner(t, ts.url)

	result := mustRun[cli.HealthResult](r, "health")
	assert.Equal(t, "ok", result.Status)

	out, err := r.runText("health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)
}

func TestCLIAccountFlow(t *testing.T) {
	ts := startTestServer(t)
	r := newCLIRunner(t, ts.url)

	out, err := r.runText("signup", "--user", "alice", "--pass", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created for alice")

	_, err = r.runText("signup", "--user", "alice", "--pass", "x")
	assert.ErrorContains(t, err, "User exists")

	_, err = r.runText("login", "--user", "alice", "--pass", "wrong")
	assert.ErrorContains(t, err, "Invalid credentials")

	login := mustRun[cli.LoginResult](r, "login", "--user", "alice", "--pass", "x")
	assert.True(t, login.Success)
	assert.NotEmpty(t, login.Token)

	// Token file is picked up by later commands
	me := mustRun[cli.User](r, "whoami")
	assert.Equal(t, "alice", me.Username)

	out, err = r.runText("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = r.runText("whoami")
	assert.ErrorContains(t, err, "UNAUTHORIZED")

	// The old token is dead server-side too
	_, err = r.runText("--token", login.Token, "whoami")
	assert.ErrorContains(t, err, "UNAUTHORIZED")
}

func TestCLILeaderboard(t *testing.T) {
	ts := startTestServer(t)
	r := newCLIRunner(t, ts.url)

	for i, name := range []string{"alice", "bob", "carol"} {
		_, err := r.runText("leaderboard", "submit", "--user", name, "--score", strconv.Itoa((i+1)*10))
		require.NoError(t, err)
	}

	entries := mustRun[[]cli.LeaderboardEntry](r, "leaderboard", "list")
	require.Len(t, entries, 3)
	assert.Equal(t, cli.LeaderboardEntry{Username: "carol", Score: 30}, entries[0])

	entries = mustRun[[]cli.LeaderboardEntry](r, "leaderboard", "list", "--limit", "1")
	assert.Len(t, entries, 1)

	out, err := r.runText("leaderboard", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "carol")

	_, err = r.runText("leaderboard", "submit", "--user", "dave", "--score", "-1")
	assert.Error(t, err)
}

func TestCLIGames(t *testing.T) {
	ts := startTestServer(t)
	r := newCLIRunner(t, ts.url)

	_, err := r.runText("games", "create")
	assert.ErrorContains(t, err, "UNAUTHORIZED")

	_, err = r.runText("signup", "--user", "alice", "--pass", "x")
	require.NoError(t, err)
	_, err = r.runText("login", "--user", "alice", "--pass", "x")
	require.NoError(t, err)

	game := mustRun[cli.Game](r, "games", "create", "--mode", "wrap")
	assert.Equal(t, "alice", game.Username)
	assert.Equal(t, "wrap", game.Mode)
	id := strconv.FormatInt(game.ID, 10)

	games := mustRun[[]cli.Game](r, "games", "list")
	require.Len(t, games, 1)

	ts.app.MockRandom.QueueIntn(1, 1, 1, 2, 5, 5, 30)
	snap := mustRun[cli.GameSnapshot](r, "games", "get", id)
	assert.Equal(t, []cli.Point{{X: 1, Y: 1}, {X: 1, Y: 2}}, snap.Snake)
	assert.Equal(t, cli.Point{X: 5, Y: 5}, snap.Food)
	assert.Equal(t, 30, snap.Score)

	updated := mustRun[cli.Game](r, "games", "update-state", id, "--state", `{"score":30}`)
	assert.Equal(t, `{"score":30}`, updated.State)

	_, err = r.runText("games", "get", "999")
	assert.ErrorContains(t, err, "GAME_NOT_FOUND")

	_, err = r.runText("games", "get", "abc")
	assert.ErrorContains(t, err, "positive integer")
}

func TestCLIOpportunities(t *testing.T) {
	ts := startTestServer(t)
	r := newCLIRunner(t, ts.url)

	out, err := r.runText("opportunities", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No opportunities found.")

	_, err = r.runText("opportunities", "create", "--title", "Data platform")
	assert.ErrorContains(t, err, "Missing field: client")

	opp := mustRun[cli.Opportunity](r, "opportunities", "create",
		"--title", "Data platform",
		"--client", "Acme",
		"--contact-name", "Jo",
		"--contact-email", "jo@acme.test",
		"--description", "Migrate the warehouse",
		"--type", "consulting",
		"--complexity", "high",
		"--duration", "6 months",
		"--skills", "go, sql",
		"--deal-value", "1500.5",
	)
	assert.Equal(t, 1500.5, opp.DealValue)
	assert.Equal(t, "follow up within a week", opp.Insights[model.InsightKeyRecommendations])

	opps := mustRun[[]cli.Opportunity](r, "opportunities", "list")
	require.Len(t, opps, 1)
	assert.Equal(t, opp.ID, opps[0].ID)
}

func TestCLITodos(t *testing.T) {
	ts := startTestServer(t)
	r := newCLIRunner(t, ts.url)

	todo := mustRun[cli.Todo](r, "todos", "add", "--title", "Write tests", "--due", "2024-02-01")
	assert.False(t, todo.Resolved)
	require.NotNil(t, todo.DueDate)
	id := strconv.FormatInt(todo.ID, 10)

	done := mustRun[cli.Todo](r, "todos", "done", id)
	assert.True(t, done.Resolved)

	// Done is idempotent
	done = mustRun[cli.Todo](r, "todos", "done", id)
	assert.True(t, done.Resolved)

	assert.Empty(t, mustRun[[]cli.Todo](r, "todos", "list", "--status", "pending"))
	assert.Len(t, mustRun[[]cli.Todo](r, "todos", "list", "--status", "resolved"), 1)

	out, err := r.runText("todos", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted todo "+id)

	_, err = r.runText("todos", "rm", id)
	assert.ErrorContains(t, err, "TODO_NOT_FOUND")
}

func TestCLIEventsLeaderboard(t *testing.T) {
	ts := startTestServer(t)
	r := newCLIRunner(t, ts.url)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := r.exec(ctx, "events", "leaderboard", "--json", "--count", "2")
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(model.LeaderboardTopic)
		return hub != nil && hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err := ts.app.LeaderboardService.Submit(context.Background(), "alice", 12)
	require.NoError(t, err)

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		t.Fatal("events command did not finish")
	}
	require.NoError(t, res.err, res.out)

	lines := strings.Split(strings.TrimSpace(res.out), "\n")
	require.Len(t, lines, 2)

	var evt cli.SSEEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &evt))
	assert.Equal(t, "connected", evt.Event)

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &evt))
	assert.Equal(t, "score_submitted", evt.Event)
	assert.Contains(t, evt.Data, `"username":"alice"`)
	assert.Contains(t, evt.Data, `"score":12`)
}

func TestCLIInvalidOutputFormat(t *testing.T) {
	ts := startTestServer(t)
	r := newCLIRunner(t, ts.url)

	_, err := r.exec(context.Background(), "--output", "yaml", "health")
	assert.ErrorContains(t, err, "invalid --output")
}
