package factory

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/services/auth"
	"github.com/mcoot/snakegame/internal/services/opportunity"
	"github.com/mcoot/snakegame/internal/services/todo"
	"github.com/mcoot/snakegame/internal/session"
	"github.com/mcoot/snakegame/internal/storage/memory"
	redisstorage "github.com/mcoot/snakegame/internal/storage/redis"
	"github.com/mcoot/snakegame/internal/storage/sqlite"
	"github.com/mcoot/snakegame/internal/web/sse"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

// Test: signup, login, whoami, logout
func (s *IntegrationSuite) TestSessionLifecycle() {
	_, err := s.app.AuthService.Signup(s.ctx, "alice", "x")
	s.Require().NoError(err)

	sess, user, err := s.app.AuthService.Login(s.ctx, "alice", "x")
	s.Require().NoError(err)

	_, resolved, err := s.app.AuthService.Authenticate(s.ctx, sess.Token)
	s.Require().NoError(err)
	s.Equal(user.ID, resolved.ID)

	s.Require().NoError(s.app.AuthService.Logout(s.ctx, sess.Token))

	_, _, err = s.app.AuthService.Authenticate(s.ctx, sess.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)
}

// Test: sessions expire on the mock clock
func (s *IntegrationSuite) TestSessionExpiry() {
	_, _ = s.app.AuthService.Signup(s.ctx, "alice", "x")
	sess, _, err := s.app.AuthService.Login(s.ctx, "alice", "x")
	s.Require().NoError(err)

	s.app.MockClock.Advance(session.DefaultTTL + time.Second)

	_, _, err = s.app.AuthService.Authenticate(s.ctx, sess.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)
}

// Test: services publish through the SSE broadcaster
func (s *IntegrationSuite) TestScoreReachesLeaderboardStream() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sse.ServeSSE(w, r, s.app.HubManager.GetOrCreateHub(model.LeaderboardTopic), "test")
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	s.Require().NoError(err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	s.Require().NoError(err)
	s.Equal("event: connected\n", line)

	hub := s.app.HubManager.GetHub(model.LeaderboardTopic)
	s.Require().NotNil(hub)
	s.Require().Eventually(func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	_, err = s.app.LeaderboardService.Submit(s.ctx, "alice", 12)
	s.Require().NoError(err)

	for {
		line, err = reader.ReadString('\n')
		s.Require().NoError(err)
		if strings.HasPrefix(line, "event: score_submitted") {
			break
		}
	}
	data, err := reader.ReadString('\n')
	s.Require().NoError(err)
	s.Contains(data, `"username":"alice"`)
	s.Contains(data, `"score":12`)
}

// Test: game snapshot is driven by the random source
func (s *IntegrationSuite) TestGameSnapshotFromMockRandom() {
	g, err := s.app.GameService.Create(s.ctx, "alice", model.GameModeWalls, "")
	s.Require().NoError(err)

	s.app.MockRandom.QueueIntn(0, 0, 0, 1, 9, 9, 20)
	snap, err := s.app.GameService.Snapshot(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(model.Point{X: 9, Y: 9}, snap.Food)
	s.Equal(20, snap.Score)
}

// Test: opportunities get the configured insights
func (s *IntegrationSuite) TestOpportunityUsesStaticInsighter() {
	str := func(v string) *string { return &v }
	value := 10.0
	opp, err := s.app.OpportunityService.Create(s.ctx, opportunity.Input{
		Title:        str("Data platform"),
		Client:       str("Acme"),
		ContactName:  str("Jo"),
		ContactEmail: str("jo@acme.test"),
		Description:  str("Migrate the warehouse"),
		Type:         str("consulting"),
		Complexity:   str("high"),
		Duration:     str("6 months"),
		Skills:       str("go"),
		DealValue:    &value,
	})
	s.Require().NoError(err)
	s.Equal("follow up within a week", opp.Insights[model.InsightKeyRecommendations])
}

// Test: todo lifecycle
func (s *IntegrationSuite) TestTodoLifecycle() {
	created, err := s.app.TodoService.Create(s.ctx, todo.Fields{Title: "write tests"})
	s.Require().NoError(err)

	toggled, err := s.app.TodoService.ToggleResolved(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(toggled.Resolved)

	pending, err := s.app.TodoService.List(s.ctx, model.TodoFilterPending)
	s.Require().NoError(err)
	s.Empty(pending)

	s.Require().NoError(s.app.TodoService.Delete(s.ctx, created.ID))
	_, err = s.app.TodoService.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrTodoNotFound)
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(context.Background(), Config{})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &memory.Storage{}, app.Storage)
	assert.IsType(t, &session.MemoryStore{}, app.Sessions)
}

func TestNewWithRedisSharesOneClient(t *testing.T) {
	mini := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()

	app, err := New(context.Background(), Config{
		StorageType:  StorageTypeRedis,
		SessionStore: StorageTypeRedis,
		RedisConfig:  &redisCfg,
		AuthConfig:   auth.Config{HashCost: 4},
	})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &redisstorage.Storage{}, app.Storage)
	assert.IsType(t, &session.RedisStore{}, app.Sessions)
	assert.Len(t, app.closers, 1)

	ctx := context.Background()
	_, err = app.AuthService.Signup(ctx, "alice", "x")
	require.NoError(t, err)
	sess, _, err := app.AuthService.Login(ctx, "alice", "x")
	require.NoError(t, err)
	assert.True(t, mini.Exists("snake:session:"+sess.Token))
}

func TestNewWithSQLite(t *testing.T) {
	app, err := New(context.Background(), Config{
		StorageType: StorageTypeSQLite,
		SQLitePath:  sqlite.MemoryPath,
	})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &sqlite.Storage{}, app.Storage)
}

func TestNewRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{StorageType: "postgres"})
	assert.Error(t, err)

	_, err = New(ctx, Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)

	_, err = New(ctx, Config{SessionStore: StorageTypeSQLite})
	assert.Error(t, err)

	_, err = New(ctx, Config{StorageType: StorageTypeSQLite})
	assert.Error(t, err)
}
