package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/partyscore/internal/api"
	"github.com/mcoot/partyscore/internal/factory"
	"github.com/mcoot/partyscore/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "partyscore-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/partyscore")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) command(args ...string) *exec.Cmd {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "PARTYSCORE_TOKEN=", "PARTYSCORE_ADMIN_PASSWORD=")
	return cmd
}

func (r *cliRunner) run(args ...string) (string, error) {
	output, err := r.command(args...).Output()
	return string(output), err
}

func (r *cliRunner) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	output, err := r.run(args...)
	require.NoError(t, err, "args: %v output: %s", args, output)
	return output
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)
	app.Start()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Scoreboard:  app.Scoreboard,
		Broadcaster: app.Broadcaster,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:      logger,
		Scoreboard:  app.Scoreboard,
		LiveUpdates: true,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			app.Hub.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type healthResponse struct {
	Status string `json:"status"`
}

type sessionResponse struct {
	SessionToken string `json:"session_token"`
}

type standingResponse struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Score  int    `json:"score"`
}

type leaderboardResponse struct {
	Standings []standingResponse `json:"standings"`
}

type summaryResponse struct {
	Players []struct {
		Player    string `json:"player"`
		Score     int    `json:"score"`
		Completed int    `json:"completed"`
		Remaining int    `json:"remaining"`
	} `json:"players"`
	EventCount    int `json:"event_count"`
	PointsAwarded int `json:"points_awarded"`
}

type sseLine struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(cli.mustRun(t, "health")), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PartyNight(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	host := newCLIRunner(t, ts.addr)
	guest := &cliRunner{
		binaryPath: host.binaryPath,
		serverURL:  host.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "guest-token"),
	}

	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(host.mustRun(t, "admin", "setup", "--password", "letmein")), &session))
	assert.NotEmpty(t, session.SessionToken)

	for _, name := range []string{"Ada", "Grace", "Linus"} {
		host.mustRun(t, "player", "add", name)
	}
	host.mustRun(t, "action", "add", "Sing", "10")
	host.mustRun(t, "action", "add", "Dance", "5")
	host.mustRun(t, "action", "add", "Tell a joke", "3")

	// Guests cannot manage the game
	_, err := guest.run("player", "add", "Mallory")
	require.Error(t, err)

	// But anyone can award points
	guest.mustRun(t, "assign", "Ada", "Sing")
	guest.mustRun(t, "assign", "Ada", "Tell a joke")
	guest.mustRun(t, "assign", "Grace", "Sing")
	guest.mustRun(t, "assign", "Linus", "Dance")

	_, err = guest.run("assign", "Ada", "Sing")
	require.Error(t, err, "an action is single-use per player")

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(guest.mustRun(t, "leaderboard")), &board))
	assert.Equal(t, []standingResponse{
		{Rank: 1, Player: "Ada", Score: 13},
		{Rank: 2, Player: "Grace", Score: 10},
		{Rank: 3, Player: "Linus", Score: 5},
	}, board.Standings)

	var summary summaryResponse
	require.NoError(t, json.Unmarshal([]byte(guest.mustRun(t, "summary")), &summary))
	assert.Equal(t, 4, summary.EventCount)
	assert.Equal(t, 28, summary.PointsAwarded)
	require.Len(t, summary.Players, 3)
	assert.Equal(t, 2, summary.Players[0].Completed)
	assert.Equal(t, 1, summary.Players[0].Remaining)

	host.mustRun(t, "admin", "reset", "--yes")
	require.NoError(t, json.Unmarshal([]byte(guest.mustRun(t, "leaderboard")), &board))
	for _, s := range board.Standings {
		assert.Equal(t, 0, s.Score)
	}

	host.mustRun(t, "admin", "logout")
	_, err = host.run("action", "delete", "Sing")
	require.Error(t, err)
}

func TestCLI_EventsStream(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	cli.mustRun(t, "admin", "setup", "--password", "letmein")
	cli.mustRun(t, "player", "add", "Ada")
	cli.mustRun(t, "action", "add", "Sing", "10")

	cmd := cli.command("events", "--json")
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	lines := make(chan sseLine, 16)
	go func() {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			var line sseLine
			if json.Unmarshal(scanner.Bytes(), &line) == nil {
				lines <- line
			}
		}
		close(lines)
	}()

	// connected, then the initial snapshot
	waitForEvent(t, lines, "connected", "")
	waitForEvent(t, lines, "scoreboard-update", "")

	cli.mustRun(t, "assign", "Ada", "Sing")
	waitForEvent(t, lines, "scoreboard-update", `"score":10`)
}

func waitForEvent(t *testing.T, lines <-chan sseLine, event, contains string) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("stream ended before %s event", event)
			}
			if line.Event == event && strings.Contains(line.Data, contains) {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", event)
		}
	}
}
