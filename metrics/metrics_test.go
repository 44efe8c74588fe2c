package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

var _ service.Recorder = (*Recorder)(nil)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func assertLine(t *testing.T, body, line string) {
	t.Helper()
	for _, l := range strings.Split(body, "\n") {
		if l == line {
			return
		}
	}
	t.Errorf("Expected metrics output to contain line %q", line)
}

func TestRecorder_Sessions(t *testing.T) {
	r := New()

	r.SessionCreated("easy")
	r.SessionCreated("easy")
	r.SessionCreated("hard")
	r.SessionDeleted()

	body := scrape(t, r)
	assertLine(t, body, `minesweeper_sessions_created_total{config="easy"} 2`)
	assertLine(t, body, `minesweeper_sessions_created_total{config="hard"} 1`)
	assertLine(t, body, `minesweeper_active_sessions 2`)
}

func TestRecorder_Actions(t *testing.T) {
	r := New()

	r.ActionPerformed("reveal", true)
	r.ActionPerformed("reveal", true)
	r.ActionPerformed("reveal", false)
	r.ActionPerformed("flag", true)

	body := scrape(t, r)
	assertLine(t, body, `minesweeper_actions_total{action="reveal",result="applied"} 2`)
	assertLine(t, body, `minesweeper_actions_total{action="reveal",result="noop"} 1`)
	assertLine(t, body, `minesweeper_actions_total{action="flag",result="applied"} 1`)
}

func TestRecorder_GameFinished(t *testing.T) {
	r := New()

	r.GameFinished(engine.Won, 42*time.Second)
	r.GameFinished(engine.Lost, 3*time.Second)
	r.GameFinished(engine.Lost, 10*time.Second)

	body := scrape(t, r)
	assertLine(t, body, `minesweeper_games_finished_total{phase="won"} 1`)
	assertLine(t, body, `minesweeper_games_finished_total{phase="lost"} 2`)
	assertLine(t, body, `minesweeper_game_duration_seconds_count{phase="lost"} 2`)
	assertLine(t, body, `minesweeper_game_duration_seconds_bucket{phase="lost",le="5"} 1`)
	assertLine(t, body, `minesweeper_game_duration_seconds_sum{phase="won"} 42`)
}

func TestRecorder_RuntimeCollectors(t *testing.T) {
	r := New()

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "go_goroutines" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected Go runtime collector to be registered")
	}
}

func TestRecorder_Independent(t *testing.T) {
	a := New()
	b := New()

	a.SessionCreated("easy")

	assertLine(t, scrape(t, a), `minesweeper_active_sessions 1`)
	assertLine(t, scrape(t, b), `minesweeper_active_sessions 0`)
}
