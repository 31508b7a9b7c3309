package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	"megamind_api/internal/config"
	"megamind_api/internal/domain"
	httpserver "megamind_api/internal/http"
	"megamind_api/internal/repository"
	"megamind_api/internal/service"
)

func applyMigrationsToPool(t *testing.T, dbp *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := dbp.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func TestE2E_WS_Trace(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	os.Setenv("JWT_SECRET", "test-secret")

	dbp, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer dbp.Close()

	applyMigrationsToPool(t, dbp)

	// create a verified user directly; registration flow has its own tests
	ur := repository.NewUserRepository(dbp)
	ctx := context.Background()
	email := "e2e-" + uuid.NewString() + "@example.com"

	u := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           "E2E",
		Verified:       true,
		CompletedTasks: []string{},
	}
	if err := ur.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}

	// start server with real routes
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	cfg := &config.Config{
		DatabaseURL:    dsn,
		JWTSecret:      "test-secret",
		HitRadius:      40,
		APIRateLimit:   1000,
		APIRateWindow:  60,
		AuthRateLimit:  1000,
		AuthRateWindow: 60,
	}
	httpserver.RegisterRoutes(r, dbp, cfg, "test")
	ts := httptest.NewServer(r)
	defer ts.Close()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// single reader goroutine to avoid concurrent ReadMessage calls
	out := make(chan map[string]any, 16)
	go func() {
		defer close(out)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var obj map[string]any
			if json.Unmarshal(msg, &obj) == nil {
				out <- obj
			}
		}
	}()

	waitFor := func(typ string, tmo time.Duration) map[string]any {
		deadline := time.After(tmo)
		for {
			select {
			case obj, ok := <-out:
				if !ok {
					t.Fatalf("connection closed waiting for %q", typ)
				}
				if obj["type"] == typ {
					return obj
				}
			case <-deadline:
				t.Fatalf("timeout waiting for %q", typ)
			}
		}
	}

	waitFor("ready", 2*time.Second)

	// pin the shape so the first point is known
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"reset","shape":"square"}`)); err != nil {
		t.Fatalf("write reset: %v", err)
	}
	res := waitFor("result", 2*time.Second)
	if res["shape_name"] != "square" {
		t.Fatalf("reset bound shape %v, want square", res["shape_name"])
	}

	// frame near the square's first point scores a hit
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"frame","fingertip":{"x":205,"y":118}}`)); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	res = waitFor("result", 2*time.Second)
	if got := res["progress"]; got != float64(1) {
		t.Fatalf("progress = %v, want 1", got)
	}

	// empty frame keeps progress, session stays in_progress
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"frame"}`)); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	res = waitFor("result", 2*time.Second)
	if got := res["progress"]; got != float64(1) {
		t.Fatalf("progress after empty frame = %v, want 1", got)
	}
	if got := res["status"]; got != "in_progress" {
		t.Fatalf("status = %v, want in_progress", got)
	}
}

func TestE2E_StreakOverHTTP(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	os.Setenv("JWT_SECRET", "test-secret")

	dbp, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer dbp.Close()

	applyMigrationsToPool(t, dbp)

	ur := repository.NewUserRepository(dbp)
	ctx := context.Background()
	u := &domain.User{
		ID:             uuid.NewString(),
		Email:          "e2e-" + uuid.NewString() + "@example.com",
		Name:           "E2E",
		Verified:       true,
		CompletedTasks: []string{},
	}
	if err := ur.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.Default()
	cfg := &config.Config{
		DatabaseURL:    dsn,
		JWTSecret:      "test-secret",
		HitRadius:      40,
		APIRateLimit:   1000,
		APIRateWindow:  60,
		AuthRateLimit:  1000,
		AuthRateWindow: 60,
	}
	httpserver.RegisterRoutes(r, dbp, cfg, "test")
	ts := httptest.NewServer(r)
	defer ts.Close()

	post := func(path, body string) map[string]any {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("POST %s status = %d", path, resp.StatusCode)
		}
		var obj map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		return obj
	}

	for _, task := range []string{"prefrontal", "temporal", "occipital", "parietal"} {
		post("/api/v1/tasks/record", `{"task":"`+task+`"}`)
	}
	got := post("/api/v1/tasks/record", `{"task":"cerebellum"}`)
	if got["streak"] != float64(1) {
		t.Fatalf("streak after 5 tasks = %v, want 1", got["streak"])
	}

	// re-recording a finished task does not change the day's credit
	got = post("/api/v1/tasks/record", `{"task":"temporal"}`)
	if got["streak"] != float64(1) {
		t.Fatalf("streak after repeat = %v, want 1", got["streak"])
	}
}
