package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"towerdefense_backend/internal/config"
	httpserver "towerdefense_backend/internal/http"
	"towerdefense_backend/internal/http/handlers"
	"towerdefense_backend/internal/service"
	"towerdefense_backend/internal/store"
	"towerdefense_backend/internal/ws"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxLives:          5,
		LifeRegenInterval: 30 * time.Minute,
		StartingGems:      50,
		APIRateLimit:      100,
		APIRateWindow:     time.Minute,
		AuthRateLimit:     100,
		AuthRateWindow:    time.Minute,
	}
}

func postJSON(t *testing.T, ts *httptest.Server, path, token string, body any) map[string]any {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s: status %d", path, resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return out
}

func getJSON(t *testing.T, ts *httptest.Server, path, token string) map[string]any {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return out
}

func TestAPIEventFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")

	st := store.NewMemoryStore()
	hub := ws.NewHub()
	cfg := testConfig()
	h := handlers.NewHandler(st, cfg, nil, hub, rand.New(rand.NewSource(7)))

	r := gin.New()
	httpserver.RegisterRoutes(r, h, hub, nil, cfg, "test")
	ts := httptest.NewServer(r)
	defer ts.Close()

	authResp := postJSON(t, ts, "/api/v1/auth", "", map[string]any{"device_id": "api-test-device"})
	token, _ := authResp["token"].(string)
	if token == "" {
		t.Fatalf("auth: no token in response %v", authResp)
	}
	playerID := int64(authResp["player_id"].(float64))

	// стартовые 50 + 10 за первый день серии логинов
	me := getJSON(t, ts, "/api/v1/me", token)
	if g := me["gems"].(float64); g != 60 {
		t.Fatalf("gems after auth = %v; want 60", g)
	}
	if c := me["coins"].(float64); c != 500 {
		t.Fatalf("coins after auth = %v; want 500", c)
	}
	if l := me["lives"].(float64); l != 5 {
		t.Fatalf("lives = %v; want 5", l)
	}

	ev := postJSON(t, ts, "/api/v1/events", token, map[string]any{
		"name":       "enemy_killed",
		"amount":     1,
		"session_id": "s1",
	})
	if xp := ev["xp_awarded"].(float64); xp != 2 {
		t.Fatalf("xp_awarded = %v; want 2", xp)
	}
	if m := ev["xp_multiplier"].(float64); m != 1 {
		t.Fatalf("xp_multiplier = %v; want 1", m)
	}

	// VIP 2 удваивает полтора раза: floor(2 * 1.5) = 3
	if _, err := h.Monetization.ActivateVIP(context.Background(), playerID, 2, 30, time.Now()); err != nil {
		t.Fatalf("activate vip: %v", err)
	}

	ev = postJSON(t, ts, "/api/v1/events", token, map[string]any{
		"name":       "enemy_killed",
		"amount":     1,
		"session_id": "s1",
	})
	if xp := ev["xp_awarded"].(float64); xp != 3 {
		t.Fatalf("xp_awarded with vip = %v; want 3", xp)
	}
	if m := ev["xp_multiplier"].(float64); m != 1.5 {
		t.Fatalf("xp_multiplier with vip = %v; want 1.5", m)
	}
}

func TestWSSnapshotPush(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")

	st := store.NewMemoryStore()
	hub := ws.NewHub()
	cfg := testConfig()
	h := handlers.NewHandler(st, cfg, nil, hub, rand.New(rand.NewSource(7)))

	r := gin.New()
	httpserver.RegisterRoutes(r, h, hub, nil, cfg, "test")
	ts := httptest.NewServer(r)
	defer ts.Close()

	authResp := postJSON(t, ts, "/api/v1/auth", "", map[string]any{"device_id": "ws-test-device"})
	token := authResp["token"].(string)

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.RunSweeps(ctx, 50*time.Millisecond)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("no snapshot within deadline: %v", err)
		}
		var obj map[string]any
		if err := json.Unmarshal(msg, &obj); err != nil {
			t.Fatalf("unmarshal ws message: %v", err)
		}
		if obj["type"] == "snapshot" {
			payload, ok := obj["payload"].(map[string]any)
			if !ok {
				t.Fatalf("snapshot without payload: %s", msg)
			}
			if _, ok := payload["lives"]; !ok {
				t.Fatalf("snapshot payload missing lives: %s", msg)
			}
			return
		}
	}
}
