package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memchatrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/chatrepo"
	memmemoryrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/memoryrepo"
	memnotificationrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/notificationrepo"
	memtriprepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/userrepo"
	"github.com/nomadnova/nomadnova-api/internal/app/analytics"
	"github.com/nomadnova/nomadnova-api/internal/app/chat"
	"github.com/nomadnova/nomadnova-api/internal/app/memories"
	"github.com/nomadnova/nomadnova-api/internal/app/notifications"
	"github.com/nomadnova/nomadnova-api/internal/app/trips"
	"github.com/nomadnova/nomadnova-api/internal/app/users"
	"github.com/nomadnova/nomadnova-api/internal/platform/auth"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	tripRepo := memtriprepo.NewRepo()
	userRepo := memuserrepo.NewRepo()
	notificationRepo := memnotificationrepo.NewRepo()
	chatRepo := memchatrepo.NewRepo()
	memoryRepo := memmemoryrepo.NewRepo()

	tokens := auth.NewTokens("test-secret", time.Hour)
	clk := fixedClock{now: testNow}

	userSvc := users.NewService(userRepo, tokens, clk)
	tripSvc := trips.NewService(tripRepo, userRepo, notificationRepo, clk)
	chatSvc := chat.NewService(chatRepo, tripRepo, clk)
	memorySvc := memories.NewService(memoryRepo, tripRepo, clk)
	notificationSvc := notifications.NewService(notificationRepo)
	analyticsSvc := analytics.NewService(tripRepo, userRepo)

	api := NewServer(userSvc, tripSvc, chatSvc, memorySvc, notificationSvc, analyticsSvc, nil, slog.Default(), 20)
	return NewRouter(api, NewAuthMiddleware(tokens), []string{"*"})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error envelope in %q", rec.Body.String())
	}
	code, _ := e["code"].(string)
	return code
}

func signupAndLogin(t *testing.T, h http.Handler, email string) (userID, token string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/signup", "", map[string]any{
		"email":    email,
		"password": "correct horse",
		"fullName": "User " + email,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: status=%d body=%s", email, rec.Code, rec.Body.String())
	}
	user := decodeBody(t, rec)["user"].(map[string]any)

	rec = doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    email,
		"password": "correct horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status=%d body=%s", email, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	return user["id"].(string), body["token"].(string)
}

func postTrip(t *testing.T, h http.Handler, token string, maxPeople int) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/trips", token, map[string]any{
		"destination": "Lisbon",
		"departure":   "Berlin",
		"fromDate":    testNow.Add(24 * time.Hour).Format(time.RFC3339),
		"toDate":      testNow.Add(72 * time.Hour).Format(time.RFC3339),
		"transport":   "plane",
		"budget":      "mid",
		"maxPeople":   maxPeople,
		"category":    "city",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("post trip: status=%d body=%s", rec.Code, rec.Body.String())
	}
	trip := decodeBody(t, rec)["trip"].(map[string]any)
	return trip["id"].(string)
}

func TestRouter_RequiresAuth(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/trips", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", rec.Code)
	}
	if code := errorCode(t, rec); code != "UNAUTHORIZED" {
		t.Fatalf("code=%s", code)
	}

	rec = doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rec.Code)
	}
}

func TestRouter_JoinWorkflow(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	_, orgToken := signupAndLogin(t, h, "org@example.com")
	_, aliceToken := signupAndLogin(t, h, "alice@example.com")
	_, bobToken := signupAndLogin(t, h, "bob@example.com")

	tripID := postTrip(t, h, orgToken, 1)

	// Organizer cannot join their own trip.
	rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/join", orgToken, nil)
	if rec.Code != http.StatusConflict || errorCode(t, rec) != "SELF_JOIN_REJECTED" {
		t.Fatalf("status=%d code=%s", rec.Code, errorCode(t, rec))
	}

	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/join", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("join: status=%d body=%s", rec.Code, rec.Body.String())
	}
	trip := decodeBody(t, rec)["trip"].(map[string]any)
	if trip["status"] != "FULL" || trip["spotsLeft"].(float64) != 0 {
		t.Fatalf("trip=%v", trip)
	}

	// Second joiner hits capacity, not a generic failure.
	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/join", bobToken, nil)
	if rec.Code != http.StatusConflict || errorCode(t, rec) != "TRIP_FULL" {
		t.Fatalf("status=%d code=%s", rec.Code, errorCode(t, rec))
	}

	// Alice re-joining is ALREADY_JOINED.
	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/join", aliceToken, nil)
	if errorCode(t, rec) != "ALREADY_JOINED" {
		t.Fatalf("code=%s", errorCode(t, rec))
	}

	// Abandon reopens the trip for Bob.
	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/abandon", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("abandon: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/join", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rejoin: status=%d body=%s", rec.Code, rec.Body.String())
	}

	// The organizer has join notifications.
	rec = doJSON(t, h, http.MethodGet, "/notifications", orgToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("notifications: status=%d", rec.Code)
	}
	ns := decodeBody(t, rec)["notifications"].([]any)
	if len(ns) < 2 {
		t.Fatalf("notifications=%d, want >= 2", len(ns))
	}
}

func TestRouter_PostTrip_ValidationEnvelope(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	_, token := signupAndLogin(t, h, "org@example.com")

	rec := doJSON(t, h, http.MethodPost, "/trips", token, map[string]any{
		"destination": "Lisbon",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	e := body["error"].(map[string]any)
	if e["code"] != "MISSING_REQUIRED_FIELD" {
		t.Fatalf("code=%v", e["code"])
	}
	details := e["details"].(map[string]any)
	missing := details["missing"].([]any)
	if len(missing) != 7 {
		t.Fatalf("missing=%v", missing)
	}
	if e["requestId"] == nil || e["requestId"] == "" {
		t.Fatalf("missing requestId in envelope: %v", e)
	}
}

func TestRouter_CancelTrip_Authz(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	_, orgToken := signupAndLogin(t, h, "org@example.com")
	_, aliceToken := signupAndLogin(t, h, "alice@example.com")

	tripID := postTrip(t, h, orgToken, 3)
	if rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/join", aliceToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("join: status=%d", rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/cancel", aliceToken, nil)
	if rec.Code != http.StatusForbidden || errorCode(t, rec) != "NOT_AUTHORIZED" {
		t.Fatalf("status=%d code=%s", rec.Code, errorCode(t, rec))
	}

	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/cancel", orgToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status=%d body=%s", rec.Code, rec.Body.String())
	}
	trip := decodeBody(t, rec)["trip"].(map[string]any)
	if trip["status"] != "CANCELLED" {
		t.Fatalf("status=%v", trip["status"])
	}

	// Member received the cancellation notice.
	rec = doJSON(t, h, http.MethodGet, "/notifications", aliceToken, nil)
	ns := decodeBody(t, rec)["notifications"].([]any)
	found := false
	for _, raw := range ns {
		n := raw.(map[string]any)
		if n["type"] == "trip_cancelled" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no trip_cancelled notification: %v", ns)
	}
}

func TestRouter_ChatAndMemories(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	_, orgToken := signupAndLogin(t, h, "org@example.com")
	_, aliceToken := signupAndLogin(t, h, "alice@example.com")

	tripID := postTrip(t, h, orgToken, 3)
	if rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/join", aliceToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("join: status=%d", rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/messages", aliceToken, map[string]any{"body": "hello"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("post message: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/trips/"+tripID+"/messages", orgToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list messages: status=%d", rec.Code)
	}
	ms := decodeBody(t, rec)["messages"].([]any)
	if len(ms) != 1 {
		t.Fatalf("messages=%d, want 1", len(ms))
	}

	rec = doJSON(t, h, http.MethodPost, "/trips/"+tripID+"/memories", aliceToken, map[string]any{
		"photoUrl": "https://img.example/1.jpg",
		"caption":  "sunset",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("post memory: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodGet, "/memories/mine", aliceToken, nil)
	mems := decodeBody(t, rec)["memories"].([]any)
	if len(mems) != 1 {
		t.Fatalf("memories=%d, want 1", len(mems))
	}
}

func TestRouter_Leaderboard(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	tokens := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		_, token := signupAndLogin(t, h, fmt.Sprintf("user%d@example.com", i))
		tokens = append(tokens, token)
	}

	rec := doJSON(t, h, http.MethodGet, "/leaderboard", tokens[0], nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: status=%d", rec.Code)
	}
	board := decodeBody(t, rec)["leaderboard"].([]any)
	if len(board) != 3 {
		t.Fatalf("entries=%d, want 3", len(board))
	}
}

func TestRouter_AdminAnalytics(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	_, token := signupAndLogin(t, h, "plain@example.com")

	rec := doJSON(t, h, http.MethodGet, "/admin/analytics", token, nil)
	if rec.Code != http.StatusForbidden || errorCode(t, rec) != "NOT_AUTHORIZED" {
		t.Fatalf("status=%d code=%s", rec.Code, errorCode(t, rec))
	}
}
