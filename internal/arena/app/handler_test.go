package server

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestUpEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/up")
	if err != nil {
		t.Fatalf("get /up: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestCreateAndListGames(t *testing.T) {
	srv := newTestServer(t)

	first := createGame(t, srv)
	second := createGame(t, srv)
	if first == second {
		t.Fatalf("expected distinct game ids, got %q twice", first)
	}

	resp, err := http.Get(srv.URL + "/games")
	if err != nil {
		t.Fatalf("get /games: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Games []string `json:"games"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(body.Games) != 2 {
		t.Fatalf("games = %v, want 2 entries", body.Games)
	}
}

func TestGamesMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/games", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete /games: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestStateEndpoint(t *testing.T) {
	srv := newTestServer(t)
	gameID := createGame(t, srv)

	resp, err := http.Get(srv.URL + "/state?game_id=" + gameID)
	if err != nil {
		t.Fatalf("get /state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var state wsTestStatePayload
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.GameStarted {
		t.Fatal("expected lobby state")
	}
	if state.Winner != nil {
		t.Fatalf("winner = %v, want null", *state.Winner)
	}
}

func TestStateEndpointErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("get /state: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing game_id status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	resp, err = http.Get(srv.URL + "/state?game_id=missing")
	if err != nil {
		t.Fatalf("get /state: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown game status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestNewServerRequiresAddr(t *testing.T) {
	if _, err := NewServer(Config{}); err == nil {
		t.Fatal("expected missing address error")
	}
}

func TestHubCreateAndGet(t *testing.T) {
	hub := newGameHub(2, 0, nil, nil)

	entry, err := hub.create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, ok := hub.get(entry.id)
	if !ok || got != entry {
		t.Fatalf("get(%q) = %v, %v", entry.id, got, ok)
	}
	if _, ok := hub.get("missing"); ok {
		t.Fatal("expected missing game lookup to fail")
	}

	state := entry.state()
	if state.GameStarted {
		t.Fatal("expected fresh game in lobby")
	}
}
