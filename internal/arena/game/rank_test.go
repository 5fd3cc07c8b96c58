package game

import (
	"errors"
	"testing"
)

func TestPlace(t *testing.T) {
	g, _ := newTestGame(2)
	p1 := mustSpawn(t, g, 0, 0, "aler.btc")
	p2 := mustSpawn(t, g, 1, 1, "trevor.btc")
	p3 := mustSpawn(t, g, 2, 2, "algorithm.btc")

	if err := g.SetPlayerPoints(p1.ID, 5); err != nil {
		t.Fatalf("set points: %v", err)
	}
	if err := g.SetPlayerPoints(p2.ID, 3); err != nil {
		t.Fatalf("set points: %v", err)
	}
	if err := g.SetPlayerPoints(p3.ID, 8); err != nil {
		t.Fatalf("set points: %v", err)
	}

	tests := []struct {
		playerID string
		want     string
	}{
		{playerID: p3.ID, want: "1st"},
		{playerID: p1.ID, want: "2nd"},
		{playerID: p2.ID, want: "3th"},
	}
	for _, tt := range tests {
		got, err := g.Place(tt.playerID)
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if got != tt.want {
			t.Fatalf("place(%s) = %q, want %q", tt.playerID, got, tt.want)
		}
	}

	if _, err := g.Place("missing"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestPlaceIgnoresEliminated(t *testing.T) {
	g, _ := newTestGame(2)
	p1 := mustSpawn(t, g, 0, 0, "aler.btc")
	p2 := mustSpawn(t, g, 1, 1, "trevor.btc")

	if err := g.SetPlayerPoints(p2.ID, 9); err != nil {
		t.Fatalf("set points: %v", err)
	}
	if err := g.SetPlayerDie(p2.ID); err != nil {
		t.Fatalf("set die: %v", err)
	}

	got, err := g.Place(p1.ID)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if got != "1st" {
		t.Fatalf("place = %q, want 1st once rival is eliminated", got)
	}
}

func TestLeader(t *testing.T) {
	g, _ := newTestGame(2)

	if _, err := g.Leader(); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound on empty roster, got %v", err)
	}

	p1 := mustSpawn(t, g, 0, 0, "aler.btc")
	p2 := mustSpawn(t, g, 1, 1, "trevor.btc")
	if err := g.SetPlayerPoints(p2.ID, 4); err != nil {
		t.Fatalf("set points: %v", err)
	}

	leader, err := g.Leader()
	if err != nil {
		t.Fatalf("leader: %v", err)
	}
	if leader.ID != p2.ID {
		t.Fatalf("leader = %s, want %s", leader.ID, p2.ID)
	}

	// Ties resolve to roster order.
	if err := g.SetPlayerPoints(p1.ID, 4); err != nil {
		t.Fatalf("set points: %v", err)
	}
	leader, err = g.Leader()
	if err != nil {
		t.Fatalf("leader: %v", err)
	}
	if leader.ID != p1.ID {
		t.Fatalf("tied leader = %s, want first joined %s", leader.ID, p1.ID)
	}
}
