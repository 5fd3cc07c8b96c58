package action_test

import (
	"errors"
	"testing"

	"github.com/louisbranch/stanks.space/internal/arena/action"
)

func TestShare(t *testing.T) {
	g, p1, p2 := newActiveGame(t, 3)

	if err := action.Share(g, p1.ID, p2.ID, 2); err != nil {
		t.Fatalf("share: %v", err)
	}

	sender := player(t, g, p1.ID)
	receiver := player(t, g, p2.ID)
	if sender.Points != 1 {
		t.Fatalf("sender points = %d, want 1", sender.Points)
	}
	if receiver.Points != 5 {
		t.Fatalf("receiver points = %d, want 5", receiver.Points)
	}

	logs := g.Log()
	if logs[len(logs)-1] != "aler.btc shares 2 to trevor.btc" {
		t.Fatalf("last log = %q", logs[len(logs)-1])
	}
}

func TestShareSpendingAllPointsConfirms(t *testing.T) {
	g, p1, p2 := newActiveGame(t, 2)

	if err := action.Share(g, p1.ID, p2.ID, 2); err != nil {
		t.Fatalf("share: %v", err)
	}

	sender := player(t, g, p1.ID)
	if sender.Points != 0 {
		t.Fatalf("sender points = %d, want 0", sender.Points)
	}
	if !sender.NextRound {
		t.Fatal("expected auto-confirm after sharing the last points")
	}
}

func TestShareValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T) error
		want error
	}{
		{
			name: "sender not found",
			run: func(t *testing.T) error {
				g, _, p2 := newActiveGame(t, 3)
				return action.Share(g, "missing", p2.ID, 1)
			},
			want: action.ErrSenderNotFound,
		},
		{
			name: "receiver not found",
			run: func(t *testing.T) error {
				g, p1, _ := newActiveGame(t, 3)
				return action.Share(g, p1.ID, "missing", 1)
			},
			want: action.ErrReceiverNotFound,
		},
		{
			name: "already confirmed",
			run: func(t *testing.T) error {
				g, p1, p2 := newActiveGame(t, 3)
				if err := g.ConfirmMove(p1.ID, true); err != nil {
					t.Fatalf("confirm: %v", err)
				}
				return action.Share(g, p1.ID, p2.ID, 1)
			},
			want: action.ErrActionNotAllowed,
		},
		{
			name: "zero amount",
			run: func(t *testing.T) error {
				g, p1, p2 := newActiveGame(t, 3)
				return action.Share(g, p1.ID, p2.ID, 0)
			},
			want: action.ErrInvalidShareAmount,
		},
		{
			name: "amount above balance",
			run: func(t *testing.T) error {
				g, p1, p2 := newActiveGame(t, 2)
				return action.Share(g, p1.ID, p2.ID, 3)
			},
			want: action.ErrInsufficientPoints,
		},
		{
			name: "receiver out of range",
			run: func(t *testing.T) error {
				g, p1, p2 := newActiveGame(t, 3)
				if err := g.SetPlayerPosition(p2.ID, 9, 9); err != nil {
					t.Fatalf("set position: %v", err)
				}
				return action.Share(g, p1.ID, p2.ID, 1)
			},
			want: action.ErrShareOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(t); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
