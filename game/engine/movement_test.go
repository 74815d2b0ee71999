package engine

import (
	"fmt"
	"testing"
)

func levelWithLayout(maxMoves int, layout ...string) *GameConfig {
	return &GameConfig{
		Name:     "movement_test",
		MaxMoves: maxMoves,
		Layout:   layout,
	}
}

func TestMovement_Pickup(t *testing.T) {
	eng := newTestEngine(t, createTestConfig())

	eng.Move("e")

	snap := eng.Snapshot()
	if snap.Actor != (Position{Row: 1, Col: 2}) {
		t.Fatalf("Expected actor at (1,2), got %+v", snap.Actor)
	}
	if snap.Board[1][2] != Empty {
		t.Errorf("Expected collectible cell cleared, got %s", snap.Board[1][2])
	}
	if snap.Bag != 1 || snap.Score != CollectibleScore {
		t.Errorf("Expected bag 1 and score %d, got bag=%d score=%d", CollectibleScore, snap.Bag, snap.Score)
	}
	if snap.History[0].Message != DefaultMessages().Pickup {
		t.Errorf("Expected pickup log entry, got %q", snap.History[0].Message)
	}
	if snap.MovesUsed != 1 || snap.RemainingMoves != 9 {
		t.Errorf("Expected 1 used / 9 remaining, got %d / %d", snap.MovesUsed, snap.RemainingMoves)
	}
}

func TestMovement_Boost(t *testing.T) {
	tests := []struct {
		name      string
		maxMoves  int
		layout    []string
		moves     []string
		wantMoves int
	}{
		{
			name:     "below cap",
			maxMoves: 20,
			layout: []string{
				"########",
				"#S....C#",
				"#G....H#",
				"########",
			},
			moves:     []string{"e", "e", "e", "e", "e"},
			wantMoves: 19,
		},
		{
			name:     "capped at budget",
			maxMoves: 10,
			layout: []string{
				"#####",
				"#SCG#",
				"#..H#",
				"#####",
			},
			moves:     []string{"e"},
			wantMoves: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine(t, levelWithLayout(tt.maxMoves, tt.layout...))
			for _, m := range tt.moves {
				if got := eng.Move(m); got != OutcomeMoved {
					t.Fatalf("Move(%s): expected moved, got %s", m, got)
				}
			}

			snap := eng.Snapshot()
			if snap.RemainingMoves != tt.wantMoves {
				t.Errorf("Expected %d moves, got %d", tt.wantMoves, snap.RemainingMoves)
			}
			if snap.Score != BoostScore {
				t.Errorf("Expected score %d, got %d", BoostScore, snap.Score)
			}
			if snap.Message != DefaultMessages().BoostNotice {
				t.Errorf("Expected boost notice, got %q", snap.Message)
			}
			if CountTiles(snap.Board, Boost) != 0 {
				t.Error("Expected boost tile to be consumed")
			}
		})
	}
}

func TestMovement_SlideIntoCollectible(t *testing.T) {
	eng := newTestEngine(t, levelWithLayout(10,
		"######",
		"#SIG.#",
		"#...H#",
		"######",
	))

	if got := eng.Move("e"); got != OutcomeMoved {
		t.Fatalf("Expected moved, got %s", got)
	}

	snap := eng.Snapshot()
	if snap.Actor != (Position{Row: 1, Col: 3}) {
		t.Errorf("Expected slide to carry actor to (1,3), got %+v", snap.Actor)
	}
	if snap.Bag != 1 {
		t.Errorf("Expected bag 1, got %d", snap.Bag)
	}
	if snap.RemainingMoves != 8 || snap.MovesUsed != 2 {
		t.Errorf("Expected slide to cost two moves, got remaining=%d used=%d", snap.RemainingMoves, snap.MovesUsed)
	}
	if snap.Board[1][2] != Slide {
		t.Error("Slide tile must stay on the board")
	}
	msgs := DefaultMessages()
	if snap.History[0].Message != msgs.SlidePickup || snap.History[1].Message != msgs.Slide {
		t.Errorf("Expected slide then slide-pickup log entries, got %q, %q",
			snap.History[1].Message, snap.History[0].Message)
	}

	eng.Move("e")
	eng.Move("s")
	if !eng.IsWon() {
		t.Error("Expected the level to be won after delivering")
	}
}

func TestMovement_SlideDoesNotChain(t *testing.T) {
	eng := newTestEngine(t, levelWithLayout(10,
		"#######",
		"#SII..#",
		"#G...H#",
		"#######",
	))

	eng.Move("e")

	if got := eng.Position(); got != (Position{Row: 1, Col: 3}) {
		t.Errorf("Expected a single extra cell on slide, got %+v", got)
	}
	if eng.MovesRemaining() != 8 {
		t.Errorf("Expected 8 moves, got %d", eng.MovesRemaining())
	}
}

func TestMovement_SlideBlocked(t *testing.T) {
	eng := newTestEngine(t, levelWithLayout(10,
		"####",
		"#SI#",
		"#GH#",
		"####",
	))

	eng.Move("e")

	snap := eng.Snapshot()
	if snap.Actor != (Position{Row: 1, Col: 2}) {
		t.Errorf("Expected actor to stop on the slide tile, got %+v", snap.Actor)
	}
	if snap.RemainingMoves != 9 {
		t.Errorf("Expected only the base move to be charged, got %d remaining", snap.RemainingMoves)
	}
	if snap.History[0].Message == DefaultMessages().Slide {
		t.Error("Blocked slide must not be logged as a slide")
	}
}

func TestMovement_SlideWithoutMovesLeft(t *testing.T) {
	eng := newTestEngine(t, levelWithLayout(1,
		"#####",
		"#SIG#",
		"#..H#",
		"#####",
	))

	eng.Move("e")

	snap := eng.Snapshot()
	if snap.Actor != (Position{Row: 1, Col: 2}) {
		t.Errorf("Expected no slide with an exhausted budget, got %+v", snap.Actor)
	}
	if snap.Bag != 0 {
		t.Error("Expected collectible beyond the slide to stay put")
	}
	if !snap.IsLost {
		t.Error("Expected the run to be lost")
	}
}

func TestMovement_SlideOntoBoost(t *testing.T) {
	eng := newTestEngine(t, levelWithLayout(10,
		"######",
		"#SIC.#",
		"#G..H#",
		"######",
	))

	eng.Move("e")

	snap := eng.Snapshot()
	if snap.RemainingMoves != 10 {
		t.Errorf("Expected boost after slide to cap at 10, got %d", snap.RemainingMoves)
	}
	if snap.Score != BoostScore {
		t.Errorf("Expected score %d, got %d", BoostScore, snap.Score)
	}
	if snap.Message != DefaultMessages().BoostNotice {
		t.Errorf("Expected boost notice, got %q", snap.Message)
	}
	if snap.History[0].Message != DefaultMessages().SlideBoost {
		t.Errorf("Expected slide-boost log entry, got %q", snap.History[0].Message)
	}
}

func TestMovement_DeliveryIsAllOrNothing(t *testing.T) {
	eng := newTestEngine(t, levelWithLayout(10,
		"######",
		"#SGGH#",
		"#....#",
		"######",
	))

	eng.Move("e")
	eng.Move("e")
	if eng.Bag() != 2 {
		t.Fatalf("Expected bag 2, got %d", eng.Bag())
	}
	eng.Move("e")

	snap := eng.Snapshot()
	if snap.Bag != 0 || snap.Delivered != 2 {
		t.Errorf("Expected whole bag delivered, got bag=%d delivered=%d", snap.Bag, snap.Delivered)
	}
	wantScore := 2*CollectibleScore + 2*DeliveryScorePerItem
	if snap.Score != wantScore {
		t.Errorf("Expected score %d, got %d", wantScore, snap.Score)
	}
	if snap.History[1].Message != fmt.Sprintf(DefaultMessages().Delivered, 2) {
		t.Errorf("Expected delivery log entry, got %q", snap.History[1].Message)
	}
	if snap.History[0].Message != DefaultMessages().Victory {
		t.Errorf("Expected victory as the newest entry, got %q", snap.History[0].Message)
	}
}

func TestMovement_DropPointWithEmptyBag(t *testing.T) {
	eng := newTestEngine(t, levelWithLayout(10,
		"#####",
		"#SHG#",
		"#...#",
		"#####",
	))

	eng.Move("e")

	snap := eng.Snapshot()
	if snap.Delivered != 0 || snap.Score != 0 {
		t.Errorf("Expected no delivery with an empty bag, got delivered=%d score=%d", snap.Delivered, snap.Score)
	}
	if snap.Board[1][2] != DropPoint {
		t.Error("Drop points are never consumed")
	}

	eng.Move("e")
	eng.Move("w")
	if !eng.IsWon() {
		t.Error("Expected delivery on the way back to win")
	}
}

func TestMovement_NoticeClearedEachStep(t *testing.T) {
	eng := newTestEngine(t, createTestConfig())

	eng.Move("n")
	if eng.Snapshot().Message == "" {
		t.Fatal("Expected a blocked notice")
	}
	eng.Move("s")
	if msg := eng.Snapshot().Message; msg != "" {
		t.Errorf("Expected notice to be cleared by a plain move, got %q", msg)
	}
}

func TestMovement_CustomMessages(t *testing.T) {
	config := createTestConfig()
	config.Messages = Messages{
		Pickup:    "Picked up a battery.",
		Delivered: "Charged %d batteries.",
	}
	eng := newTestEngine(t, config)

	eng.Move("e")
	if got := eng.Snapshot().History[0].Message; got != "Picked up a battery." {
		t.Errorf("Expected custom pickup message, got %q", got)
	}
	eng.Move("e")
	if got := eng.Snapshot().History[1].Message; got != "Charged 1 batteries." {
		t.Errorf("Expected custom delivery message, got %q", got)
	}
	if got := eng.Snapshot().Status; got != DefaultMessages().Victory {
		t.Errorf("Expected default victory status, got %q", got)
	}
}
