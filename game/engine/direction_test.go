package engine

import "testing"

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input  string
		want   Direction
		wantOK bool
	}{
		{"n", North, true},
		{"N", North, true},
		{"north", North, true},
		{"up", North, true},
		{"s", South, true},
		{" South ", South, true},
		{"down", South, true},
		{"e", East, true},
		{"EAST", East, true},
		{"right", East, true},
		{"w", West, true},
		{"west", West, true},
		{"left", West, true},
		{"", "", false},
		{"x", "", false},
		{"ne", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDirection(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseDirection(%q) = %q, %t; want %q, %t", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDirection_Delta(t *testing.T) {
	start := Position{Row: 5, Col: 5}
	tests := []struct {
		dir  Direction
		want Position
	}{
		{North, Position{Row: 4, Col: 5}},
		{South, Position{Row: 6, Col: 5}},
		{East, Position{Row: 5, Col: 6}},
		{West, Position{Row: 5, Col: 4}},
		{Direction("z"), start},
	}

	for _, tt := range tests {
		if got := start.Add(tt.dir); got != tt.want {
			t.Errorf("%+v.Add(%q) = %+v, want %+v", start, tt.dir, got, tt.want)
		}
	}
}

func TestTileKind_Walkable(t *testing.T) {
	for _, kind := range []TileKind{Empty, ActorStart, Collectible, DropPoint, Boost, Slide} {
		if !kind.Walkable() {
			t.Errorf("Expected %s to be walkable", kind)
		}
	}
	if Wall.Walkable() {
		t.Error("Walls must not be walkable")
	}
}

func TestRenderASCII(t *testing.T) {
	eng := newTestEngine(t, createTestConfig())
	got := RenderASCII(eng.Snapshot().Board, eng.Position())
	want := "#####\n#@GH#\n#.#.#\n#...#\n#####"
	if got != want {
		t.Errorf("RenderASCII mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFindNearest(t *testing.T) {
	eng := NewEngineWithDefaults()
	pos, dist, ok := FindNearest(eng.Snapshot().Board, eng.Position(), Collectible)
	if !ok {
		t.Fatal("Expected to find a collectible")
	}
	if pos != (Position{Row: 1, Col: 4}) || dist != 3 {
		t.Errorf("Expected nearest collectible at (1,4) distance 3, got %+v distance %d", pos, dist)
	}
}
