package chess

import "testing"

func TestZobristKeysAreDistinct(t *testing.T) {
	seen := make(map[uint64]string)
	record := func(key uint64, label string) {
		if other, ok := seen[key]; ok && key != 0 {
			t.Errorf("zobrist key collision: %q and %q share key %x", other, label, key)
		}
		seen[key] = label
	}

	record(TurnKey(), "turn")
	for i := 0; i < 4; i++ {
		record(CastlingKey(i), "castling-bit")
	}
	for f := 0; f < 8; f++ {
		record(EPKey(f), "ep-file")
	}
	for _, pc := range [6]Piece{Pawn, Knight, Bishop, Rook, Queen, King} {
		for _, side := range [2]Side{White, Black} {
			for sq := A1; sq <= H8; sq++ {
				record(PieceKey(pc, side, sq), "piece-square")
			}
		}
	}
}

func TestHashTracksPosition(t *testing.T) {
	p := NewPosition()
	want := p.computeHash()
	if p.Hash != want {
		t.Fatalf("starting position Hash = %x, want %x", p.Hash, want)
	}

	m, err := p.ParseMove("e2e4")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	p.Make(m)
	if got, want := p.Hash, p.computeHash(); got != want {
		t.Errorf("after Make, Hash = %x, want %x", got, want)
	}

	p.Unmake()
	if got, want := p.Hash, NewPosition().Hash; got != want {
		t.Errorf("after Unmake, Hash = %x, want starting hash %x", got, want)
	}
}

func TestEqualPositionsHaveEqualHash(t *testing.T) {
	a := NewPosition()
	b := NewPosition()
	ma, _ := a.ParseMove("g1f3")
	mb, _ := b.ParseMove("g1f3")
	a.Make(ma)
	b.Make(mb)
	if a.Hash != b.Hash {
		t.Errorf("identical positions reached by identical moves have different hashes: %x vs %x", a.Hash, b.Hash)
	}
}
