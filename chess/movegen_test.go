package chess

import "testing"

func findMove(moves []Move, s string) (Move, bool) {
	for _, m := range moves {
		if m.String() == s {
			return m, true
		}
	}
	return NoMove, false
}

func TestPromotionGeneratesFourMoves(t *testing.T) {
	p := NewPosition()
	if err := p.SetFEN("8/P6k/8/8/8/8/7K/8 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	var promos []Move
	for _, m := range p.LegalMoves() {
		if m.From() == A7 {
			promos = append(promos, m)
		}
	}
	if len(promos) != 4 {
		t.Fatalf("pawn promotion from a7 produced %d moves, want 4: %v", len(promos), promos)
	}
	want := map[Piece]bool{Queen: true, Rook: true, Bishop: true, Knight: true}
	for _, m := range promos {
		if !want[m.Promotion()] {
			t.Errorf("unexpected promotion piece %v in %v", m.Promotion(), m)
		}
		delete(want, m.Promotion())
	}
	if len(want) != 0 {
		t.Errorf("missing promotion pieces: %v", want)
	}
}

func TestPromotionCaptureIsTaggedAsCapture(t *testing.T) {
	p := NewPosition()
	if err := p.SetFEN("1n5k/P7/8/8/8/8/7K/8 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range p.LegalMoves() {
		if m.From() == A7 && m.To() == B8 {
			found = true
			if !m.IsCapture() {
				t.Errorf("a7xb8 promotion-capture not flagged as capture: %v", m)
			}
			if m.Kind() != PromotionCapture {
				t.Errorf("a7xb8 kind = %v, want PromotionCapture", m.Kind())
			}
		}
	}
	if !found {
		t.Fatal("expected a7xb8 promotion capture among legal moves")
	}
}

func TestEnPassantCaptureIsLegalWhenSafe(t *testing.T) {
	p := NewPosition()
	for _, s := range []string{"e2e4", "a7a6", "e4e5", "d7d5"} {
		m, err := p.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		p.Make(m)
	}
	m, ok := findMove(p.LegalMoves(), "e5d6")
	if !ok {
		t.Fatalf("expected e5d6 en passant to be legal, moves = %v", p.LegalMoves())
	}
	if m.Kind() != EnPassant {
		t.Errorf("e5d6 kind = %v, want EnPassant", m.Kind())
	}
}

func TestKingsideCastlingAvailableWhenClear(t *testing.T) {
	p := NewPosition()
	if err := p.SetFEN("4k2r/8/8/8/8/8/8/4K2R w K - 0 1"); err != nil {
		t.Fatal(err)
	}
	m, ok := findMove(p.LegalMoves(), "e1g1")
	if !ok {
		t.Fatalf("expected kingside castle to be legal, moves = %v", p.LegalMoves())
	}
	if m.Kind() != KingsideCastle {
		t.Errorf("e1g1 kind = %v, want KingsideCastle", m.Kind())
	}
}

func TestQueensideCastlingBlockedByOccupiedSquare(t *testing.T) {
	p := NewPosition()
	if err := p.SetFEN("4k3/8/8/8/8/8/8/RN2K3 w Q - 0 1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := findMove(p.LegalMoves(), "e1c1"); ok {
		t.Error("queenside castle should be blocked by the knight on b1")
	}
}

func TestSingleCheckRestrictsToBlockOrCapture(t *testing.T) {
	p := NewPosition()
	// White king e1, black rook e8 gives check along the e-file. The
	// only non-king way out is to block or capture on the file.
	if err := p.SetFEN("4r3/k7/8/8/8/3B4/8/4K3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if p.Checkers.PopCount() != 1 {
		t.Fatalf("expected single check, checkers = %064b", uint64(p.Checkers))
	}
	for _, m := range p.LegalMoves() {
		if m.MovedPiece() == King {
			continue
		}
		if m.To().File() != E1.File() {
			t.Errorf("non-king move %v does not block the e-file check", m)
		}
	}
}

func TestKnightMovesFromCenterSquare(t *testing.T) {
	p := NewPosition()
	if err := p.SetFEN("4k3/8/8/8/3N4/8/8/4K3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	var knightMoves int
	for _, m := range p.LegalMoves() {
		if m.MovedPiece() == Knight {
			knightMoves++
		}
	}
	if knightMoves != 8 {
		t.Errorf("knight on d4 has %d legal moves, want 8", knightMoves)
	}
}

func TestIsLegalAgreesWithLegalMoves(t *testing.T) {
	p := NewPosition()
	legal := p.LegalMoves()
	for _, m := range legal {
		if !p.IsLegal(m) {
			t.Errorf("IsLegal(%v) = false, but it is in LegalMoves()", m)
		}
	}
	bogus := newMove(A1, A8, Rook, NoPiece, Normal, NoPiece)
	if p.IsLegal(bogus) {
		t.Error("IsLegal should reject a move not in LegalMoves")
	}
}
