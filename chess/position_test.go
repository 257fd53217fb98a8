package chess

import "testing"

func TestMakeUnmakeRoundTrip(t *testing.T) {
	p := NewPosition()
	startFEN := p.FEN()

	var walk func(depth int)
	walk = func(depth int) {
		if depth == 0 {
			return
		}
		for _, m := range p.LegalMoves() {
			before := p.FEN()
			p.Make(m)
			walk(depth - 1)
			p.Unmake()
			after := p.FEN()
			if before != after {
				t.Fatalf("Make/Unmake(%v) did not restore FEN: before %q, after %q", m, before, after)
			}
		}
	}
	walk(3)

	if got := p.FEN(); got != startFEN {
		t.Fatalf("position mutated across walk: got %q, want %q", got, startFEN)
	}
}

func TestMakeUnmakeRestoresHash(t *testing.T) {
	p := NewPosition()
	wantHash := p.Hash
	for _, s := range []string{"e2e4", "e7e5", "g1f3"} {
		m, err := p.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		p.Make(m)
	}
	for i := 0; i < 3; i++ {
		p.Unmake()
	}
	if p.Hash != wantHash {
		t.Errorf("Hash after round trip = %x, want %x", p.Hash, wantHash)
	}
}

func TestNoSideEverLeftInCheckAfterItsOwnMove(t *testing.T) {
	p := NewPosition()
	for _, s := range []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5"} {
		m, err := p.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		p.Make(m)
		mover := p.Side.Other()
		if p.squareAttackedBy(p.KingSquare(mover), p.Side) {
			t.Fatalf("after %q, the side that just moved (%v) is in check", s, mover)
		}
	}
}

func TestLegalMovesAreSubsetOfValidPositionsAfterMaking(t *testing.T) {
	p := NewPosition()
	for _, m := range p.LegalMoves() {
		p.Make(m)
		if errs := p.Validate(); len(errs) > 0 {
			t.Errorf("after making %v, Validate() = %v", m, errs)
		}
		p.Unmake()
	}
}

func TestCapturesAndNonCapturesPartitionLegalMoves(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	p := NewPosition()
	if err := p.SetFEN(fen); err != nil {
		t.Fatal(err)
	}
	all := p.LegalMoves()
	caps := p.LegalCaptures()
	nonCaps := p.LegalNonCaptures()
	if len(caps)+len(nonCaps) != len(all) {
		t.Fatalf("captures(%d) + non-captures(%d) != legal moves(%d)", len(caps), len(nonCaps), len(all))
	}
	seen := make(map[Move]bool)
	for _, m := range caps {
		if !m.IsCapture() {
			t.Errorf("LegalCaptures returned non-capture %v", m)
		}
		seen[m] = true
	}
	for _, m := range nonCaps {
		if m.IsCapture() {
			t.Errorf("LegalNonCaptures returned a capture %v", m)
		}
		if seen[m] {
			t.Errorf("move %v appears in both LegalCaptures and LegalNonCaptures", m)
		}
	}
}

func TestStartingPositionHasTwentyMoves(t *testing.T) {
	p := NewPosition()
	if got := len(p.LegalMoves()); got != 20 {
		t.Errorf("LegalMoves() from start = %d, want 20", got)
	}
}

func TestFoolsMateIsCheckmate(t *testing.T) {
	p := NewPosition()
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := p.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		p.Make(m)
	}
	if !p.IsCheckmate() {
		t.Error("expected checkmate after fool's mate sequence")
	}
	if len(p.LegalMoves()) != 0 {
		t.Error("checkmate position should have no legal moves")
	}
}

func TestStalemate(t *testing.T) {
	// Classic stalemate: black king in the corner, no legal moves, not in check.
	p := NewPosition()
	if err := p.SetFEN("k7/8/1Q6/8/8/8/8/7K b - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if p.InCheck() {
		t.Fatal("test position should not be in check")
	}
	if !p.IsStalemate() {
		t.Errorf("expected stalemate, legal moves = %v", p.LegalMoves())
	}
}

func TestFiftyMoveRule(t *testing.T) {
	p := NewPosition()
	p.HalfmoveClock = 100
	if !p.Fiftymoves() {
		t.Error("Fiftymoves() should be true at halfmove clock 100")
	}
	if !p.IsDraw() {
		t.Error("IsDraw() should be true under the fifty-move rule")
	}
}

func TestInsufficientMaterialIsNotADraw(t *testing.T) {
	// King and pawn vs. king: nowhere near a draw by the rules this
	// library implements, but a tempting false positive for anyone
	// who conflates "can't make progress" with IsDraw.
	p := NewPosition()
	if err := p.SetFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if p.IsDraw() {
		t.Error("IsDraw() should be false for king+pawn vs king; insufficient material is not detected")
	}
}

func TestThreefoldRepetitionViaKnightShuffle(t *testing.T) {
	p := NewPosition()
	moves := []string{
		"g1f3", "g8f6",
		"f3g1", "f6g8",
		"g1f3", "g8f6",
		"f3g1", "f6g8",
	}
	for _, s := range moves {
		m, err := p.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		p.Make(m)
	}
	if !p.Threefold() {
		t.Error("expected threefold repetition after knight shuffle")
	}
	if !p.IsDraw() {
		t.Error("expected IsDraw() to report the repetition")
	}
}

func TestNonRepeatedPositionIsNotADraw(t *testing.T) {
	p := NewPosition()
	m, err := p.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	p.Make(m)
	if p.IsDraw() {
		t.Error("single move from the starting position should not be a draw")
	}
}

func TestPinnedPieceRestrictedToPinRay(t *testing.T) {
	p := NewPosition()
	// White king e1, white bishop d2 pinned by black bishop on a5 along
	// the a5-e1 diagonal.
	if err := p.SetFEN("4k3/8/8/b7/8/8/3B4/4K3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	pinned := p.Pinned(White)
	if !pinned.Has(D2) {
		t.Fatalf("expected d2 to be pinned, pinned = %064b", uint64(pinned))
	}
	for _, m := range p.LegalMoves() {
		if m.From() != D2 {
			continue
		}
		if !p.PinRay(White, D2).Has(m.To()) {
			t.Errorf("pinned bishop move %v leaves the pin ray", m)
		}
	}
}

func TestDoubleCheckOnlyAllowsKingMoves(t *testing.T) {
	p := NewPosition()
	// Contrived double-check position: white king e1 attacked by a black
	// rook on e8 (file) and a black bishop on h4 (diagonal).
	if err := p.SetFEN("4r3/k7/8/8/7b/8/8/4K3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if p.Checkers.PopCount() < 2 {
		t.Fatalf("expected double check, checkers = %064b", uint64(p.Checkers))
	}
	for _, m := range p.LegalMoves() {
		if m.MovedPiece() != King {
			t.Errorf("double check allowed a non-king move: %v", m)
		}
	}
}

func TestEnPassantDiscoveredCheckIsIllegal(t *testing.T) {
	p := NewPosition()
	// The rank-pin shape: white king on e5, white pawn d5, black rook a5,
	// black pawn c5 (just
	// played c7-c5). Capturing en passant (d5xc6) would empty d5 and c5,
	// exposing e5 to the rook along the fifth rank.
	if err := p.SetFEN("7k/8/8/r1pPK3/8/8/8/8 w - c6 0 1"); err != nil {
		t.Fatal(err)
	}
	for _, m := range p.LegalMoves() {
		if m.Kind() == EnPassant {
			t.Errorf("en passant capture %v should be illegal (discovered rank check)", m)
		}
	}
}

func TestCastlingBlockedByAttackedTransitSquare(t *testing.T) {
	p := NewPosition()
	// White king e1, rook h1, rights intact, but f1 is attacked by a
	// black bishop on a6 so kingside castling must be refused.
	if err := p.SetFEN("4k3/8/b7/8/8/8/8/4K2R w K - 0 1"); err != nil {
		t.Fatal(err)
	}
	for _, m := range p.LegalMoves() {
		if m.IsCastle() {
			t.Errorf("castling move %v should be illegal, f1 is attacked", m)
		}
	}
}
