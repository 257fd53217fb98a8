package chess

import (
	"fmt"
	"strings"
)

// UndoRecord is the information Unmake needs to reverse a single Make
// call: everything that isn't cheaply reconstructed from the move
// itself.
type UndoRecord struct {
	Move          Move
	Hash          uint64
	EP            Square
	HalfmoveClock int
	Castling      int
}

// Position is a mutable chess position: piece placement, side to move,
// castling rights, en-passant target, the two draw clocks, a rolling
// Zobrist hash, and the undo stack that lets Make be reversed exactly
// by Unmake.
type Position struct {
	Colours [2]Bitboard
	Pieces  [6]Bitboard

	Side          Side
	Castling      int
	EP            Square
	HalfmoveClock int
	FullmoveClock int

	Hash     uint64
	Checkers Bitboard

	history []UndoRecord
}

// NewPosition returns a Position set to the standard starting array.
func NewPosition() *Position {
	p := &Position{}
	if err := p.SetFEN(InitialPositionFEN); err != nil {
		panic(err) // InitialPositionFEN is a compile-time constant.
	}
	return p
}

// Clear resets p to the empty, history-free state required after a
// failed SetFEN.
func (p *Position) Clear() {
	*p = Position{EP: OffSq, Side: White}
}

// Occupied returns every occupied square.
func (p *Position) Occupied() Bitboard { return p.Colours[White] | p.Colours[Black] }

// Occupancy returns side's occupied squares.
func (p *Position) Occupancy(side Side) Bitboard { return p.Colours[side] }

// PieceAt returns the piece occupying sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	b := SquareMask[sq]
	if p.Occupied()&b == 0 {
		return NoPiece
	}
	for pc := Pawn; pc <= King; pc++ {
		if p.Pieces[pc]&b != 0 {
			return pc
		}
	}
	panic(fmt.Sprintf("chess: occupied square %s has no tracked piece", sq))
}

// SideAt returns the piece and side occupying sq. ok is false if sq is
// empty.
func (p *Position) SideAt(sq Square) (pc Piece, side Side, ok bool) {
	b := SquareMask[sq]
	switch {
	case p.Colours[White]&b != 0:
		side = White
	case p.Colours[Black]&b != 0:
		side = Black
	default:
		return NoPiece, White, false
	}
	return p.PieceAt(sq), side, true
}

// KingSquare returns the square of side's king.
func (p *Position) KingSquare(side Side) Square {
	return (p.Pieces[King] & p.Colours[side]).Lsb()
}

func (p *Position) put(pc Piece, side Side, sq Square) {
	b := SquareMask[sq]
	p.Colours[side] |= b
	p.Pieces[pc] |= b
	p.Hash ^= PieceKey(pc, side, sq)
}

func (p *Position) remove(pc Piece, side Side, sq Square) {
	b := SquareMask[sq]
	p.Colours[side] &^= b
	p.Pieces[pc] &^= b
	p.Hash ^= PieceKey(pc, side, sq)
}

func (p *Position) move(pc Piece, side Side, from, to Square) {
	b := SquareMask[from] | SquareMask[to]
	p.Colours[side] ^= b
	p.Pieces[pc] ^= b
	p.Hash ^= PieceKey(pc, side, from) ^ PieceKey(pc, side, to)
}

// CanCastle reports whether side still holds the named castling right.
// Per the design note this trusts the flag; SetFEN and Make are
// responsible for keeping it in sync with rook/king occupancy.
func (p *Position) CanCastle(side Side, kingside bool) bool {
	switch {
	case side == White && kingside:
		return p.Castling&WhiteKingSide != 0
	case side == White && !kingside:
		return p.Castling&WhiteQueenSide != 0
	case side == Black && kingside:
		return p.Castling&BlackKingSide != 0
	default:
		return p.Castling&BlackQueenSide != 0
	}
}

// castlingClearMask[sq] clears the castling bit(s) that depend on a
// king or rook still standing on sq, so Make can AND it into the
// current rights from both the move's from- and to-square in one step
// (the to-square catches a rook captured on its origin square).
var castlingClearMask [64]int

func init() {
	for sq := range castlingClearMask {
		castlingClearMask[sq] = allCastleRights
	}
	castlingClearMask[A1] &^= WhiteQueenSide
	castlingClearMask[E1] &^= WhiteQueenSide | WhiteKingSide
	castlingClearMask[H1] &^= WhiteKingSide
	castlingClearMask[A8] &^= BlackQueenSide
	castlingClearMask[E8] &^= BlackQueenSide | BlackKingSide
	castlingClearMask[H8] &^= BlackKingSide
}

// squareAttackedBy reports whether any piece of attacker attacks sq.
func (p *Position) squareAttackedBy(sq Square, attacker Side) bool {
	occ := p.Occupied()
	theirs := p.Colours[attacker]
	if PawnAttacks(sq, attacker.Other())&p.Pieces[Pawn]&theirs != 0 {
		return true
	}
	if KnightAttacks[sq]&p.Pieces[Knight]&theirs != 0 {
		return true
	}
	if KingAttacks[sq]&p.Pieces[King]&theirs != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(p.Pieces[Bishop]|p.Pieces[Queen])&theirs != 0 {
		return true
	}
	if RookAttacks(sq, occ)&(p.Pieces[Rook]|p.Pieces[Queen])&theirs != 0 {
		return true
	}
	return false
}

// AttackersTo returns every piece, of either side, attacking sq given
// the current occupancy.
func (p *Position) AttackersTo(sq Square) Bitboard {
	occ := p.Occupied()
	return (blackPawnAttacks[sq] & p.Pieces[Pawn] & p.Colours[White]) |
		(whitePawnAttacks[sq] & p.Pieces[Pawn] & p.Colours[Black]) |
		(KnightAttacks[sq] & p.Pieces[Knight]) |
		(BishopAttacks(sq, occ) & (p.Pieces[Bishop] | p.Pieces[Queen])) |
		(RookAttacks(sq, occ) & (p.Pieces[Rook] | p.Pieces[Queen])) |
		(KingAttacks[sq] & p.Pieces[King])
}

func (p *Position) computeCheckers() Bitboard {
	king := p.KingSquare(p.Side)
	return p.AttackersTo(king) & p.Colours[p.Side.Other()]
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.Checkers != 0 }

// SquaresAttacked returns every square attacked by side, treating the
// opposing king as absent. This is what the king-move generator must
// subtract so a king can't step along the ray a slider was checking
// it through.
func (p *Position) SquaresAttacked(side Side) Bitboard {
	occ := p.Occupied() &^ (p.Pieces[King] & p.Colours[side.Other()])

	var attacked Bitboard
	pawns := p.Pieces[Pawn] & p.Colours[side]
	if side == White {
		attacked |= AllWhitePawnAttacks(pawns)
	} else {
		attacked |= AllBlackPawnAttacks(pawns)
	}

	for bb := p.Pieces[Knight] & p.Colours[side]; bb != 0; {
		var from Square
		from, bb = bb.PopLsb()
		attacked |= KnightAttacks[from]
	}
	for bb := p.Pieces[Bishop] & p.Colours[side]; bb != 0; {
		var from Square
		from, bb = bb.PopLsb()
		attacked |= BishopAttacks(from, occ)
	}
	for bb := p.Pieces[Rook] & p.Colours[side]; bb != 0; {
		var from Square
		from, bb = bb.PopLsb()
		attacked |= RookAttacks(from, occ)
	}
	for bb := p.Pieces[Queen] & p.Colours[side]; bb != 0; {
		var from Square
		from, bb = bb.PopLsb()
		attacked |= QueenAttacks(from, occ)
	}
	attacked |= KingAttacks[p.KingSquare(side)]
	return attacked
}

// Pinned returns the squares holding a piece of side pinned against its
// own king by an enemy slider.
func (p *Position) Pinned(side Side) Bitboard {
	king := p.KingSquare(side)
	enemy := side.Other()
	occ := p.Occupied()
	own := p.Colours[side]

	pinners := (RookAttacks(king, 0) & (p.Pieces[Rook] | p.Pieces[Queen])) |
		(BishopAttacks(king, 0) & (p.Pieces[Bishop] | p.Pieces[Queen]))
	pinners &= p.Colours[enemy]

	var pinned Bitboard
	for bb := pinners; bb != 0; {
		var pinner Square
		pinner, bb = bb.PopLsb()
		between := Between(king, pinner) & occ
		if between != 0 && !between.MoreThanOne() && between&own != 0 {
			pinned |= between
		}
	}
	return pinned
}

// PinRay returns the squares a piece pinned on sq may still move to:
// the ray from the king through sq out to and including the pinner.
// Callers must already know sq is pinned (e.g. via Pinned).
func (p *Position) PinRay(side Side, sq Square) Bitboard {
	king := p.KingSquare(side)
	dir := rayDirection(king, sq)
	if dir == 0 {
		return ^Bitboard(0)
	}
	var ray Bitboard
	occ := p.Occupied()
	for s := int(king) + dir; s >= 0 && s < 64; s += dir {
		ray |= SquareMask[s]
		if Square(s) != sq && occ&SquareMask[s] != 0 {
			break
		}
	}
	return ray
}

// rayDirection returns the constant square-index delta from king toward
// sq along their shared rank, file, or diagonal, or 0 if unaligned.
func rayDirection(king, sq Square) int {
	if king == sq || QueenAttacks(king, 0)&SquareMask[sq] == 0 {
		return 0
	}
	return (int(sq) - int(king)) / SquareDistance(king, sq)
}

// Validate reports every structural invariant violation currently
// holding, if any. SetFEN calls it and rejects a position that fails;
// Make, Unmake and the null-move pair never call it.
func (p *Position) Validate() []error {
	var errs []error
	if p.Colours[White]&p.Colours[Black] != 0 {
		errs = append(errs, fmt.Errorf("%w: white and black occupancy overlap", ErrInvariant))
	}
	var union Bitboard
	for _, bb := range p.Pieces {
		union |= bb
	}
	if union != p.Occupied() {
		errs = append(errs, fmt.Errorf("%w: piece bitboards do not cover occupancy", ErrInvariant))
	}
	kingsOK := true
	for _, side := range [2]Side{White, Black} {
		if (p.Pieces[King] & p.Colours[side]).PopCount() != 1 {
			kingsOK = false
			errs = append(errs, fmt.Errorf("%w: side %s does not have exactly one king", ErrInvariant, side))
		}
	}
	if p.Pieces[Pawn]&(Rank1Mask|Rank8Mask) != 0 {
		errs = append(errs, fmt.Errorf("%w: pawn on back rank", ErrInvariant))
	}
	if p.EP != OffSq {
		wantRank := Rank6
		if p.Side == Black {
			wantRank = Rank3
		}
		if p.EP.Rank() != wantRank {
			errs = append(errs, fmt.Errorf("%w: en-passant square %s on wrong rank", ErrInvariant, p.EP))
		}
	}
	if kingsOK && p.squareAttackedBy(p.KingSquare(p.Side.Other()), p.Side) {
		errs = append(errs, fmt.Errorf("%w: side not to move is in check", ErrInvariant))
	}
	if p.Hash != p.computeHash() {
		errs = append(errs, fmt.Errorf("%w: hash out of sync", ErrInvariant))
	}
	return errs
}

func (p *Position) computeHash() uint64 {
	var h uint64
	if p.Side == Black {
		h ^= TurnKey()
	}
	h ^= castlingRightsKey(p.Castling)
	if p.EP != OffSq {
		h ^= EPKey(p.EP.File())
	}
	for sq := A1; sq <= H8; sq++ {
		if p.Occupied()&SquareMask[sq] == 0 {
			continue
		}
		pc, side, _ := p.SideAt(sq)
		h ^= PieceKey(pc, side, sq)
	}
	return h
}

// Fiftymoves reports whether the 50-move (100-halfmove) rule applies.
func (p *Position) Fiftymoves() bool { return p.HalfmoveClock >= 100 }

// Threefold reports whether the current position has occurred twice
// before in this game (three times including the present position),
// scanning every other ply back through the halfmove clock.
func (p *Position) Threefold() bool {
	if p.HalfmoveClock < 8 {
		return false
	}
	repeats := 0
	n := len(p.history)
	limit := Min(n, p.HalfmoveClock)
	for i := 2; i <= limit; i += 2 {
		if p.history[n-i].Hash == p.Hash {
			repeats++
			if repeats >= 2 {
				return true
			}
		}
	}
	return false
}

// IsDraw reports threefold or fifty-move repetition, excluding the case
// where the position is simultaneously checkmate. Insufficient-material
// draws are not modeled; see DESIGN.md.
func (p *Position) IsDraw() bool {
	return (p.Threefold() || p.Fiftymoves()) && !p.IsCheckmate()
}

// IsCheckmate reports check with no legal moves.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && len(p.LegalMoves()) == 0
}

// IsStalemate reports no check and no legal moves.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && len(p.LegalMoves()) == 0
}

// IsTerminal reports checkmate, stalemate, or a drawn position.
func (p *Position) IsTerminal() bool {
	return len(p.LegalMoves()) == 0 || p.IsDraw()
}

// ParseMove resolves long-algebraic text ("e2e4", "e7e8q") to the
// legal Move with that text, or an error wrapping ErrParseMove. State
// is left unchanged on failure.
func (p *Position) ParseMove(s string) (Move, error) {
	for _, m := range p.LegalMoves() {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrParseMove, s)
}

// Make applies m in place, pushing an UndoRecord so Unmake can reverse
// it. Make trusts its argument: m must be a move actually produced by
// LegalMoves (or equal to one). Making an arbitrary fabricated Move is
// a caller bug, not a reported error -- see the "IllegalMove" entry of
// the error taxonomy. Callers parsing move text should go through
// ParseMove first.
func (p *Position) Make(m Move) {
	p.history = append(p.history, UndoRecord{
		Move:          m,
		Hash:          p.Hash,
		EP:            p.EP,
		HalfmoveClock: p.HalfmoveClock,
		Castling:      p.Castling,
	})

	mover := p.Side
	opponent := mover.Other()
	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	captured := m.CapturedPiece()

	if p.EP != OffSq {
		p.Hash ^= EPKey(p.EP.File())
	}
	p.Hash ^= TurnKey()

	newCastling := p.Castling & castlingClearMask[from] & castlingClearMask[to]
	p.Hash ^= castlingRightsKey(p.Castling) ^ castlingRightsKey(newCastling)
	p.Castling = newCastling

	if moved == Pawn || captured != NoPiece {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}

	if m.Kind() == EnPassant {
		capSq := to
		if mover == White {
			capSq -= 8
		} else {
			capSq += 8
		}
		p.remove(Pawn, opponent, capSq)
	} else if captured != NoPiece {
		p.remove(captured, opponent, to)
	}

	if m.IsPromotion() {
		p.remove(Pawn, mover, from)
		p.put(m.Promotion(), mover, to)
	} else {
		p.move(moved, mover, from, to)
	}

	if m.Kind() == KingsideCastle {
		if mover == White {
			p.move(Rook, White, H1, F1)
		} else {
			p.move(Rook, Black, H8, F8)
		}
	} else if m.Kind() == QueensideCastle {
		if mover == White {
			p.move(Rook, White, A1, D1)
		} else {
			p.move(Rook, Black, A8, D8)
		}
	}

	p.EP = OffSq
	if m.Kind() == DoublePush {
		var epSq Square
		if mover == White {
			epSq = from + 8
		} else {
			epSq = from - 8
		}
		p.EP = epSq
		p.Hash ^= EPKey(epSq.File())
	}

	if mover == Black {
		p.FullmoveClock++
	}
	p.Side = opponent
	p.Checkers = p.computeCheckers()
}

// Unmake reverses the most recent Make call exactly, restoring Hash,
// EP, HalfmoveClock, Castling, the piece bitboards, and history length.
func (p *Position) Unmake() {
	n := len(p.history) - 1
	rec := p.history[n]
	p.history = p.history[:n]

	m := rec.Move
	mover := p.Side.Other()
	opponent := p.Side
	from, to := m.From(), m.To()
	moved := m.MovedPiece()
	captured := m.CapturedPiece()

	if m.IsPromotion() {
		p.remove(m.Promotion(), mover, to)
		p.put(Pawn, mover, from)
	} else {
		p.move(moved, mover, to, from)
	}

	if m.Kind() == KingsideCastle {
		if mover == White {
			p.move(Rook, White, F1, H1)
		} else {
			p.move(Rook, Black, F8, H8)
		}
	} else if m.Kind() == QueensideCastle {
		if mover == White {
			p.move(Rook, White, D1, A1)
		} else {
			p.move(Rook, Black, D8, A8)
		}
	}

	if m.Kind() == EnPassant {
		capSq := to
		if mover == White {
			capSq -= 8
		} else {
			capSq += 8
		}
		p.put(Pawn, opponent, capSq)
	} else if captured != NoPiece {
		p.put(captured, opponent, to)
	}

	p.Hash = rec.Hash
	p.EP = rec.EP
	p.HalfmoveClock = rec.HalfmoveClock
	p.Castling = rec.Castling
	p.Side = mover
	if mover == Black {
		p.FullmoveClock--
	}
	p.Checkers = p.computeCheckers()
}

// MakeNull flips the side to move without moving a piece, for null-move
// search pruning. The halfmove clock resets to 0 and is restored by
// UnmakeNull.
func (p *Position) MakeNull() {
	p.history = append(p.history, UndoRecord{
		Move:          NoMove,
		Hash:          p.Hash,
		EP:            p.EP,
		HalfmoveClock: p.HalfmoveClock,
		Castling:      p.Castling,
	})
	if p.EP != OffSq {
		p.Hash ^= EPKey(p.EP.File())
	}
	p.Hash ^= TurnKey()
	p.EP = OffSq
	p.HalfmoveClock = 0
	p.Side = p.Side.Other()
	p.Checkers = p.computeCheckers()
}

// UnmakeNull reverses MakeNull.
func (p *Position) UnmakeNull() {
	n := len(p.history) - 1
	rec := p.history[n]
	p.history = p.history[:n]
	p.Hash = rec.Hash
	p.EP = rec.EP
	p.HalfmoveClock = rec.HalfmoveClock
	p.Castling = rec.Castling
	p.Side = p.Side.Other()
	p.Checkers = p.computeCheckers()
}

// History returns the undo stack accumulated since construction or the
// last Clear/SetFEN, oldest first. The slice is owned by p; callers
// must not retain it across a subsequent Make/Unmake/MakeNull/UnmakeNull.
func (p *Position) History() []UndoRecord { return p.history }

// ResetHistory discards the undo stack without touching board state.
// Intended for a Position value that was copied from another one
// (e.g. to hand an independent copy to a worker goroutine): the copy
// carries the same history slice header until it is reset, and Unmake
// must never run past the point where the two diverged.
func (p *Position) ResetHistory() { p.history = nil }

// String renders a debug view: an 8x8 grid of piece letters ("P".."K"
// / "p".."k") and "-" for empty squares, followed by castling rights,
// the en-passant square, and the side to move. It is not a stable wire
// format.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := Rank8; rank >= Rank1; rank-- {
		for file := FileA; file <= FileH; file++ {
			sq := MakeSquare(file, rank)
			pc, side, ok := p.SideAt(sq)
			switch {
			case !ok:
				sb.WriteByte('-')
			case side == White:
				sb.WriteString(pc.String())
			default:
				sb.WriteString(strings.ToLower(pc.String()))
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("Castling: ")
	if p.Castling == 0 {
		sb.WriteByte('-')
	} else {
		if p.Castling&WhiteKingSide != 0 {
			sb.WriteByte('K')
		}
		if p.Castling&WhiteQueenSide != 0 {
			sb.WriteByte('Q')
		}
		if p.Castling&BlackKingSide != 0 {
			sb.WriteByte('k')
		}
		if p.Castling&BlackQueenSide != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteString("\nEP: ")
	sb.WriteString(p.EP.String())
	sb.WriteString("\nTurn: ")
	sb.WriteString(p.Side.String())
	return sb.String()
}
