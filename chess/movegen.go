package chess

const (
	f1g1Mask = Bitboard(1)<<uint(F1) | Bitboard(1)<<uint(G1)
	b1d1Mask = Bitboard(1)<<uint(B1) | Bitboard(1)<<uint(C1) | Bitboard(1)<<uint(D1)
	f8g8Mask = Bitboard(1)<<uint(F8) | Bitboard(1)<<uint(G8)
	b8d8Mask = Bitboard(1)<<uint(B8) | Bitboard(1)<<uint(C8) | Bitboard(1)<<uint(D8)
)

var (
	whiteKingSideCastle  = newMove(E1, G1, King, NoPiece, KingsideCastle, NoPiece)
	whiteQueenSideCastle = newMove(E1, C1, King, NoPiece, QueensideCastle, NoPiece)
	blackKingSideCastle  = newMove(E8, G8, King, NoPiece, KingsideCastle, NoPiece)
	blackQueenSideCastle = newMove(E8, C8, King, NoPiece, QueensideCastle, NoPiece)
)

func appendPromotions(buf []Move, from, to Square, captured Piece) []Move {
	kind := Promotion
	if captured != NoPiece {
		kind = PromotionCapture
	}
	for _, promo := range [4]Piece{Queen, Rook, Bishop, Knight} {
		buf = append(buf, newMove(from, to, Pawn, captured, kind, promo))
	}
	return buf
}

// LegalMoves returns, in no particular order, exactly the moves legal
// from p under standard chess rules: a king move set with the enemy's
// attack set (king treated as absent) subtracted out, checkers and
// pins computed once up front and used to restrict every other piece's
// destinations, and a dedicated legality test for en passant's
// discovered-check edge case.
func (p *Position) LegalMoves() []Move {
	buf := make([]Move, 0, 48)

	mover := p.Side
	opp := mover.Other()
	own := p.Colours[mover]
	enemy := p.Colours[opp]
	occ := p.Occupied()
	king := p.KingSquare(mover)

	checkers := p.Checkers
	numCheckers := checkers.PopCount()

	var target Bitboard = ^own
	switch {
	case numCheckers == 1:
		checkerSq := checkers.Lsb()
		target = checkers | Between(king, checkerSq)
	case numCheckers >= 2:
		target = 0
	}

	pinned := p.Pinned(mover)
	enemyAttacks := p.SquaresAttacked(opp)

	for dest := KingAttacks[king] &^ own &^ enemyAttacks; dest != 0; {
		var to Square
		to, dest = dest.PopLsb()
		captured := p.pieceOrNone(to)
		buf = append(buf, newMove(king, to, King, captured, kindOf(captured), NoPiece))
	}

	if numCheckers >= 2 {
		return buf
	}

	for _, pt := range [4]Piece{Knight, Bishop, Rook, Queen} {
		for bb := p.Pieces[pt] & own; bb != 0; {
			var from Square
			from, bb = bb.PopLsb()
			dest := sliderOrLeaperAttacks(pt, from, occ) & target
			if pinned.Has(from) {
				dest &= p.PinRay(mover, from)
			}
			for d := dest; d != 0; {
				var to Square
				to, d = d.PopLsb()
				captured := p.pieceOrNone(to)
				buf = append(buf, newMove(from, to, pt, captured, kindOf(captured), NoPiece))
			}
		}
	}

	buf = p.genPawnMoves(buf, mover, occ, enemy, target, pinned, checkers, numCheckers)

	if numCheckers == 0 {
		buf = p.genCastling(buf, mover, occ, enemyAttacks)
	}

	return buf
}

func (p *Position) pieceOrNone(sq Square) Piece {
	if p.Occupied()&SquareMask[sq] == 0 {
		return NoPiece
	}
	return p.PieceAt(sq)
}

func kindOf(captured Piece) MoveKind {
	if captured != NoPiece {
		return Capture
	}
	return Normal
}

func sliderOrLeaperAttacks(pt Piece, from Square, occ Bitboard) Bitboard {
	switch pt {
	case Knight:
		return KnightAttacks[from]
	case Bishop:
		return BishopAttacks(from, occ)
	case Rook:
		return RookAttacks(from, occ)
	case Queen:
		return QueenAttacks(from, occ)
	default:
		return 0
	}
}

func (p *Position) genPawnMoves(
	buf []Move, mover Side, occ, enemy, target, pinned, checkers Bitboard, numCheckers int,
) []Move {
	pawns := p.Pieces[Pawn] & p.Colours[mover]

	var pushDir int
	var startRank, promoRank int
	if mover == White {
		pushDir, startRank, promoRank = 8, Rank2, Rank8
	} else {
		pushDir, startRank, promoRank = -8, Rank7, Rank1
	}

	var checkerSq Square = OffSq
	if numCheckers == 1 {
		checkerSq = checkers.Lsb()
	}

	for bb := pawns; bb != 0; {
		var from Square
		from, bb = bb.PopLsb()

		rayMask := Bitboard(^uint64(0))
		if pinned.Has(from) {
			rayMask = p.PinRay(mover, from)
		}

		to := Square(int(from) + pushDir)
		if occ&SquareMask[to] == 0 {
			if target.Has(to) && rayMask.Has(to) {
				if to.Rank() == promoRank {
					buf = appendPromotions(buf, from, to, NoPiece)
				} else {
					buf = append(buf, newMove(from, to, Pawn, NoPiece, Normal, NoPiece))
				}
			}
			if from.Rank() == startRank {
				to2 := Square(int(from) + 2*pushDir)
				if occ&SquareMask[to2] == 0 && target.Has(to2) && rayMask.Has(to2) {
					buf = append(buf, newMove(from, to2, Pawn, NoPiece, DoublePush, NoPiece))
				}
			}
		}

		for _, capTo := range pawnCaptureSquares(from, mover) {
			if capTo == OffSq {
				continue
			}
			if enemy.Has(capTo) && target.Has(capTo) && rayMask.Has(capTo) {
				captured := p.PieceAt(capTo)
				if capTo.Rank() == promoRank {
					buf = appendPromotions(buf, from, capTo, captured)
				} else {
					buf = append(buf, newMove(from, capTo, Pawn, captured, Capture, NoPiece))
				}
			}
		}

		if p.EP != OffSq && isPawnCaptureSquare(from, p.EP, mover) {
			capSq := p.EP
			if mover == White {
				capSq -= 8
			} else {
				capSq += 8
			}
			switch {
			case pinned.Has(from) && !rayMask.Has(p.EP):
			case numCheckers == 1 && checkerSq != capSq:
			case !p.enPassantLegal(mover, from, capSq):
			default:
				buf = append(buf, newMove(from, p.EP, Pawn, Pawn, EnPassant, NoPiece))
			}
		}
	}
	return buf
}

func pawnCaptureSquares(from Square, mover Side) [2]Square {
	file := from.File()
	left, right := OffSq, OffSq
	var dir int
	if mover == White {
		dir = 8
	} else {
		dir = -8
	}
	if file > FileA {
		left = Square(int(from) + dir - 1)
	}
	if file < FileH {
		right = Square(int(from) + dir + 1)
	}
	return [2]Square{left, right}
}

func isPawnCaptureSquare(from, to Square, mover Side) bool {
	if RankDistance(from, to) != 1 || FileDistance(from, to) != 1 {
		return false
	}
	if mover == White {
		return to > from
	}
	return to < from
}

// enPassantLegal covers the one en-passant edge case LegalMoves'
// general pin/check handling doesn't: with both the capturing pawn and
// the captured pawn removed from the board and the capturer placed on
// the EP square, the friendly king must not come under attack from a
// rank-aligned slider -- two pieces vacating the same rank at once is
// the one way this differs from an ordinary pin.
func (p *Position) enPassantLegal(mover Side, from, capSq Square) bool {
	king := p.KingSquare(mover)
	occ := p.Occupied()
	occ = occ.Clear(from).Clear(capSq).Set(p.EP)
	enemySliders := (p.Pieces[Rook] | p.Pieces[Queen]) & p.Colours[mover.Other()]
	return RookAttacks(king, occ)&enemySliders == 0
}

func (p *Position) genCastling(buf []Move, mover Side, occ, enemyAttacks Bitboard) []Move {
	if mover == White {
		if p.CanCastle(White, true) &&
			occ&f1g1Mask == 0 &&
			!enemyAttacks.Has(E1) && !enemyAttacks.Has(F1) && !enemyAttacks.Has(G1) {
			buf = append(buf, whiteKingSideCastle)
		}
		if p.CanCastle(White, false) &&
			occ&b1d1Mask == 0 &&
			!enemyAttacks.Has(E1) && !enemyAttacks.Has(D1) && !enemyAttacks.Has(C1) {
			buf = append(buf, whiteQueenSideCastle)
		}
	} else {
		if p.CanCastle(Black, true) &&
			occ&f8g8Mask == 0 &&
			!enemyAttacks.Has(E8) && !enemyAttacks.Has(F8) && !enemyAttacks.Has(G8) {
			buf = append(buf, blackKingSideCastle)
		}
		if p.CanCastle(Black, false) &&
			occ&b8d8Mask == 0 &&
			!enemyAttacks.Has(E8) && !enemyAttacks.Has(D8) && !enemyAttacks.Has(C8) {
			buf = append(buf, blackQueenSideCastle)
		}
	}
	return buf
}

// LegalCaptures returns the subset of LegalMoves that capture a piece,
// including en passant.
func (p *Position) LegalCaptures() []Move {
	var out []Move
	for _, m := range p.LegalMoves() {
		if m.IsCapture() {
			out = append(out, m)
		}
	}
	return out
}

// LegalNonCaptures returns the subset of LegalMoves that do not capture
// a piece. LegalCaptures and LegalNonCaptures partition LegalMoves.
func (p *Position) LegalNonCaptures() []Move {
	var out []Move
	for _, m := range p.LegalMoves() {
		if !m.IsCapture() {
			out = append(out, m)
		}
	}
	return out
}

// IsLegal reports whether m is legal in p. It re-derives the answer
// from LegalMoves rather than trusting the caller's encoding of m.
func (p *Position) IsLegal(m Move) bool {
	for _, lm := range p.LegalMoves() {
		if lm == m {
			return true
		}
	}
	return false
}
