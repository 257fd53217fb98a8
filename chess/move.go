package chess

import "strings"

// Move is a packed encoding of (from, to, moved piece, captured piece,
// move kind, promotion piece) in a single 24-bit value, kept in an
// int32 to stay cache-dense in move lists.
type Move int32

// NoMove is the zero value, never a legal move.
const NoMove Move = 0

const (
	moveFromShift      = 0
	moveToShift        = 6
	moveMovedShift      = 12
	moveCapturedShift  = 15
	moveKindShift      = 18
	movePromotionShift = 21

	moveFieldMask = 0x7
	moveSqMask    = 0x3f
)

func newMove(from, to Square, moved, captured Piece, kind MoveKind, promotion Piece) Move {
	return Move(int32(from)<<moveFromShift |
		int32(to)<<moveToShift |
		int32(moved)<<moveMovedShift |
		int32(captured)<<moveCapturedShift |
		int32(kind)<<moveKindShift |
		int32(promotion)<<movePromotionShift)
}

// From returns the move's origin square.
func (m Move) From() Square { return Square((m >> moveFromShift) & moveSqMask) }

// To returns the move's destination square.
func (m Move) To() Square { return Square((m >> moveToShift) & moveSqMask) }

// MovedPiece returns the piece that moved.
func (m Move) MovedPiece() Piece { return Piece((m >> moveMovedShift) & moveFieldMask) }

// CapturedPiece returns the captured piece, or NoPiece.
func (m Move) CapturedPiece() Piece { return Piece((m >> moveCapturedShift) & moveFieldMask) }

// Kind returns the move's MoveKind.
func (m Move) Kind() MoveKind { return MoveKind((m >> moveKindShift) & moveFieldMask) }

// Promotion returns the promotion piece, or NoPiece if this is not a
// promotion.
func (m Move) Promotion() Piece { return Piece((m >> movePromotionShift) & moveFieldMask) }

// IsCapture reports whether m captures a piece, including en passant.
func (m Move) IsCapture() bool {
	switch m.Kind() {
	case Capture, PromotionCapture, EnPassant:
		return true
	default:
		return m.CapturedPiece() != NoPiece
	}
}

// IsCastle reports whether m is a castling move.
func (m Move) IsCastle() bool {
	return m.Kind() == KingsideCastle || m.Kind() == QueensideCastle
}

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Kind() == Promotion || m.Kind() == PromotionCapture
}

// String renders m in long algebraic form: "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	var promo string
	if m.IsPromotion() {
		promo = strings.ToLower(m.Promotion().String())
	}
	return m.From().String() + m.To().String() + promo
}
