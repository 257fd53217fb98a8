package chess

import "strings"

// SAN renders m in a short algebraic form: piece letter (pawns omit
// it), capture "x", destination square, promotion suffix, and "O-O" /
// "O-O-O" for castling. It never disambiguates between two pieces of
// the same type that could reach the same square, and never appends a
// "+" or "#" suffix for check or mate -- both require look-ahead this
// formatter intentionally skips.
func (m Move) SAN() string {
	switch m.Kind() {
	case KingsideCastle:
		return "O-O"
	case QueensideCastle:
		return "O-O-O"
	}

	var sb strings.Builder
	moved := m.MovedPiece()
	if moved != Pawn {
		sb.WriteString(moved.String())
	}

	if m.IsCapture() {
		if moved == Pawn {
			sb.WriteString(m.From().String()[:1])
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.To().String())

	if m.IsPromotion() {
		sb.WriteString(strings.ToLower(m.Promotion().String()))
	}

	return sb.String()
}
