package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// SetFEN parses the six standard FEN fields and replaces p's entire
// state, clearing history and recomputing Hash from scratch. A parse
// failure leaves p Clear()ed rather than partially updated.
func (p *Position) SetFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		p.Clear()
		return fmt.Errorf("%w: %q (need at least 4 fields)", ErrParseFEN, fen)
	}

	next := Position{EP: OffSq}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		p.Clear()
		return fmt.Errorf("%w: %q (expected 8 ranks, got %d)", ErrParseFEN, fen, len(ranks))
	}
	for i, rankStr := range ranks {
		file := FileA
		for _, ch := range rankStr {
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			default:
				pc, side, ok := pieceFromChar(ch)
				if !ok {
					p.Clear()
					return fmt.Errorf("%w: %q (bad piece letter %q)", ErrParseFEN, fen, ch)
				}
				if file > FileH {
					p.Clear()
					return fmt.Errorf("%w: %q (rank %d overflows)", ErrParseFEN, fen, 8-i)
				}
				// FEN reads ranks 8->1 top to bottom while i runs 0->7;
				// FlipSquare turns that linear reading order into the
				// rank-1-up square numbering the rest of the board uses.
				sq := FlipSquare(Square(i*8 + file))
				next.put(pc, side, sq)
				file++
			}
		}
		if file != FileH+1 {
			p.Clear()
			return fmt.Errorf("%w: %q (rank %d has wrong length)", ErrParseFEN, fen, 8-i)
		}
	}

	switch fields[1] {
	case "w":
		next.Side = White
	case "b":
		next.Side = Black
	default:
		p.Clear()
		return fmt.Errorf("%w: %q (bad side to move %q)", ErrParseFEN, fen, fields[1])
	}

	castling := fields[2]
	if castling != "-" {
		for _, ch := range castling {
			switch ch {
			case 'K':
				next.Castling |= WhiteKingSide
			case 'Q':
				next.Castling |= WhiteQueenSide
			case 'k':
				next.Castling |= BlackKingSide
			case 'q':
				next.Castling |= BlackQueenSide
			default:
				p.Clear()
				return fmt.Errorf("%w: %q (bad castling letter %q)", ErrParseFEN, fen, ch)
			}
		}
	}

	ep, err := ParseSquare(fields[3])
	if err != nil {
		p.Clear()
		return fmt.Errorf("%w: %q (bad en-passant field)", ErrParseFEN, fen)
	}
	next.EP = ep

	next.HalfmoveClock = 0
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			p.Clear()
			return fmt.Errorf("%w: %q (bad halfmove clock)", ErrParseFEN, fen)
		}
		next.HalfmoveClock = n
	}

	next.FullmoveClock = 1
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			p.Clear()
			return fmt.Errorf("%w: %q (bad fullmove number)", ErrParseFEN, fen)
		}
		next.FullmoveClock = n
	}

	// A castling flag only holds if the matching king and rook are still
	// on their origin squares. SetFEN is where this gets enforced, since
	// CanCastle trusts the flag at query time.
	if next.PieceAt(E1) != King || next.Colours[White]&SquareMask[E1] == 0 {
		next.Castling &^= WhiteKingSide | WhiteQueenSide
	}
	if next.PieceAt(H1) != Rook || next.Colours[White]&SquareMask[H1] == 0 {
		next.Castling &^= WhiteKingSide
	}
	if next.PieceAt(A1) != Rook || next.Colours[White]&SquareMask[A1] == 0 {
		next.Castling &^= WhiteQueenSide
	}
	if next.PieceAt(E8) != King || next.Colours[Black]&SquareMask[E8] == 0 {
		next.Castling &^= BlackKingSide | BlackQueenSide
	}
	if next.PieceAt(H8) != Rook || next.Colours[Black]&SquareMask[H8] == 0 {
		next.Castling &^= BlackKingSide
	}
	if next.PieceAt(A8) != Rook || next.Colours[Black]&SquareMask[A8] == 0 {
		next.Castling &^= BlackQueenSide
	}

	next.Hash = next.computeHash()

	if errs := next.Validate(); len(errs) > 0 {
		p.Clear()
		return fmt.Errorf("%w: %q (%v)", ErrParseFEN, fen, errs[0])
	}

	next.Checkers = next.computeCheckers()
	*p = next
	return nil
}

// FEN renders p's current state as a FEN string; FEN(SetFEN(s)) == s
// for any s that round-trips through a legal position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := Rank8; rank >= Rank1; rank-- {
		empty := 0
		for file := FileA; file <= FileH; file++ {
			sq := MakeSquare(file, rank)
			pc, side, ok := p.SideAt(sq)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			if side == White {
				sb.WriteString(pc.String())
			} else {
				sb.WriteString(strings.ToLower(pc.String()))
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank != Rank1 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Side.String())

	sb.WriteByte(' ')
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

	sb.WriteByte(' ')
	sb.WriteString(p.EP.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullmoveClock))

	return sb.String()
}

func pieceFromChar(ch rune) (pc Piece, side Side, ok bool) {
	side = White
	lower := ch
	if ch >= 'a' && ch <= 'z' {
		side = Black
	} else if ch >= 'A' && ch <= 'Z' {
		lower = ch - 'A' + 'a'
	}
	switch lower {
	case 'p':
		return Pawn, side, true
	case 'n':
		return Knight, side, true
	case 'b':
		return Bishop, side, true
	case 'r':
		return Rook, side, true
	case 'q':
		return Queen, side, true
	case 'k':
		return King, side, true
	default:
		return NoPiece, White, false
	}
}
