package chess

import "math/rand"

// Zobrist keys are fixed for the lifetime of the process (seeded
// deterministically so hashes are stable across runs of this binary,
// though not across different Go versions' math/rand implementations
// -- callers who persist hashes across processes should not rely on
// that stability beyond a single build).
var (
	sideToMoveKey   uint64
	enPassantKeys   [8]uint64
	castlingKeys    [16]uint64
	pieceSquareKeys [6 * 2 * 64]uint64
)

func pieceSquareIndex(pc Piece, side Side, sq Square) int {
	return (int(pc)*2+int(side))*64 + int(sq)
}

// PieceKey returns the Zobrist key for piece pc of side on sq.
func PieceKey(pc Piece, side Side, sq Square) uint64 {
	return pieceSquareKeys[pieceSquareIndex(pc, side, sq)]
}

// TurnKey returns the Zobrist key toggled whenever side to move changes.
func TurnKey() uint64 { return sideToMoveKey }

// CastlingKey returns the Zobrist key for castling-rights bit i (0..3,
// matching WhiteKingSide..BlackQueenSide).
func CastlingKey(i int) uint64 { return castlingKeyByBit[i] }

// EPKey returns the Zobrist key for an en-passant target on file f.
func EPKey(file int) uint64 { return enPassantKeys[file] }

var castlingKeyByBit [4]uint64

// castlingRightsKey returns the XOR of the per-bit keys named by rights,
// looked up from the castlingKeys table that init precomputes.
func castlingRightsKey(rights int) uint64 { return castlingKeys[rights] }

const zobristSeed = 0xC0FFEE

func init() {
	r := rand.New(rand.NewSource(zobristSeed))
	sideToMoveKey = r.Uint64()
	for i := range enPassantKeys {
		enPassantKeys[i] = r.Uint64()
	}
	for i := range pieceSquareKeys {
		pieceSquareKeys[i] = r.Uint64()
	}
	for i := range castlingKeyByBit {
		castlingKeyByBit[i] = r.Uint64()
	}
	for rights := range castlingKeys {
		var key uint64
		for bit := 0; bit < 4; bit++ {
			if rights&(1<<bit) != 0 {
				key ^= castlingKeyByBit[bit]
			}
		}
		castlingKeys[rights] = key
	}
}
