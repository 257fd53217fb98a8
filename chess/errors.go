package chess

import "errors"

// Sentinel errors, following the plain errors.New/%w style the
// package's ancestor uses for FEN parsing failures.
var (
	// ErrParseFEN is wrapped by SetFEN when a FEN string is malformed.
	ErrParseFEN = errors.New("chess: invalid fen")

	// ErrParseMove is wrapped by ParseMove when the given move text
	// does not name a legal move.
	ErrParseMove = errors.New("chess: illegal move string")

	// ErrInvariant is wrapped by each error Validate returns.
	ErrInvariant = errors.New("chess: invariant violation")
)
