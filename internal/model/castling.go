package model

// CastlingSide is the wing a king castles towards.
type CastlingSide int

const (
	KingSide CastlingSide = iota
	QueenSide
)

// rookFile is the file of the rook that castles on this side.
func (s CastlingSide) rookFile() int {
	if s == KingSide {
		return 7
	}
	return 0
}

// CastlingRights tracks the four castling flags. Flags are only ever
// cleared, never set again, after NewCastlingRights.
type CastlingRights struct {
	WhiteKingSide  bool `json:"whiteKingSide"`
	WhiteQueenSide bool `json:"whiteQueenSide"`
	BlackKingSide  bool `json:"blackKingSide"`
	BlackQueenSide bool `json:"blackQueenSide"`
}

// NewCastlingRights returns rights as they stand at the start of a game.
func NewCastlingRights() CastlingRights {
	return CastlingRights{
		WhiteKingSide:  true,
		WhiteQueenSide: true,
		BlackKingSide:  true,
		BlackQueenSide: true,
	}
}

func (r CastlingRights) Has(color Color, side CastlingSide) bool {
	switch {
	case color == White && side == KingSide:
		return r.WhiteKingSide
	case color == White:
		return r.WhiteQueenSide
	case side == KingSide:
		return r.BlackKingSide
	default:
		return r.BlackQueenSide
	}
}

func (r *CastlingRights) Revoke(color Color, side CastlingSide) {
	switch {
	case color == White && side == KingSide:
		r.WhiteKingSide = false
	case color == White:
		r.WhiteQueenSide = false
	case side == KingSide:
		r.BlackKingSide = false
	default:
		r.BlackQueenSide = false
	}
}

func (r *CastlingRights) RevokeAll(color Color) {
	r.Revoke(color, KingSide)
	r.Revoke(color, QueenSide)
}

// revokeForSquare clears the flag tied to a rook's home corner, if pos is one.
func (r *CastlingRights) revokeForSquare(pos Position) {
	for _, color := range []Color{White, Black} {
		if pos.Rank != color.homeRank() {
			continue
		}
		for _, side := range []CastlingSide{KingSide, QueenSide} {
			if pos.File == side.rookFile() {
				r.Revoke(color, side)
			}
		}
	}
}
