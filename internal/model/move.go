package model

import "strings"

type SpecialMove string

const (
	EnPassant SpecialMove = "enPassant"
	Castling  SpecialMove = "castling"
	Promotion SpecialMove = "promotion"
)

// CapturedPiece records what a move took and where it stood. Position
// differs from the move's destination only for en passant.
type CapturedPiece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Move is the record of one applied move. It is built once by
// Game.ApplyMove and only read afterwards.
type Move struct {
	From      Position        `json:"from"`
	To        Position        `json:"to"`
	Piece     PieceType       `json:"piece"`
	Color     Color           `json:"color"`
	Special   *SpecialMove    `json:"special"`
	Captured  *CapturedPiece  `json:"captured"`
	Promotion PieceType       `json:"promotion,omitempty"`
	RookMove  *CastleRookMove `json:"castleRookMove,omitempty"`
}

// IsSpecial reports whether m is tagged with kind.
func (m Move) IsSpecial(kind SpecialMove) bool {
	return m.Special != nil && *m.Special == kind
}

// UCI renders m in long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	s := strings.ToLower(m.From.String() + m.To.String())
	if m.Promotion != "" {
		s += m.Promotion.letter()
	}
	return s
}

func (m Move) isDoublePawnPush() bool {
	return m.Piece == Pawn && m.From.File == m.To.File && abs(m.To.Rank-m.From.Rank) == 2
}

func special(kind SpecialMove) *SpecialMove {
	return &kind
}
