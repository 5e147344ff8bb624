package model

import (
	"fmt"
	"strings"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// ParsePieceType accepts full names ("queen") and single letters ("q"),
// case-insensitive.
func ParsePieceType(s string) (PieceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "king", "k":
		return King, nil
	case "queen", "q":
		return Queen, nil
	case "rook", "r":
		return Rook, nil
	case "bishop", "b":
		return Bishop, nil
	case "knight", "n":
		return Knight, nil
	case "pawn", "p":
		return Pawn, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPieceType, s)
}

func (p PieceType) letter() string {
	switch p {
	case King:
		return "k"
	case Queen:
		return "q"
	case Rook:
		return "r"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	case Pawn:
		return "p"
	}
	return ""
}

// canPromoteTo reports whether a pawn may become p.
func (p PieceType) canPromoteTo() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the rank direction pawns of c travel in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) homeRank() int {
	if c == White {
		return 0
	}
	return 7
}

func (c Color) pawnRank() int {
	if c == White {
		return 1
	}
	return 6
}

// Piece is a value; its square is implied by where the Board holds it.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s", p.Color, p.Type)
}
