package model

import "errors"

var (
	ErrOutOfRange           = errors.New("square out of range")
	ErrInvalidNotation      = errors.New("invalid square notation")
	ErrNoPieceAtOrigin      = errors.New("no piece at origin square")
	ErrWrongSideToMove      = errors.New("piece belongs to the side not to move")
	ErrMissingPromotionKind = errors.New("promotion piece required")
	ErrInvalidPromotionKind = errors.New("invalid promotion piece")
	ErrIllegalMove          = errors.New("illegal move")
	ErrKingInCheck          = errors.New("move leaves king in check")
	ErrCorruptPosition      = errors.New("king missing from board")
	ErrInvalidPieceType     = errors.New("invalid piece type")
)
