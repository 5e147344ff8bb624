package model

import (
	"encoding/json"
	"fmt"
)

// Position is a square on the board. File 0 is the A file, rank 0 is the
// first rank (white's back rank).
type Position struct {
	File int
	Rank int
}

// NewPosition builds a Position from zero-based coordinates.
func NewPosition(file, rank int) (Position, error) {
	if !onBoard(file, rank) {
		return Position{}, fmt.Errorf("%w: file %d rank %d", ErrOutOfRange, file, rank)
	}
	return Position{File: file, Rank: rank}, nil
}

// ParsePosition parses an algebraic square such as "E4". Lower case files
// are accepted.
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	file := int(c) - 'A'
	rank := int(s[1]) - '1'
	if !onBoard(file, rank) {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	return Position{File: file, Rank: rank}, nil
}

// MustParsePosition is ParsePosition for literals.
func MustParsePosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'A'+p.File, p.Rank+1)
}

func (p Position) offset(df, dr int) (Position, bool) {
	f, r := p.File+df, p.Rank+dr
	if !onBoard(f, r) {
		return Position{}, false
	}
	return Position{File: f, Rank: r}, true
}

// Valid reports whether p lies on the board. Positions built as struct
// literals skip NewPosition and may not.
func (p Position) Valid() bool {
	return onBoard(p.File, p.Rank)
}

func (p Position) index() int {
	return p.Rank*8 + p.File
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidNotation, data)
	}
	parsed, err := ParsePosition(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
