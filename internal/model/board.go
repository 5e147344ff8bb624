package model

// Board is an 8x8 grid of optional pieces indexed by Position.index. The
// zero value is an empty board. A Board is a value: assigning it copies it.
type Board struct {
	squares [64]*Piece
}

// Square pairs a position with whatever stands on it.
type Square struct {
	Position Position `json:"position"`
	Piece    *Piece   `json:"piece"`
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board in the standard starting position.
func NewBoard() *Board {
	b := &Board{}
	b.Start()
	return b
}

// Start resets the board to the standard starting position.
func (b *Board) Start() {
	b.squares = [64]*Piece{}
	for file := 0; file < 8; file++ {
		b.Place(Position{File: file, Rank: 0}, Piece{Type: backRank[file], Color: White})
		b.Place(Position{File: file, Rank: 1}, Piece{Type: Pawn, Color: White})
		b.Place(Position{File: file, Rank: 6}, Piece{Type: Pawn, Color: Black})
		b.Place(Position{File: file, Rank: 7}, Piece{Type: backRank[file], Color: Black})
	}
}

// PieceAt returns the piece on pos. Off-board positions hold nothing.
func (b *Board) PieceAt(pos Position) (Piece, bool) {
	if !pos.Valid() {
		return Piece{}, false
	}
	p := b.squares[pos.index()]
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

func (b *Board) IsEmpty(pos Position) bool {
	return !pos.Valid() || b.squares[pos.index()] == nil
}

// Place puts piece on pos, replacing any occupant. Off-board positions
// are ignored.
func (b *Board) Place(pos Position, piece Piece) {
	if !pos.Valid() {
		return
	}
	b.squares[pos.index()] = &piece
}

func (b *Board) Remove(pos Position) {
	if !pos.Valid() {
		return
	}
	b.squares[pos.index()] = nil
}

// KingPosition finds the king of color. The second result is false when
// there is none, which only happens on a corrupted or hand-built board.
func (b *Board) KingPosition(color Color) (Position, bool) {
	for i, p := range b.squares {
		if p != nil && p.Type == King && p.Color == color {
			return Position{File: i % 8, Rank: i / 8}, true
		}
	}
	return Position{}, false
}

func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Squares lists all 64 squares from A1 to H8, rank by rank.
func (b *Board) Squares() []Square {
	out := make([]Square, 0, 64)
	for i, p := range b.squares {
		sq := Square{Position: Position{File: i % 8, Rank: i / 8}}
		if p != nil {
			piece := *p
			sq.Piece = &piece
		}
		out = append(out, sq)
	}
	return out
}

// occupiedBy returns every square holding a piece of color.
func (b *Board) occupiedBy(color Color) []Position {
	var out []Position
	for i, p := range b.squares {
		if p != nil && p.Color == color {
			out = append(out, Position{File: i % 8, Rank: i / 8})
		}
	}
	return out
}
