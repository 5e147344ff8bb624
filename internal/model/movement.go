package model

type direction struct {
	df, dr int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingDirs   = queenDirs
)

// PossibleMoves returns the pseudo-legal destinations of piece standing on
// from. Castling and en passant are not included; they depend on game
// history and are handled by Game.
func PossibleMoves(piece Piece, from Position, board *Board) []Position {
	switch piece.Type {
	case Pawn:
		return pawnMoves(piece.Color, from, board)
	case Knight:
		return stepMoves(piece.Color, from, board, knightDirs)
	case Bishop:
		return slideMoves(piece.Color, from, board, bishopDirs)
	case Rook:
		return slideMoves(piece.Color, from, board, rookDirs)
	case Queen:
		return slideMoves(piece.Color, from, board, queenDirs)
	case King:
		return stepMoves(piece.Color, from, board, kingDirs)
	}
	return nil
}

// slideMoves walks each ray until it leaves the board or hits a piece. An
// enemy piece ends the ray and is included, an own piece ends it and is not.
func slideMoves(color Color, from Position, board *Board, dirs []direction) []Position {
	var moves []Position
	for _, d := range dirs {
		target, ok := from.offset(d.df, d.dr)
		for ok {
			occupant, occupied := board.PieceAt(target)
			if !occupied {
				moves = append(moves, target)
				target, ok = target.offset(d.df, d.dr)
				continue
			}
			if occupant.Color != color {
				moves = append(moves, target)
			}
			break
		}
	}
	return moves
}

func stepMoves(color Color, from Position, board *Board, dirs []direction) []Position {
	var moves []Position
	for _, d := range dirs {
		target, ok := from.offset(d.df, d.dr)
		if !ok {
			continue
		}
		if occupant, occupied := board.PieceAt(target); !occupied || occupant.Color != color {
			moves = append(moves, target)
		}
	}
	return moves
}

func pawnMoves(color Color, from Position, board *Board) []Position {
	var moves []Position
	dir := color.forward()

	if one, ok := from.offset(0, dir); ok && board.IsEmpty(one) {
		moves = append(moves, one)
		if from.Rank == color.pawnRank() {
			if two, ok := from.offset(0, 2*dir); ok && board.IsEmpty(two) {
				moves = append(moves, two)
			}
		}
	}
	for _, df := range []int{-1, 1} {
		target, ok := from.offset(df, dir)
		if !ok {
			continue
		}
		if occupant, occupied := board.PieceAt(target); occupied && occupant.Color != color {
			moves = append(moves, target)
		}
	}
	return moves
}

// attacks reports whether piece on from attacks target. Pawns attack
// diagonally only, whether or not the target is occupied. Targets held by
// the piece's own side are never attacked.
func attacks(piece Piece, from, target Position, board *Board) bool {
	if occupant, ok := board.PieceAt(target); ok && occupant.Color == piece.Color {
		return false
	}
	if piece.Type == Pawn {
		return target.Rank-from.Rank == piece.Color.forward() && abs(target.File-from.File) == 1
	}
	for _, p := range PossibleMoves(piece, from, board) {
		if p == target {
			return true
		}
	}
	return false
}
