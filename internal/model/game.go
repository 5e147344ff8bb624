package model

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
	// StatusKingCaptured means the side to move has no king, which only a
	// non-strict game or a hand-built board can reach.
	StatusKingCaptured Status = "kingCaptured"
)

// Game is the position and turn state of one game of chess. It is not safe
// for concurrent use; callers serialize access per game.
type Game struct {
	board    *Board
	toMove   Color
	lastMove *Move
	castling CastlingRights
	history  []Move
	strict   bool
}

type Option func(*Game)

// WithStrictLegality makes the game refuse moves that leave the mover's
// own king attacked, including castling out of or through check.
func WithStrictLegality(strict bool) Option {
	return func(g *Game) {
		g.strict = strict
	}
}

// NewGame starts a game from the standard position with white to move.
func NewGame(opts ...Option) *Game {
	return NewGameFromBoard(NewBoard(), White, NewCastlingRights(), opts...)
}

// NewGameFromBoard starts a game from an arbitrary position. The board is
// copied.
func NewGameFromBoard(board *Board, toMove Color, rights CastlingRights, opts ...Option) *Game {
	g := &Game{
		board:    board.Clone(),
		toMove:   toMove,
		castling: rights,
		history:  make([]Move, 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	c := *g
	c.board = g.board.Clone()
	c.lastMove = g.LastMove()
	c.history = g.History()
	return &c
}

// Board returns a copy of the current board.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

func (g *Game) ToMove() Color {
	return g.toMove
}

func (g *Game) CastlingRights() CastlingRights {
	return g.castling
}

func (g *Game) Strict() bool {
	return g.strict
}

func (g *Game) LastMove() *Move {
	if g.lastMove == nil {
		return nil
	}
	m := *g.lastMove
	return &m
}

// History returns the moves applied so far, oldest first.
func (g *Game) History() []Move {
	return slices.Clone(g.history)
}

// LegalDestinations returns the squares the piece on from can move to. It
// is empty when from is empty or holds a piece of the side not to move.
// Castling and en passant targets are included.
func (g *Game) LegalDestinations(from Position) []Position {
	piece, ok := g.board.PieceAt(from)
	if !ok || piece.Color != g.toMove {
		return []Position{}
	}
	candidates := g.candidates(from, piece)
	if !g.strict {
		return candidates
	}
	legal := make([]Position, 0, len(candidates))
	for _, to := range candidates {
		if g.keepsKingSafe(from, to, piece) {
			legal = append(legal, to)
		}
	}
	return legal
}

// ApplyMove moves the piece on from to to. promotion names the piece a pawn
// becomes on the last rank and is ignored otherwise. On error the game is
// left unchanged.
func (g *Game) ApplyMove(from, to Position, promotion PieceType) (Move, error) {
	if !from.Valid() || !to.Valid() {
		return Move{}, fmt.Errorf("%w: %v to %v", ErrOutOfRange, from, to)
	}
	piece, ok := g.board.PieceAt(from)
	if !ok {
		return Move{}, fmt.Errorf("%w: %s", ErrNoPieceAtOrigin, from)
	}
	if piece.Color != g.toMove {
		return Move{}, fmt.Errorf("%w: %s on %s", ErrWrongSideToMove, piece, from)
	}

	p, err := g.plan(from, to, piece, promotion)
	if err != nil {
		return Move{}, err
	}
	if g.strict {
		king, ok := p.board.KingPosition(piece.Color)
		if !ok {
			return Move{}, fmt.Errorf("%w: %s", ErrCorruptPosition, piece.Color)
		}
		if isAttacked(p.board, piece.Color.Opponent(), king) {
			return Move{}, fmt.Errorf("%w: %s%s", ErrKingInCheck, from, to)
		}
	}

	g.board = p.board
	g.castling = p.castling
	move := p.move
	g.lastMove = &move
	g.history = append(g.history, move)
	g.toMove = g.toMove.Opponent()
	return move, nil
}

// IsSquareAttackedBy reports whether any piece of attacker attacks target
// on the current board.
func (g *Game) IsSquareAttackedBy(attacker Color, target Position) bool {
	if !target.Valid() {
		return false
	}
	return isAttacked(g.board, attacker, target)
}

// CheckSquare returns the square of the side to move's king when that king
// is attacked, and nil otherwise.
func (g *Game) CheckSquare() *Position {
	king, ok := g.board.KingPosition(g.toMove)
	if !ok || !isAttacked(g.board, g.toMove.Opponent(), king) {
		return nil
	}
	return &king
}

// Status classifies the position for the side to move. It always uses full
// legality, whether or not the game was created strict.
func (g *Game) Status() Status {
	if _, ok := g.board.KingPosition(g.toMove); !ok {
		return StatusKingCaptured
	}
	inCheck := g.CheckSquare() != nil
	canMove := g.hasLegalMove()
	switch {
	case canMove && inCheck:
		return StatusCheck
	case canMove:
		return StatusOngoing
	case inCheck:
		return StatusCheckmate
	default:
		return StatusStalemate
	}
}

// GameState is a snapshot of a game for broadcasting or comparison.
type GameState struct {
	Squares  []Square       `json:"squares"`
	ToMove   Color          `json:"toMove"`
	Castling CastlingRights `json:"castlingRights"`
	LastMove *Move          `json:"lastMove"`
	Status   Status         `json:"status"`
	Check    *Position      `json:"check"`
}

func (g *Game) Snapshot() GameState {
	return GameState{
		Squares:  g.board.Squares(),
		ToMove:   g.toMove,
		Castling: g.castling,
		LastMove: g.LastMove(),
		Status:   g.Status(),
		Check:    g.CheckSquare(),
	}
}

// movePlan is the outcome of a move computed on a copy of the board.
type movePlan struct {
	move     Move
	board    *Board
	castling CastlingRights
}

func (g *Game) plan(from, to Position, piece Piece, promotion PieceType) (movePlan, error) {
	p := movePlan{
		move:     Move{From: from, To: to, Piece: piece.Type, Color: piece.Color},
		board:    g.board.Clone(),
		castling: g.castling,
	}

	if g.isEnPassant(from, to, piece) {
		victimSquare := Position{File: to.File, Rank: from.Rank}
		victim, _ := p.board.PieceAt(victimSquare)
		p.move.Special = special(EnPassant)
		p.move.Captured = &CapturedPiece{Type: victim.Type, Color: victim.Color, Position: victimSquare}
		p.board.Remove(victimSquare)
		p.board.Remove(from)
		p.board.Place(to, piece)
		return p, nil
	}

	if side, ok := g.castlingSide(from, to, piece); ok {
		step := 1
		if side == QueenSide {
			step = -1
		}
		rookFrom := Position{File: side.rookFile(), Rank: from.Rank}
		rookTo := Position{File: to.File - step, Rank: from.Rank}
		rook, _ := p.board.PieceAt(rookFrom)
		p.board.Remove(from)
		p.board.Remove(rookFrom)
		p.board.Place(to, piece)
		p.board.Place(rookTo, rook)
		p.move.Special = special(Castling)
		p.move.RookMove = &CastleRookMove{From: rookFrom, To: rookTo}
		p.castling.RevokeAll(piece.Color)
		return p, nil
	}

	if !slices.Contains(PossibleMoves(piece, from, g.board), to) {
		return movePlan{}, fmt.Errorf("%w: %s cannot reach %s from %s", ErrIllegalMove, piece, to, from)
	}

	placed := piece
	if piece.Type == Pawn && to.Rank == piece.Color.Opponent().homeRank() {
		if promotion == "" {
			return movePlan{}, fmt.Errorf("%w: %s%s", ErrMissingPromotionKind, from, to)
		}
		if !promotion.canPromoteTo() {
			return movePlan{}, fmt.Errorf("%w: %q", ErrInvalidPromotionKind, promotion)
		}
		placed.Type = promotion
		p.move.Special = special(Promotion)
		p.move.Promotion = promotion
	}

	if victim, ok := p.board.PieceAt(to); ok {
		p.move.Captured = &CapturedPiece{Type: victim.Type, Color: victim.Color, Position: to}
		p.castling.revokeForSquare(to)
	}
	switch piece.Type {
	case King:
		p.castling.RevokeAll(piece.Color)
	case Rook:
		p.castling.revokeForSquare(from)
	}

	p.board.Remove(from)
	p.board.Place(to, placed)
	return p, nil
}

// candidates lists pseudo-legal destinations including special moves.
func (g *Game) candidates(from Position, piece Piece) []Position {
	moves := PossibleMoves(piece, from, g.board)
	switch piece.Type {
	case Pawn:
		for _, df := range []int{-1, 1} {
			if to, ok := from.offset(df, piece.Color.forward()); ok && g.isEnPassant(from, to, piece) {
				moves = append(moves, to)
			}
		}
	case King:
		for _, df := range []int{-2, 2} {
			if to, ok := from.offset(df, 0); ok {
				if _, ok := g.castlingSide(from, to, piece); ok {
					moves = append(moves, to)
				}
			}
		}
	}
	if moves == nil {
		return []Position{}
	}
	return moves
}

// isEnPassant reports whether a pawn move from -> to captures en passant:
// the target is an empty forward diagonal and the opponent's last move was
// a double push landing beside from.
func (g *Game) isEnPassant(from, to Position, piece Piece) bool {
	if piece.Type != Pawn || g.lastMove == nil {
		return false
	}
	if to.Rank-from.Rank != piece.Color.forward() || abs(to.File-from.File) != 1 || !g.board.IsEmpty(to) {
		return false
	}
	last := g.lastMove
	return last.Color != piece.Color && last.isDoublePawnPush() &&
		last.To == Position{File: to.File, Rank: from.Rank}
}

// castlingSide reports whether a king move from -> to is a castling move
// and on which side.
func (g *Game) castlingSide(from, to Position, piece Piece) (CastlingSide, bool) {
	home := Position{File: 4, Rank: piece.Color.homeRank()}
	if piece.Type != King || from != home || to.Rank != from.Rank || abs(to.File-from.File) != 2 {
		return 0, false
	}
	side, step := KingSide, 1
	if to.File < from.File {
		side, step = QueenSide, -1
	}
	if !g.castling.Has(piece.Color, side) {
		return 0, false
	}
	rookSquare := Position{File: side.rookFile(), Rank: from.Rank}
	if rook, ok := g.board.PieceAt(rookSquare); !ok || rook != (Piece{Type: Rook, Color: piece.Color}) {
		return 0, false
	}
	for f := from.File + step; f != rookSquare.File; f += step {
		if !g.board.IsEmpty(Position{File: f, Rank: from.Rank}) {
			return 0, false
		}
	}
	if g.strict {
		enemy := piece.Color.Opponent()
		for f := from.File; f != to.File+step; f += step {
			if isAttacked(g.board, enemy, Position{File: f, Rank: from.Rank}) {
				return 0, false
			}
		}
	}
	return side, true
}

// keepsKingSafe reports whether playing from -> to leaves the mover's king
// unattacked. A missing king counts as unsafe.
func (g *Game) keepsKingSafe(from, to Position, piece Piece) bool {
	p, err := g.plan(from, to, piece, Queen)
	if err != nil {
		return false
	}
	king, ok := p.board.KingPosition(piece.Color)
	return ok && !isAttacked(p.board, piece.Color.Opponent(), king)
}

// hasLegalMove reports whether the side to move has any fully legal move.
func (g *Game) hasLegalMove() bool {
	strict := *g
	strict.strict = true
	for _, from := range g.board.occupiedBy(g.toMove) {
		piece, _ := g.board.PieceAt(from)
		for _, to := range strict.candidates(from, piece) {
			if strict.keepsKingSafe(from, to, piece) {
				return true
			}
		}
	}
	return false
}

func isAttacked(board *Board, attacker Color, target Position) bool {
	for _, from := range board.occupiedBy(attacker) {
		piece, _ := board.PieceAt(from)
		if attacks(piece, from, target, board) {
			return true
		}
	}
	return false
}
