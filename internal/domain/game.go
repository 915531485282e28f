package domain

import "errors"

// Player is a participant. Number is the marker placed on the board.
type Player struct {
	Name   string
	Color  string
	Number Cell
}

// Other returns the opposing player number.
func (c Cell) Other() Cell {
	switch c {
	case P1:
		return P2
	case P2:
		return P1
	default:
		return Empty
	}
}

// Status is the lifecycle state of a game.
type Status uint8

const (
	InProgress Status = iota
	Won
	Drawn
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Drawn:
		return "draw"
	default:
		return "unknown"
	}
}

// Errors returned by domain operations.
var (
	ErrInvalidDimensions = errors.New("board must be at least 4x4")
	ErrInvalidPlayers    = errors.New("players must be numbered 1 and 2")
	ErrInvalidColumn     = errors.New("invalid column")
	ErrColumnFull        = errors.New("column is full")
	ErrGameOver          = errors.New("game over")
)

// Game holds the current state of a Connect Four match.
// A Game is not safe for concurrent use.
type Game struct {
	board   Board
	players [2]Player
	turn    int
	status  Status
	moves   int
	last    Point
}

// New returns a game on an empty height x width board with players[0] to move.
func New(height, width int, players [2]Player) (*Game, error) {
	if height < WinLength || width < WinLength {
		return nil, ErrInvalidDimensions
	}
	if players[0].Number != P1 || players[1].Number != P2 {
		return nil, ErrInvalidPlayers
	}
	return &Game{
		board:   NewBoard(height, width),
		players: players,
		last:    Point{-1, -1},
	}, nil
}

// NewDefault returns a game on a standard 6x7 board.
func NewDefault(players [2]Player) (*Game, error) {
	return New(DefaultHeight, DefaultWidth, players)
}

// Drop plays the current player's piece into column col.
// Full columns and finished games are reported through the result's Outcome
// and leave the game untouched. Only a column outside the board of a game in
// progress is an error.
func (g *Game) Drop(col int) (MoveResult, error) {
	mover := g.Current()
	if g.Over() {
		return MoveResult{Outcome: GameAlreadyOver, Player: mover, Row: -1, Col: col}, nil
	}
	if col < 0 || col >= g.board.Width {
		return MoveResult{}, ErrInvalidColumn
	}
	row, ok := g.board.LandingRow(col)
	if !ok {
		return MoveResult{Outcome: ColumnFull, Player: mover, Row: -1, Col: col}, nil
	}

	g.board.set(Point{row, col}, mover.Number)
	g.moves++
	g.last = Point{row, col}
	res := MoveResult{Player: mover, Row: row, Col: col}

	// Win takes precedence over draw on the final cell.
	if ln, won := g.board.WinningLine(mover.Number); won {
		g.status = Won
		res.Outcome = Win
		res.Line = ln
		return res, nil
	}
	if g.board.Full() {
		g.status = Drawn
		res.Outcome = Draw
		return res, nil
	}

	g.turn = 1 - g.turn
	res.Outcome = Continue
	res.Player = g.Current()
	return res, nil
}

// Current returns the player to move, or the winner once the game is won.
func (g *Game) Current() Player { return g.players[g.turn] }

// Players returns both players in turn order.
func (g *Game) Players() [2]Player { return g.players }

// Status returns the lifecycle state.
func (g *Game) Status() Status { return g.status }

// Over reports whether the game has reached a terminal state.
func (g *Game) Over() bool { return g.status != InProgress }

// Winner returns the winning player when the game is won.
func (g *Game) Winner() (Player, bool) {
	if g.status != Won {
		return Player{}, false
	}
	return g.players[g.turn], true
}

// Moves returns the number of pieces on the board.
func (g *Game) Moves() int { return g.moves }

// Board returns a copy of the board.
func (g *Game) Board() Board { return g.board.Clone() }

// Snapshot is a read-only copy of a game's observable state.
type Snapshot struct {
	Height  int
	Width   int
	Cells   [][]Cell
	Players [2]Player
	Current Player
	Status  Status
	Winner  Cell
	Line    []Point
	Last    Point
	Moves   int
}

// Snapshot returns the observable state of g. It does not mutate g.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Height:  g.board.Height,
		Width:   g.board.Width,
		Cells:   g.board.Rows(),
		Players: g.players,
		Current: g.Current(),
		Status:  g.status,
		Last:    g.last,
		Moves:   g.moves,
	}
	if w, ok := g.Winner(); ok {
		s.Winner = w.Number
		if ln, ok := g.board.WinningLine(w.Number); ok {
			s.Line = ln[:]
		}
	}
	return s
}

// OnLine reports whether p is part of the snapshot's winning line.
func (s Snapshot) OnLine(p Point) bool {
	for _, q := range s.Line {
		if q == p {
			return true
		}
	}
	return false
}
