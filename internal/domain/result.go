package domain

// Outcome classifies the effect of a Drop.
type Outcome uint8

const (
	// Continue means the piece was placed and the turn passed.
	Continue Outcome = iota + 1
	// Win means the piece completed a line of four.
	Win
	// Draw means the piece filled the board without a win.
	Draw
	// ColumnFull means the column had no empty cell; nothing changed.
	ColumnFull
	// GameAlreadyOver means the game had ended; nothing changed.
	GameAlreadyOver
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Win:
		return "win"
	case Draw:
		return "draw"
	case ColumnFull:
		return "column full"
	case GameAlreadyOver:
		return "game already over"
	default:
		return "unknown"
	}
}

// MoveResult describes what a Drop did.
//
// Player is the next player to move for Continue, the winner for Win and the
// player who attempted the move otherwise. Row is -1 for rejected moves.
type MoveResult struct {
	Outcome Outcome
	Player  Player
	Row     int
	Col     int
	Line    [WinLength]Point
}

// Rejected reports whether the move left the game unchanged.
func (r MoveResult) Rejected() bool {
	return r.Outcome == ColumnFull || r.Outcome == GameAlreadyOver
}

// Terminal reports whether the move ended the game.
func (r MoveResult) Terminal() bool {
	return r.Outcome == Win || r.Outcome == Draw
}

// Err maps rejected outcomes onto sentinel errors for callers that use
// error flow. It returns nil for accepted moves.
func (r MoveResult) Err() error {
	switch r.Outcome {
	case ColumnFull:
		return ErrColumnFull
	case GameAlreadyOver:
		return ErrGameOver
	default:
		return nil
	}
}
