package domain

// Cell represents a board cell state. Non-empty cells hold the number of the
// player whose piece sits there.
type Cell uint8

const (
	Empty Cell = iota
	P1
	P2
)

// Default board dimensions.
const (
	DefaultHeight = 6
	DefaultWidth  = 7
)

// WinLength is the number of aligned pieces that wins the game.
const WinLength = 4

// Point addresses a single cell. Row 0 is the top of the board.
type Point struct {
	Row int
	Col int
}

// Board is a Height x Width grid stored row-major.
// Pieces fall toward increasing row index.
type Board struct {
	Height int
	Width  int
	cells  []Cell
}

// NewBoard returns an empty board.
func NewBoard(height, width int) Board {
	return Board{Height: height, Width: width, cells: make([]Cell, height*width)}
}

func (b Board) inBounds(p Point) bool {
	return p.Row >= 0 && p.Row < b.Height && p.Col >= 0 && p.Col < b.Width
}

// At returns the cell at row r, column c. Out of bounds reads return Empty.
func (b Board) At(r, c int) Cell {
	if !b.inBounds(Point{r, c}) {
		return Empty
	}
	return b.cells[r*b.Width+c]
}

func (b Board) set(p Point, v Cell) {
	b.cells[p.Row*b.Width+p.Col] = v
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	cp := Board{Height: b.Height, Width: b.Width, cells: make([]Cell, len(b.cells))}
	copy(cp.cells, b.cells)
	return cp
}

// Rows returns a copy of the board as a slice of rows.
func (b Board) Rows() [][]Cell {
	rows := make([][]Cell, b.Height)
	for r := range rows {
		rows[r] = make([]Cell, b.Width)
		copy(rows[r], b.cells[r*b.Width:(r+1)*b.Width])
	}
	return rows
}

// LandingRow scans column col from the bottom up and returns the first empty
// row. ok is false when the column is full or col is not a column of b.
func (b Board) LandingRow(col int) (row int, ok bool) {
	if col < 0 || col >= b.Width {
		return -1, false
	}
	for r := b.Height - 1; r >= 0; r-- {
		if b.cells[r*b.Width+col] == Empty {
			return r, true
		}
	}
	return -1, false
}

// Full reports whether every cell is occupied.
func (b Board) Full() bool {
	for _, c := range b.cells {
		if c == Empty {
			return false
		}
	}
	return true
}

// directions a line may run from its origin: right, down, down-right, down-left.
var directions = [4]Point{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// HasWin reports whether player holds four aligned cells anywhere on the board.
func (b Board) HasWin(player Cell) bool {
	_, ok := b.WinningLine(player)
	return ok
}

// WinningLine scans every cell as a potential line start and returns the
// first line of four held by player.
func (b Board) WinningLine(player Cell) ([WinLength]Point, bool) {
	if player == Empty {
		return [WinLength]Point{}, false
	}
	for r := 0; r < b.Height; r++ {
		for c := 0; c < b.Width; c++ {
			for _, d := range directions {
				ln := lineFrom(Point{r, c}, d)
				if lineHeld(b, player, ln) {
					return ln, true
				}
			}
		}
	}
	return [WinLength]Point{}, false
}

func lineFrom(origin, d Point) [WinLength]Point {
	var ln [WinLength]Point
	for i := range ln {
		ln[i] = Point{origin.Row + i*d.Row, origin.Col + i*d.Col}
	}
	return ln
}

// lineHeld reports whether every point of ln is on the board and held by player.
func lineHeld(b Board, player Cell, ln [WinLength]Point) bool {
	for _, p := range ln {
		if !b.inBounds(p) || b.cells[p.Row*b.Width+p.Col] != player {
			return false
		}
	}
	return true
}
