package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/jaminalder/connect-four/internal/domain"
)

// ErrQuit is returned by Run when a player asks to leave.
var ErrQuit = errors.New("quit")

// Session plays one game at a terminal, one column number per input line.
type Session struct {
	in    io.Reader
	out   io.Writer
	game  *domain.Game
	once  sync.Once
	lines chan inputLine
}

// inputLine is one line read from the input, or the error that ended it.
type inputLine struct {
	text string
	err  error
}

// NewSession returns a session reading moves from in and writing the board to out.
func NewSession(in io.Reader, out io.Writer, g *domain.Game) *Session {
	return &Session{in: in, out: out, game: g}
}

// readLines starts the input reader on first use. The reader outlives Run
// when Run stops on ctx while a Scan is pending.
func (s *Session) readLines() <-chan inputLine {
	s.once.Do(func() {
		s.lines = make(chan inputLine)
		go func() {
			defer close(s.lines)
			sc := bufio.NewScanner(s.in)
			for sc.Scan() {
				s.lines <- inputLine{text: sc.Text()}
			}
			err := sc.Err()
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			s.lines <- inputLine{err: err}
		}()
	})
	return s.lines
}

// Run prompts for moves until the game ends, input is exhausted, ctx is
// cancelled or a player types "q". Cancelling ctx also stops a prompt that
// is still waiting for a line. It returns the move that ended the game.
func (s *Session) Run(ctx context.Context) (domain.MoveResult, error) {
	width := s.game.Board().Width
	fmt.Fprintln(s.out, Render(s.game.Snapshot()))
	for {
		if s.game.Over() {
			return domain.MoveResult{Outcome: domain.GameAlreadyOver, Player: s.game.Current(), Row: -1}, nil
		}
		if err := ctx.Err(); err != nil {
			return domain.MoveResult{}, err
		}
		fmt.Fprintf(s.out, "%s, column (1-%d, q to quit): ", s.game.Current().Name, width)
		var in inputLine
		select {
		case <-ctx.Done():
			return domain.MoveResult{}, ctx.Err()
		case l, ok := <-s.readLines():
			if !ok {
				return domain.MoveResult{}, io.ErrUnexpectedEOF
			}
			in = l
		}
		if in.err != nil {
			return domain.MoveResult{}, in.err
		}
		line := strings.TrimSpace(in.text)
		if strings.EqualFold(line, "q") {
			return domain.MoveResult{}, ErrQuit
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(s.out, "%q is not a column number\n", line)
			continue
		}

		res, err := s.game.Drop(n - 1)
		if errors.Is(err, domain.ErrInvalidColumn) {
			fmt.Fprintf(s.out, "Column must be between 1 and %d\n", width)
			continue
		}
		if err != nil {
			return res, err
		}
		if res.Outcome == domain.ColumnFull {
			fmt.Fprintf(s.out, "Column %d is full\n", n)
			continue
		}
		fmt.Fprintln(s.out, Render(s.game.Snapshot()))
		if res.Terminal() {
			return res, nil
		}
	}
}
