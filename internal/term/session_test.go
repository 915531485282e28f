package term

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jaminalder/connect-four/internal/domain"
)

func newGame(t *testing.T) *domain.Game {
	t.Helper()
	g, err := domain.NewDefault([2]domain.Player{
		{Name: "Ann", Color: "red", Number: domain.P1},
		{Name: "Ben", Color: "#00ff00", Number: domain.P2},
	})
	require.NoError(t, err)
	return g
}

func TestRenderShowsPiecesAndStatus(t *testing.T) {
	g := newGame(t)
	out := Render(g.Snapshot())
	require.Contains(t, out, "1 2 3 4 5 6 7")
	require.Equal(t, 42, strings.Count(out, emptyGlyph))
	require.True(t, strings.HasSuffix(out, Status(g.Snapshot())))
	require.Contains(t, out, "Ann to move")

	_, err := g.Drop(3)
	require.NoError(t, err)
	out = Render(g.Snapshot())
	require.Equal(t, 41, strings.Count(out, emptyGlyph))
	require.Contains(t, out, "Ben to move")
}

func TestStatusForFinishedGames(t *testing.T) {
	g := newGame(t)
	for _, c := range []int{0, 1, 0, 1, 0, 1, 0} {
		_, err := g.Drop(c)
		require.NoError(t, err)
	}
	require.Equal(t, "Ann won!", Status(g.Snapshot()))

	s := g.Snapshot()
	s.Status, s.Winner = domain.Drawn, domain.Empty
	require.Equal(t, "Tie!", Status(s))
}

func TestNamedColor(t *testing.T) {
	require.Equal(t, "1", namedColor("Red"))
	require.Equal(t, "3", namedColor("gold"))
	require.Equal(t, "#123456", namedColor("#123456"))
}

func TestSessionPlaysToWin(t *testing.T) {
	g := newGame(t)
	in := strings.NewReader("1\n2\n1\n2\n1\n2\n1\n")
	var out bytes.Buffer
	res, err := NewSession(in, &out, g).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.Win, res.Outcome)
	require.Equal(t, "Ann", res.Player.Name)
	require.Contains(t, out.String(), "Ann won!")
}

func TestSessionReprompts(t *testing.T) {
	g := newGame(t)
	in := strings.NewReader("abc\n0\n8\n1\n1\n1\n1\n1\n1\n1\nq\n")
	var out bytes.Buffer
	_, err := NewSession(in, &out, g).Run(context.Background())
	require.ErrorIs(t, err, ErrQuit)

	text := out.String()
	require.Contains(t, text, `"abc" is not a column number`)
	require.Equal(t, 2, strings.Count(text, "Column must be between 1 and 7"))
	require.Contains(t, text, "Column 1 is full")
	require.Equal(t, 6, g.Moves())
}

func TestSessionEndOfInput(t *testing.T) {
	g := newGame(t)
	_, err := NewSession(strings.NewReader("4\n"), io.Discard, g).Run(context.Background())
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	require.Equal(t, 1, g.Moves())
}

func TestSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSession(strings.NewReader("4\n"), io.Discard, newGame(t)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSessionOnFinishedGame(t *testing.T) {
	g := newGame(t)
	for _, c := range []int{0, 1, 0, 1, 0, 1, 0} {
		_, err := g.Drop(c)
		require.NoError(t, err)
	}
	res, err := NewSession(strings.NewReader(""), io.Discard, g).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.GameAlreadyOver, res.Outcome)
}

func TestSessionCancelledWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	g := newGame(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := NewSession(pr, io.Discard, g).Run(ctx)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after ctx was cancelled")
	}
	require.Equal(t, 0, g.Moves())
}
