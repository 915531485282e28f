package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jaminalder/connect-four/internal/app"
	"github.com/jaminalder/connect-four/internal/domain"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func result(id string, outcome domain.Outcome, winner domain.Cell, p1, p2 string, ended time.Time) app.Result {
	return app.Result{
		GameID: id,
		Players: [2]domain.Player{
			{Name: p1, Color: "red", Number: domain.P1},
			{Name: p2, Color: "gold", Number: domain.P2},
		},
		Outcome: outcome,
		Winner:  winner,
		Height:  6,
		Width:   7,
		Moves:   11,
		Started: ended.Add(-time.Minute),
		Ended:   ended,
	}
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "a", "b", "results.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file should be created")
}

func TestStoreRecordAndRecent(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, result("g1", domain.Win, domain.P1, "Ann", "Ben", base)))
	require.NoError(t, store.Record(ctx, result("g2", domain.Draw, domain.Empty, "Ann", "Ben", base.Add(time.Hour))))
	require.NoError(t, store.Record(ctx, result("g3", domain.Win, domain.P2, "Cat", "Ben", base.Add(2*time.Hour))))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []string{"g3", "g2", "g1"}, []string{got[0].GameID, got[1].GameID, got[2].GameID})

	require.Equal(t, "Ben", got[0].WinnerName())
	require.Equal(t, "", got[1].WinnerName())
	require.Equal(t, "draw", got[1].Outcome)
	require.Equal(t, "Ann", got[2].WinnerName())
	require.Equal(t, "red", got[2].Color1)
	require.Equal(t, 11, got[2].Moves)
	require.True(t, got[2].Ended.Equal(base), "ended time should round-trip")

	limited, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestStoreRecordIsIdempotent(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()
	r := result("same", domain.Win, domain.P1, "Ann", "Ben", time.Now())
	require.NoError(t, store.Record(ctx, r))
	require.NoError(t, store.Record(ctx, r))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestStoreRejectsUnfinishedResult(t *testing.T) {
	store := openTemp(t)
	err := store.Record(context.Background(), result("x", domain.Continue, domain.Empty, "Ann", "Ben", time.Now()))
	require.Error(t, err)
}

func TestStoreTally(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Record(ctx, result("g1", domain.Win, domain.P1, "Ann", "Ben", now)))
	require.NoError(t, store.Record(ctx, result("g2", domain.Win, domain.P2, "Ben", "Ann", now)))
	require.NoError(t, store.Record(ctx, result("g3", domain.Win, domain.P1, "Ben", "Cat", now)))
	require.NoError(t, store.Record(ctx, result("g4", domain.Draw, domain.Empty, "Cat", "Ann", now)))

	tally, err := store.Tally(ctx)
	require.NoError(t, err)
	require.Equal(t, []WinCount{{Name: "Ann", Wins: 2}, {Name: "Ben", Wins: 1}}, tally)
}

func TestStoreAsServiceRecorder(t *testing.T) {
	store := openTemp(t)
	svc := app.NewService(app.WithRecorder(store))
	gs, err := svc.CreateGame(
		domain.Player{Name: "Ann", Color: "red", Number: domain.P1},
		domain.Player{Name: "Ben", Color: "gold", Number: domain.P2},
	)
	require.NoError(t, err)

	ctx := context.Background()
	for _, c := range []int{0, 1, 0, 1, 0, 1, 0} {
		_, _, err := svc.Play(ctx, gs.ID, c)
		require.NoError(t, err)
	}

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, gs.ID, got[0].GameID)
	require.Equal(t, "Ann", got[0].WinnerName())
	require.Equal(t, 7, got[0].Moves)
}

func TestStoreInMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Record(context.Background(), result("m", domain.Draw, domain.Empty, "A", "B", time.Now())))
}
