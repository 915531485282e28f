package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jaminalder/connect-four/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")
)

// GameState is a copy of the state tracked per game.
type GameState struct {
	ID       string
	Snapshot domain.Snapshot
	Created  time.Time
	Updated  time.Time
}

// Result describes a finished game for recorders.
type Result struct {
	GameID  string
	Players [2]domain.Player
	Outcome domain.Outcome
	Winner  domain.Cell
	Height  int
	Width   int
	Moves   int
	Started time.Time
	Ended   time.Time
}

// NewResult summarises g for recorders. It is meaningful once g is over.
func NewResult(id string, g *domain.Game, started, ended time.Time) Result {
	r := Result{
		GameID:  id,
		Players: g.Players(),
		Moves:   g.Moves(),
		Started: started,
		Ended:   ended,
	}
	b := g.Board()
	r.Height, r.Width = b.Height, b.Width
	switch g.Status() {
	case domain.Won:
		r.Outcome = domain.Win
		w, _ := g.Winner()
		r.Winner = w.Number
	case domain.Drawn:
		r.Outcome = domain.Draw
	}
	return r
}

// Recorder persists finished games.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

type entry struct {
	id      string
	game    *domain.Game
	created time.Time
	updated time.Time
}

func (e *entry) state() GameState {
	return GameState{ID: e.id, Snapshot: e.game.Snapshot(), Created: e.created, Updated: e.updated}
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers. Moves on the same game are applied
// one at a time.
type Service struct {
	mu       sync.Mutex
	games    map[string]*entry
	subs     map[string]map[*subscriber]struct{}
	render   func(GameState) []byte
	recorder Recorder
	logger   *log.Logger
	height   int
	width    int
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the function producing broadcast payloads.
func WithRenderer(render func(GameState) []byte) Option {
	return func(s *Service) {
		if render != nil {
			s.render = render
		}
	}
}

// WithRecorder sets where finished games are stored.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDimensions sets the board size of new games.
func WithDimensions(height, width int) Option {
	return func(s *Service) { s.height, s.width = height, width }
}

// NewService creates a service. Without options it renders nothing, records
// nothing and creates 6x7 games.
func NewService(opts ...Option) *Service {
	s := &Service{
		games:  make(map[string]*entry),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: func(GameState) []byte { return nil },
		logger: log.New(io.Discard),
		height: domain.DefaultHeight,
		width:  domain.DefaultWidth,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new game between p1 and p2.
func (s *Service) CreateGame(p1, p2 domain.Player) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := domain.New(s.height, s.width, [2]domain.Player{p1, p2})
	if err != nil {
		return nil, err
	}
	now := s.now()
	e := &entry{id: uuid.NewString(), game: g, created: now, updated: now}
	s.games[e.id] = e
	s.logger.Debug("game created", "id", e.id, "p1", p1.Name, "p2", p2.Name, "height", s.height, "width", s.width)
	st := e.state()
	return &st, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[id]
	if !ok {
		return nil, false
	}
	st := e.state()
	return &st, true
}

// Play drops the current player's piece into col and broadcasts the new state.
// Rejected moves return the unchanged state with a rejected result and no
// broadcast. A game that ends is handed to the recorder.
func (s *Service) Play(ctx context.Context, id string, col int) (*GameState, domain.MoveResult, error) {
	s.mu.Lock()
	e, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.MoveResult{}, ErrNotFound
	}
	res, err := e.game.Drop(col)
	if err != nil {
		st := e.state()
		s.mu.Unlock()
		return &st, res, err
	}
	if res.Rejected() {
		st := e.state()
		s.mu.Unlock()
		s.logger.Debug("move rejected", "id", id, "col", col, "outcome", res.Outcome)
		return &st, res, nil
	}
	e.updated = s.now()

	st := e.state()
	var finished *Result
	if res.Terminal() {
		r := NewResult(id, e.game, e.created, e.updated)
		finished = &r
	}
	s.broadcastLocked(id, s.render(st))
	s.mu.Unlock()

	if finished != nil {
		s.logger.Info("game finished", "id", id, "outcome", finished.Outcome, "winner", finished.Winner, "moves", finished.Moves)
		if s.recorder != nil {
			if err := s.recorder.Record(ctx, *finished); err != nil {
				s.logger.Error("record game", "id", id, "err", err)
			}
		}
	}
	return &st, res, nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// broadcastLocked fans payload out without blocking; slow subscribers are
// closed and dropped. Callers hold s.mu.
func (s *Service) broadcastLocked(id string, payload []byte) {
	for sub := range s.subs[id] {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			delete(s.subs[id], sub)
		}
	}
}
