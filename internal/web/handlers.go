package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/connect-four/internal/app"
	"github.com/jaminalder/connect-four/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	logger    *log.Logger
	seats     [2]Seat
	heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState) []byte {
	return renderTemplate(h.tpl.board, "", newBoardView(gs, ""))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "base", h.seats))
}

// playersFromForm builds both players, substituting seat defaults for blank
// names and colours.
func (h *handlers) playersFromForm(r *http.Request) (domain.Player, domain.Player) {
	var out [2]domain.Player
	for i := range out {
		prefix := fmt.Sprintf("p%d", i+1)
		name := strings.TrimSpace(r.Form.Get(prefix + "name"))
		if name == "" {
			name = h.seats[i].Name
		}
		if name == "" {
			name = fmt.Sprintf("P%d", i+1)
		}
		color := strings.TrimSpace(r.Form.Get(prefix + "color"))
		if color == "" {
			color = h.seats[i].Color
		}
		out[i] = domain.Player{Name: name, Color: color, Number: domain.Cell(i + 1)}
	}
	return out[0], out[1]
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	p1, p2 := h.playersFromForm(r)
	gs, err := h.svc.CreateGame(p1, p2)
	if err != nil {
		h.logger.Error("create game", "err", err)
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	data := struct {
		ID        string
		Players   [2]domain.Player
		BoardHTML template.HTML
	}{ID: gs.ID, Players: gs.Snapshot.Players}
	data.BoardHTML = template.HTML(h.renderBoard(*gs))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "base", data))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	col, convErr := strconv.Atoi(r.Form.Get("col"))
	if convErr != nil {
		col = -1
	}
	gs, res, err := h.svc.Play(r.Context(), id, col)
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	var errMsg string
	switch {
	case errors.Is(err, domain.ErrInvalidColumn):
		errMsg = "Invalid column"
	case err != nil:
		errMsg = "Invalid move"
	case errors.Is(res.Err(), domain.ErrColumnFull):
		errMsg = "Column is full"
	case errors.Is(res.Err(), domain.ErrGameOver):
		errMsg = "Game is over"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(renderTemplate(h.tpl.board, "", newBoardView(*gs, errMsg)))
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: board\n")
			for _, line := range strings.Split(string(b), "\n") {
				_, _ = fmt.Fprintf(w, "data: %s\n", line)
			}
			_, _ = io.WriteString(w, "\n")
			flusher.Flush()
		}
	}
}
