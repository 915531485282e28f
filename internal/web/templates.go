package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/connect-four/internal/app"
	"github.com/jaminalder/connect-four/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

type cellView struct {
	Num   int
	Color string
	Win   bool
	Last  bool
}

type boardView struct {
	ID      string
	Playing bool
	Cols    []int
	Rows    [][]cellView
	Message string
	Error   string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	s := gs.Snapshot
	v := boardView{ID: gs.ID, Playing: s.Status == domain.InProgress, Error: errMsg}
	for c := 0; c < s.Width; c++ {
		v.Cols = append(v.Cols, c)
	}
	v.Rows = make([][]cellView, s.Height)
	for r, row := range s.Cells {
		v.Rows[r] = make([]cellView, len(row))
		for c, cell := range row {
			if cell == domain.Empty {
				continue
			}
			p := domain.Point{Row: r, Col: c}
			v.Rows[r][c] = cellView{
				Num:   int(cell),
				Color: s.Players[cell-1].Color,
				Win:   s.OnLine(p),
				Last:  s.Last == p,
			}
		}
	}
	switch s.Status {
	case domain.Won:
		v.Message = s.Players[s.Winner-1].Name + " won!"
	case domain.Drawn:
		v.Message = "Tie!"
	default:
		v.Message = s.Current.Name + "'s turn"
	}
	return v
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Connect Four</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
td { width: 50px; height: 50px; border: 1px solid #666; }
#column-top td { border: 1px dashed #ccc; }
.piece { width: 80%; height: 80%; margin: 10%; border-radius: 50%; }
.piece.win { outline: 3px solid #000; }
</style>
</head><body>{{template "content" .}}</body></html>`))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Connect Four</h1>
<form action="/game" method="post">
  {{range $i, $s := .}}
  <fieldset id="player{{inc $i}}-settings">
    <legend>Player {{inc $i}}</legend>
    <input name="p{{inc $i}}name" placeholder="{{$s.Name}}">
    <input name="p{{inc $i}}color" placeholder="{{$s.Color}}">
  </fieldset>
  {{end}}
  <button id="start-game">Start</button>
</form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>{{(index .Players 0).Name}} vs {{(index .Players 1).Name}}</h1>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="board" hx-swap="innerHTML">{{.BoardHTML}}</div>
</div>
<form action="/" method="get"><button>New game</button></form>`))
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const boardTemplate = `<div id="board">
  {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
  <table>
    {{if .Playing}}
    <tr id="column-top">
      {{range .Cols}}
      <td><form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="col" value="{{.}}">
        <button type="submit">&#9660;</button>
      </form></td>
      {{end}}
    </tr>
    {{end}}
    {{range $r, $row := .Rows}}
    <tr>
      {{range $c, $cell := $row}}
      <td id="c-{{$r}}-{{$c}}">{{if $cell.Num}}<div class="piece p{{$cell.Num}}{{if $cell.Win}} win{{end}}{{if $cell.Last}} last{{end}}" style="background-color: {{$cell.Color}}"></div>{{end}}</td>
      {{end}}
    </tr>
    {{end}}
  </table>
  <div id="outcome-message">{{.Message}}</div>
</div>`
