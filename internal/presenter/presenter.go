// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/template"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/city-weather/internal/logger"
	"github.com/wneessen/city-weather/internal/widget"
)

const (
	DefaultTitle = "city-weather"
	minInner     = 20
)

const boxTpl = `┌{{ repeat "─" (add .Inner 2) }}┐
│ {{ pad .Title .Inner }} │
├{{ repeat "─" (add .Inner 2) }}┤
{{ range .Lines }}│ {{ pad . $.Inner }} │
{{ end }}└{{ repeat "─" (add .Inner 2) }}┘
`

// BoxContext is the data the box template is executed with.
type BoxContext struct {
	Title string
	Lines []string
	Inner int
}

// cells measures strings in terminal cells. Ambiguous-width runes such as the box drawing
// characters count as one cell regardless of the locale.
var cells = &runewidth.Condition{EastAsianWidth: false}

// Terminal is a widget.Sink that draws each non-empty display state as a box on a terminal.
// Column widths are measured in terminal cells so wide and combining characters line up.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	logger *logger.Logger
	tpl    *template.Template
	title  string
}

func NewTerminal(out io.Writer, log *logger.Logger) (*Terminal, error) {
	tpl, err := template.New("box").Funcs(templateFuncMap()).Parse(boxTpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse box template: %w", err)
	}
	return &Terminal{
		out:    out,
		logger: log,
		tpl:    tpl,
		title:  DefaultTitle,
	}, nil
}

// Display writes the box for state. Cleared states produce no output.
func (t *Terminal) Display(state widget.DisplayState) {
	if state.IsCleared() {
		return
	}
	if err := t.Render(t.out, state); err != nil {
		t.logger.Error("failed to write weather box", logger.Err(err))
	}
}

// Render writes the box for state to w.
func (t *Terminal) Render(w io.Writer, state widget.DisplayState) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tpl.Execute(w, BuildContext(t.title, state))
}

// BuildContext collects the non-empty fields of state and the inner width of the box.
func BuildContext(title string, state widget.DisplayState) BoxContext {
	ctx := BoxContext{Title: title, Inner: cells.StringWidth(title)}
	for _, field := range state.DataFields() {
		if field != "" {
			ctx.Lines = append(ctx.Lines, field)
		}
	}
	if state.Error != "" {
		ctx.Lines = append(ctx.Lines, "Error: "+state.Error)
	}
	for _, line := range ctx.Lines {
		ctx.Inner = max(ctx.Inner, cells.StringWidth(line))
	}
	ctx.Inner = max(ctx.Inner, minInner)
	return ctx
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"pad":    pad,
		"repeat": strings.Repeat,
		"add":    func(a, b int) int { return a + b },
	}
}

// pad fills val with spaces up to width terminal cells.
func pad(val string, width int) string {
	return cells.FillRight(val, width)
}
