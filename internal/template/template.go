// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package template renders the HTML page of the weather widget.
package template

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/wneessen/city-weather/internal/widget"
)

const DefaultTitle = "City Weather"

//go:embed index.html
var indexHTML string

// Page is the data the index page is rendered with.
type Page struct {
	Title string
	City  string
	State widget.DisplayState
}

type Templates struct {
	Index *template.Template
}

func New() (*Templates, error) {
	tpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	return &Templates{Index: tpl}, nil
}

// RenderIndex writes the widget page for the given input and display state.
func (t *Templates) RenderIndex(w io.Writer, city string, state widget.DisplayState) error {
	page := Page{
		Title: DefaultTitle,
		City:  city,
		State: state,
	}
	if err := t.Index.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render index template: %w", err)
	}
	return nil
}
