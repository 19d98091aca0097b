package ui

import (
	"fmt"
	"strings"

	"github.com/ayusman/tuicher/internal/config"
	"github.com/ayusman/tuicher/internal/store"
	"github.com/ayusman/tuicher/pkg/protocol"
)

// NoSelection renders a list without a highlighted row.
const NoSelection = -1

// Renderer turns results into styled terminal text.
type Renderer struct {
	styles *Styles
	framed bool
}

// NewRenderer creates a renderer for the given theme. Framed output draws a border around lists.
func NewRenderer(theme config.Theme, framed bool) *Renderer {
	return &Renderer{styles: NewStyles(theme), framed: framed}
}

// Render lists results numbered from 1. Row selected is highlighted.
func (r *Renderer) Render(results []protocol.TUIResult, selected int) string {
	if len(results) == 0 {
		return r.frame(r.styles.Dim.Render("No results"))
	}

	rows := make([]string, 0, len(results))
	for i, res := range results {
		rows = append(rows, r.row(i, res, i == selected))
	}
	return r.frame(strings.Join(rows, "\n"))
}

func (r *Renderer) row(i int, res protocol.TUIResult, selected bool) string {
	text := res.Text
	if res.IconPath != nil {
		text = fmt.Sprintf("%s  (%s)", text, *res.IconPath)
	}

	var line string
	switch {
	case selected:
		line = r.styles.Selected.Render(text)
	case !res.Actionable():
		line = r.styles.Disabled.Render(text)
	default:
		line = r.styles.Text.Render(text)
	}

	if res.Action != nil {
		line += " " + r.styles.Badge.Render(res.Action.Kind().String())
	}

	out := r.styles.Index.Render(fmt.Sprintf("%d.", i+1)) + " " + line
	if res.SecondaryText != nil {
		out += "\n" + strings.Repeat(" ", 5) + r.styles.Secondary.Render(*res.SecondaryText)
	}
	return out
}

// RenderMessage renders a status line.
func (r *Renderer) RenderMessage(msg string) string {
	return r.styles.Text.Render(msg)
}

// RenderError renders err in the warning color.
func (r *Renderer) RenderError(err error) string {
	return r.styles.Warning.Render("error: " + err.Error())
}

// RenderHistory lists history entries, most recent first.
func (r *Renderer) RenderHistory(entries []*store.Entry) string {
	if len(entries) == 0 {
		return r.frame(r.styles.Dim.Render("History is empty"))
	}

	rows := make([]string, 0, len(entries))
	for _, e := range entries {
		row := r.styles.Dim.Render(e.CreatedAt.Local().Format("2006-01-02 15:04")) + " " +
			r.styles.Text.Render(e.Text)
		if kind := e.ActionKind(); kind != "" {
			row += " " + r.styles.Badge.Render(kind)
		}
		if e.ActionErr != nil {
			row += " " + r.styles.Warning.Render("unreadable action")
		}
		row += " " + r.styles.Secondary.Render(fmt.Sprintf("%q", e.Query))
		rows = append(rows, row)
	}
	return r.frame(strings.Join(rows, "\n"))
}

func (r *Renderer) frame(s string) string {
	if !r.framed {
		return s
	}
	return r.styles.Frame.Render(s)
}
