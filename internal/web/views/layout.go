// Package views holds the HTML components served by the web router.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// AppName is shown in the page title and header
const AppName = "Snake"

// FlashMessage is a one-shot notice shown above the page content
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData is shared by every full page
type PageData struct {
	Title    string
	Username string // empty when nobody is signed in
	Flash    *FlashMessage
}

// pageTitle appends the app name unless the title is empty
func pageTitle(title string) string {
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

// htmlWriter keeps the first write error so components can write without
// checking every call
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout wraps body in the document chrome
func Layout(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(pageTitle(data.Title))
		h.raw(`</title></head><body>`)

		h.raw(`<header><nav><a href="/" class="brand">`)
		h.text(AppName)
		h.raw(`</a> <a href="/leaderboard">Leaderboard</a> <a href="/opportunities">Opportunities</a>`)
		if data.Username != "" {
			h.raw(` <span class="current-user">Signed in as `)
			h.text(data.Username)
			h.raw(`</span>`)
		}
		h.raw(`</nav></header>`)

		if data.Flash != nil {
			h.raw(`<div class="flash flash-`)
			h.text(data.Flash.Type)
			h.raw(`" role="status">`)
			h.text(data.Flash.Message)
			h.raw(`</div>`)
		}

		h.raw(`<main>`)
		if data.Title != "" {
			h.raw(`<h1>`)
			h.text(data.Title)
			h.raw(`</h1>`)
		}
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}
