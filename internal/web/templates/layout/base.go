package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PageData holds common data for all pages
type PageData struct {
	Title string
}

// Base wraps body in the shared HTML shell. The page is meant for phones
// passed around the room, so the styling is inline and tiny.
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(data.Title)+` · Party Scoreboard</title>`+
			`<style>`+baseCSS+`</style></head><body>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

const baseCSS = `body{font-family:system-ui,sans-serif;margin:0 auto;max-width:32rem;padding:1rem;background:#1b1530;color:#f4f0ff}` +
	`h1,h2{margin:.5rem 0}table{width:100%;border-collapse:collapse}td,th{padding:.4rem;text-align:left}` +
	`tr:nth-child(even){background:#2a2245}.score,.points{text-align:right;font-variant-numeric:tabular-nums}` +
	`.empty{opacity:.7;font-style:italic}ol.history{list-style:none;padding:0}ol.history li{padding:.3rem 0;border-bottom:1px solid #3a3160}` +
	`.time{opacity:.7;margin-right:.5rem}img.share{display:block;margin:1rem auto;width:10rem}`
