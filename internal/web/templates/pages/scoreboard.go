package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/web/templates/layout"
)

// ScoreboardData is everything the mobile scoreboard page shows
type ScoreboardData struct {
	layout.PageData
	Standings []model.Standing
	History   []model.Event
	// EventsURL is the SSE endpoint the page subscribes to for live updates
	EventsURL string
	// ShareImageURL is the QR code image; empty hides it
	ShareImageURL string
}

// Scoreboard renders the leaderboard and recent history page
func Scoreboard(data ScoreboardData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main id="scoreboard" data-events="` + templ.EscapeString(data.EventsURL) + `">`)
		b.WriteString(`<h1>` + templ.EscapeString(data.Title) + `</h1>`)

		if err := Leaderboard(data.Standings).Render(ctx, &b); err != nil {
			return err
		}
		if err := History(data.History).Render(ctx, &b); err != nil {
			return err
		}

		if data.ShareImageURL != "" {
			b.WriteString(`<img class="share" alt="Scan to open this scoreboard" src="` + templ.EscapeString(data.ShareImageURL) + `">`)
		}
		b.WriteString(`</main>`)
		b.WriteString(`<script>` + liveScript + `</script>`)

		_, err := io.WriteString(w, b.String())
		return err
	}))
}

// Leaderboard renders the ranking table
func Leaderboard(standings []model.Standing) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="leaderboard"><h2>Leaderboard</h2>`)
		if len(standings) == 0 {
			b.WriteString(`<p class="empty">No players yet</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>#</th><th>Player</th><th class="score">Score</th></tr></thead><tbody>`)
			for _, s := range standings {
				fmt.Fprintf(&b, `<tr class="standing"><td class="rank">%d</td><td class="player">%s</td><td class="score">%d</td></tr>`,
					s.Rank, templ.EscapeString(s.Player), s.Score)
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// History renders recent events, most recent first
func History(events []model.Event) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="history"><h2>Latest</h2>`)
		if len(events) == 0 {
			b.WriteString(`<p class="empty">Nothing has happened yet</p>`)
		} else {
			b.WriteString(`<ol class="history">`)
			for _, e := range events {
				b.WriteString(`<li class="event"><span class="time">` + templ.EscapeString(e.Time) + `</span>` +
					`<span class="player">` + templ.EscapeString(e.Player) + `</span> did ` +
					`<span class="action">` + templ.EscapeString(e.Action) + `</span> ` +
					`<span class="points">` + fmt.Sprintf("%+d", e.Points) + `</span></li>`)
			}
			b.WriteString(`</ol>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// liveScript re-renders both sections from scoreboard-update events
const liveScript = `(function(){
var root=document.getElementById("scoreboard");var url=root&&root.dataset.events;
if(!url||!window.EventSource)return;
function esc(s){var d=document.createElement("div");d.textContent=s;return d.innerHTML;}
var es=new EventSource(url);
es.addEventListener("scoreboard-update",function(ev){
var p=JSON.parse(ev.data);
var lb=document.getElementById("leaderboard"),h=document.getElementById("history");
if(!p.leaderboard.length){lb.innerHTML='<h2>Leaderboard</h2><p class="empty">No players yet</p>';}
else{lb.innerHTML='<h2>Leaderboard</h2><table><thead><tr><th>#</th><th>Player</th><th class="score">Score</th></tr></thead><tbody>'+
p.leaderboard.map(function(s){return '<tr class="standing"><td class="rank">'+s.rank+'</td><td class="player">'+esc(s.player)+'</td><td class="score">'+s.score+'</td></tr>';}).join("")+'</tbody></table>';}
if(!p.history.length){h.innerHTML='<h2>Latest</h2><p class="empty">Nothing has happened yet</p>';}
else{h.innerHTML='<h2>Latest</h2><ol class="history">'+p.history.map(function(e){return '<li class="event"><span class="time">'+esc(e.time)+'</span><span class="player">'+esc(e.player)+'</span> did <span class="action">'+esc(e.action)+'</span> <span class="points">'+(e.points<0?'':'+')+e.points+'</span></li>';}).join("")+'</ol>';}
});
})();`
