package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sweeney/pir-sensor/internal/logic"
	"github.com/sweeney/pir-sensor/internal/status"
)

// pageData is what the template sees. Groups carry their member pins so the
// page can nest them.
type pageData struct {
	status.Snapshot
	Uptime string
	Tiles  []groupTile
}

type groupTile struct {
	Topic string
	Level logic.Level
	Pins  []pinTile
}

type pinTile struct {
	Topic string
	Line  int
	Level logic.Level
}

func buildPage(snap status.Snapshot) pageData {
	layout := logic.Layout{Pins: len(snap.Pins), GroupSize: snap.Config.GroupSize}
	d := pageData{Snapshot: snap, Uptime: humanDuration(snap.Uptime())}
	for g, gl := range snap.Groups {
		tile := groupTile{Topic: fmt.Sprintf("%s/g%d", snap.Config.Device, g+1), Level: gl}
		first, end := layout.Members(g)
		for p := first; p < end && p < len(snap.Pins); p++ {
			line := -1
			if p < len(snap.Config.Pins) {
				line = snap.Config.Pins[p]
			}
			tile.Pins = append(tile.Pins, pinTile{
				Topic: fmt.Sprintf("%s/p%d", snap.Config.Device, p+1),
				Line:  line,
				Level: snap.Pins[p],
			})
		}
		d.Tiles = append(d.Tiles, tile)
	}
	return d
}

// humanDuration renders d as "3d 4h 5m 6s", dropping leading zero units.
func humanDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	units := []struct {
		suffix string
		size   int64
	}{{"d", 86400}, {"h", 3600}, {"m", 60}, {"s", 1}}

	var parts []string
	for _, u := range units {
		n := secs / u.size
		secs %= u.size
		if n == 0 && len(parts) == 0 && u.size > 1 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
	}
	return strings.Join(parts, " ")
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"class": func(l logic.Level) string {
		if l.Active() {
			return "motion"
		}
		return "still"
	},
	"label": func(l logic.Level) string {
		if l.Active() {
			return "ACTIVE"
		}
		return "idle"
	},
	"ms": func(v int64) string {
		if v == 0 {
			return "off"
		}
		return humanMillis(v)
	},
}).Parse(pageHTML))

func humanMillis(v int64) string {
	d := time.Duration(v) * time.Millisecond
	if d%time.Second == 0 {
		return d.String()
	}
	return fmt.Sprintf("%dms", v)
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>{{.Config.Device}} motion</title>
<style>
body { font: 14px/1.4 system-ui, sans-serif; margin: 1.5em; color: #222; }
header { display: flex; justify-content: space-between; align-items: baseline; }
.grid { display: flex; flex-wrap: wrap; gap: 1em; }
.tile { border: 2px solid #ccc; border-radius: 6px; padding: .6em 1em; min-width: 12em; }
.tile.motion { border-color: #d60; }
.tile h3 { margin: 0 0 .4em; font-size: 1em; }
.pin { display: flex; justify-content: space-between; font-family: monospace; }
.motion > .state, .pin.motion .state { color: #d60; font-weight: bold; }
.still .state { color: #999; }
dl { display: grid; grid-template-columns: max-content auto; gap: .2em 1.5em; }
dt { color: #666; }
dd { margin: 0; font-family: monospace; }
.up { color: #080; } .down { color: #c00; }
ol { font-family: monospace; padding-left: 1.5em; }
</style>
</head>
<body>
<header>
<h1>{{.Config.Device}}</h1>
<span class="{{if .MQTTConnected}}up{{else}}down{{end}}">mqtt {{if .MQTTConnected}}up{{else}}down{{end}}</span>
</header>

<div class="grid">
{{range .Tiles}}<section class="tile {{class .Level}}">
<h3>{{.Topic}} <span class="state">{{label .Level}}</span></h3>
{{range .Pins}}<div class="pin {{class .Level}}"><span>{{.Topic}} (gpio {{.Line}})</span><span class="state">{{label .Level}} {{.Level}}</span></div>
{{end}}</section>
{{end}}</div>

<h2>Recent</h2>
{{if .Recent}}<ol reversed>
{{range .Recent}}<li>{{.Timestamp.UTC.Format "15:04:05.000"}} {{.Source}} {{.Level}}</li>
{{end}}</ol>{{else}}<p>No transitions since start.</p>{{end}}

<h2>Counters</h2>
<dl>
<dt>pin activations</dt><dd>{{.Counts.PinActive}}</dd>
<dt>pin deactivations</dt><dd>{{.Counts.PinInactive}}</dd>
<dt>group activations</dt><dd>{{.Counts.GroupActive}}</dd>
<dt>group deactivations</dt><dd>{{.Counts.GroupInactive}}</dd>
<dt>indicator</dt><dd>{{.Indicator}}</dd>
</dl>

<h2>Host</h2>
<dl>
<dt>uptime</dt><dd>{{.Uptime}} (since {{.StartTime.UTC.Format "2006-01-02 15:04:05"}} UTC)</dd>
<dt>broker</dt><dd>{{.Config.Broker}}</dd>
{{with .Network}}<dt>network</dt><dd>{{.Status}} {{.Type}}{{if .SSID}} "{{.SSID}}"{{end}} {{.IP}}</dd>
{{end}}<dt>gpio</dt><dd>{{.Config.GPIOBackend}} lines {{.Config.Pins}}, groups of {{.Config.GroupSize}}</dd>
<dt>timing</dt><dd>poll {{ms .Config.PollMs}}, hold {{ms .Config.HoldMs}}, pulse {{ms .Config.PulseMs}}, heartbeat {{ms .Config.HeartbeatMs}}</dd>
</dl>

<p><a href="/index.json">status json</a> &middot; <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderPage(w io.Writer, snap status.Snapshot) {
	if err := pageTmpl.Execute(w, buildPage(snap)); err != nil {
		log.Printf("render status page: %v", err)
	}
}
