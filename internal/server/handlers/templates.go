package handlers

import (
	"html/template"
	"strings"
)

var pageFuncs = template.FuncMap{
	"stars": func(level int) string {
		return strings.Repeat("★", level) + strings.Repeat("☆", 5-level)
	},
	"join": strings.Join,
}

var (
	indexPage     = page(indexHTML)
	challengePage = page(challengeHTML)
	errorPage     = page(errorHTML)
)

// page parses body over a fresh copy of the layout so each page can redefine its blocks.
func page(body string) *template.Template {
	layout := template.Must(template.New("layout").Funcs(pageFuncs).Parse(layoutHTML))
	return template.Must(layout.Parse(body))
}

const layoutHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{block "title" .}}PROJECT SOL{{end}}</title>
<style>
body { background: #09090b; color: #f4f4f5; font-family: ui-monospace, monospace; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
a { color: #10b981; }
.card { border: 1px solid #27272a; background: #18181b; padding: 1rem; margin: 1rem 0; border-radius: .5rem; }
.muted { color: #a1a1aa; }
.ok { color: #10b981; }
.bad { color: #f43f5e; }
pre { background: #000; padding: .75rem; overflow-x: auto; }
code { color: #34d399; }
button { background: #10b981; color: #09090b; border: 0; padding: .4rem .9rem; cursor: pointer; }
</style>
</head>
<body>
<header><h1><a href="/">PROJECT <span class="ok">SOL</span></a></h1><p class="muted">Secure Operations Laboratory</p></header>
{{block "content" .}}{{end}}
</body>
</html>`

const indexHTML = `{{define "content"}}
<h2>MISSIONS</h2>
{{range .Challenges}}
<div class="card">
  <h3><a href="/challenges/{{.ID}}">{{.Title}}</a></h3>
  <p class="muted">{{stars .Difficulty.Level}} · {{.Points}} pts{{if .Category}} · {{.Category}}{{end}}</p>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  {{with .AllTags}}<p class="muted">#{{join . " #"}}</p>{{end}}
</div>
{{else}}
<p class="muted">No missions available.</p>
{{end}}
{{end}}`

const challengeHTML = `{{define "title"}}{{.Challenge.Title}} · PROJECT SOL{{end}}
{{define "content"}}
<h2>{{.Challenge.Title}}</h2>
<p class="muted">{{stars .Challenge.Difficulty.Level}} · {{.Challenge.Points}} pts</p>
{{if .Challenge.Description}}<p>{{.Challenge.Description}}</p>{{end}}

<div class="card">
{{if .Mission}}
  <p class="ok">{{.Mission.Status}}: <a href="{{.Mission.URL}}">{{.Mission.URL}}</a></p>
  <p class="muted">container {{.Mission.ContainerID}}</p>
  <form method="post" action="/missions/{{.Mission.ContainerID}}/stop"><button type="submit">ABORT MISSION</button></form>
{{else}}
  <form method="post" action="/challenges/{{.Challenge.ID}}/launch"><button type="submit">INITIATE MISSION</button></form>
{{end}}
</div>

<div class="card">
  <form method="post" action="/challenges/{{.Challenge.ID}}/submit">
    <input name="flag" placeholder="FLAG{...}" autocomplete="off">
    <button type="submit">SUBMIT</button>
  </form>
  {{with .Result}}<p class="{{if .Correct}}ok{{else}}bad{{end}}">{{.Message}}</p>{{end}}
</div>

{{if .Writeup}}
<details class="card">
  <summary>WRITEUP</summary>
  {{.Writeup}}
</details>
{{end}}
{{end}}`

const errorHTML = `{{define "title"}}ERROR · PROJECT SOL{{end}}
{{define "content"}}
<div class="card"><p class="bad">{{.Message}}</p><p class="muted">{{.Status}}</p></div>
<p><a href="/">Back to missions</a></p>
{{end}}`
