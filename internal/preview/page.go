package preview

import "html/template"

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} · preview</title>
<style>
body { background: #05070a; color: #c8d3de; font-family: ui-monospace, monospace; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
h1, h2, h3 { color: #6ee7b7; }
pre { background: #0f141b; padding: 1rem; overflow-x: auto; }
code { color: #fbbf24; }
.error { border: 1px solid #f87171; color: #f87171; padding: .5rem 1rem; }
</style>
</head>
<body>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
<article>
{{.Body}}
</article>
<script>
(function () {
  var current = "{{.Version}}";
  setInterval(function () {
    fetch("/version", {cache: "no-store"}).then(function (r) { return r.text(); }).then(function (v) {
      if (v !== current) { location.reload(); }
    }).catch(function () {});
  }, 1000);
})();
</script>
</body>
</html>
`))
