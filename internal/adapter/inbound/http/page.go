package http_handler

import (
	"html/template"

	"github.com/anthanhphan/gridstore/internal/domain"
)

var pageFuncs = template.FuncMap{
	"isImage": domain.IsDisplayableImage,
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>gridstore</title>
  <style>
    body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
    .file { border-bottom: 1px solid #ddd; padding: .75rem 0; }
    .file img { max-width: 100%; display: block; margin-bottom: .5rem; }
  </style>
</head>
<body>
  <h1>Upload a file</h1>
  <form action="/upload" method="POST" enctype="multipart/form-data">
    <input type="file" name="file" id="file" required>
    <input type="submit" value="Upload">
  </form>
  <hr>
  {{- if . }}
  {{- range . }}
  <div class="file">
    {{- if isImage .ContentType }}
    <img src="/image/{{ .DisplayName }}" alt="{{ .OriginalName }}">
    {{- end }}
    <a href="/download/{{ .DisplayName }}">{{ .DisplayName }}</a>
    <small>{{ .ContentType }}, {{ .Length }} bytes</small>
  </div>
  {{- end }}
  {{- else }}
  <p>No files to show</p>
  {{- end }}
</body>
</html>
`
