package dashboard

import (
	"bytes"
	_ "embed"
	"html"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

const titlePlaceholder = "{{TITLE}}"

func renderIndex(title string) []byte {
	return bytes.ReplaceAll(indexHTML, []byte(titlePlaceholder), []byte(html.EscapeString(title)))
}

// ServeIndex serves the embedded HTML dashboard.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(d.index)
}
