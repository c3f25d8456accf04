package search

import (
	_ "embed"

	"github.com/diamondburned/postlist/frontend/frontserver/render"
)

var (
	//go:embed search.html
	searchHTML string
	//go:embed search.css
	searchCSS string
	//go:embed search.js
	searchJS string
)

func init() {
	render.RegisterCSSFile(searchCSS)
	render.RegisterJSFile(searchJS)
}

// Component renders the search box. Its context must have a Query field.
var Component = render.Component{
	Template: searchHTML,
}
