package nav

import (
	_ "embed"

	"github.com/diamondburned/postlist/frontend/frontserver/components/search"
	"github.com/diamondburned/postlist/frontend/frontserver/render"
)

var (
	//go:embed nav.html
	navHTML string
	//go:embed nav.css
	navCSS string
)

func init() {
	render.RegisterCSSFile(navCSS)
}

// Component renders the site header with the search box and the category
// links. Its context must have Config, Query and Categories fields.
var Component = render.Component{
	Template: navHTML,
	Components: map[string]render.Component{
		"search": search.Component,
	},
}
