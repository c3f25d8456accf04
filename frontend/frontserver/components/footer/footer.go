package footer

import (
	_ "embed"

	"github.com/diamondburned/postlist/frontend/frontserver/render"
)

var (
	//go:embed footer.html
	footerHTML string
	//go:embed footer.css
	footerCSS string
)

func init() {
	render.RegisterCSSFile(footerCSS)
}

var Component = render.Component{
	Template: footerHTML,
}
