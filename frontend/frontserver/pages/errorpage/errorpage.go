package errorpage

import (
	_ "embed"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/diamondburned/postlist/frontend/frontserver/components/footer"
	"github.com/diamondburned/postlist/frontend/frontserver/components/nav"
	"github.com/diamondburned/postlist/frontend/frontserver/render"
	"github.com/diamondburned/postlist/postlist"
)

var (
	//go:embed errorpage.html
	errorpageHTML string
	//go:embed errorpage.css
	errorpageCSS string
)

func init() {
	render.RegisterCSSFile(errorpageCSS)
}

var tmpl = render.BuildPage("errorpage", render.Page{
	Template: errorpageHTML,
	Components: map[string]render.Component{
		"nav":    nav.Component,
		"footer": footer.Component,
	},
})

type renderCtx struct {
	render.CommonCtx
	Query      string
	LiveSearch bool
	Categories []postlist.Category
	Total      int
	Errors     [][]string
}

// FormatError splits the error into lines of wrapped parts, capitalizing
// every part and ending each line with a period.
func FormatError(err error) [][]string {
	var lines = strings.Split(err.Error(), "\n")
	var errors = make([][]string, len(lines))

	for i, line := range lines {
		var parts = strings.SplitAfter(line, ": ")

		// Capitalize every single error's first letter.
		for i, err := range parts {
			f, sze := utf8.DecodeRuneInString(err)
			if sze > 0 {
				f = unicode.ToUpper(f)
				parts[i] = string(f) + err[sze:]
			}

			// Append a period at the end for formality.
			if i == len(parts)-1 && !strings.HasSuffix(parts[i], ".") {
				parts[i] += "."
			}
		}

		errors[i] = parts
	}

	return errors
}

func RenderError(r *render.Request, err error) (render.Render, error) {
	b, renderErr := tmpl.Render(renderCtx{
		CommonCtx: r.CommonCtx,
		Errors:    FormatError(err),
	})
	if renderErr != nil {
		return render.Empty, renderErr
	}

	return render.Render{
		Title: "Error",
		Body:  b,
	}, nil
}
