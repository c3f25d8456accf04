package home

import (
	_ "embed"
	"html/template"

	"github.com/diamondburned/postlist/frontend/frontserver/render"
	"github.com/diamondburned/postlist/postlist"

	// Components
	"github.com/diamondburned/postlist/frontend/frontserver/components/footer"
	"github.com/diamondburned/postlist/frontend/frontserver/components/nav"
)

var (
	//go:embed home.html
	homeHTML string
	//go:embed home.css
	homeCSS string
)

func init() {
	render.RegisterCSSFile(homeCSS)
}

var tmpl = render.BuildPage("home", render.Page{
	Template: homeHTML,
	Components: map[string]render.Component{
		"nav":    nav.Component,
		"footer": footer.Component,
	},
})

// Query is the query of both the home page and the list fragment.
type Query struct {
	Q string `schema:"q"`
}

type renderCtx struct {
	render.CommonCtx
	Query      string
	LiveSearch bool
	Categories []postlist.Category
	Total      int
	List       template.HTML
}

// List renders the contents of the post list container for the given search
// term. An empty term gives the view's initial markup.
func List(r *render.Request, term string) template.HTML {
	if term == "" {
		return r.View.Initial()
	}
	return r.View.Filter(term)
}

func Render(r *render.Request) (render.Render, error) {
	var q Query
	if err := r.DecodeQuery(&q); err != nil {
		return render.Empty, err
	}

	var posts = r.View.Posts()

	b, err := tmpl.Render(renderCtx{
		CommonCtx:  r.CommonCtx,
		Query:      q.Q,
		LiveSearch: true,
		Categories: postlist.Categories(posts),
		Total:      len(posts),
		List:       List(r, q.Q),
	})
	if err != nil {
		return render.Empty, err
	}

	var title string
	if q.Q != "" {
		title = "Search: " + q.Q
	}

	return render.Render{
		Title: title,
		Body:  b,
	}, nil
}
