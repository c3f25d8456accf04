package category

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/diamondburned/postlist/frontend/frontserver/components/footer"
	"github.com/diamondburned/postlist/frontend/frontserver/components/nav"
	"github.com/diamondburned/postlist/frontend/frontserver/render"
	"github.com/diamondburned/postlist/postlist"
	"github.com/pkg/errors"
)

//go:embed category.html
var categoryHTML string

var tmpl = render.BuildPage("category", render.Page{
	Template: categoryHTML,
	Components: map[string]render.Component{
		"nav":    nav.Component,
		"footer": footer.Component,
	},
})

// ErrUnknownCategory is returned when no post has the requested category.
var ErrUnknownCategory = render.NewHTTPError(
	http.StatusNotFound, errors.New("unknown category"),
)

type renderCtx struct {
	render.CommonCtx
	Query      string
	LiveSearch bool
	Category   postlist.Category
	Categories []postlist.Category
	Total      int
	List       template.HTML
}

func Render(r *render.Request) (render.Render, error) {
	var slug = r.Param("slug")
	var posts = r.View.Posts()
	var categories = postlist.Categories(posts)

	var category postlist.Category
	for _, c := range categories {
		if c.Slug == slug {
			category = c
			break
		}
	}

	list, ok := r.View.FilterCategory(slug)
	if !ok {
		return render.Empty, errors.Wrapf(ErrUnknownCategory, "category %q", slug)
	}

	b, err := tmpl.Render(renderCtx{
		CommonCtx:  r.CommonCtx,
		Category:   category,
		Categories: categories,
		Total:      len(posts),
		List:       list,
	})
	if err != nil {
		return render.Empty, err
	}

	return render.Render{
		Title:       category.Name,
		Description: "Posts in " + category.Name,
		Body:        b,
	}, nil
}
