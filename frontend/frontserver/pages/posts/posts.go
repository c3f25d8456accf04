// Package posts serves the post list container's contents as a bare HTML
// fragment for the search box to swap in.
package posts

import (
	"github.com/diamondburned/postlist/frontend/frontserver/pages/home"
	"github.com/diamondburned/postlist/frontend/frontserver/render"
)

func Render(r *render.Request) (render.Render, error) {
	var q home.Query
	if err := r.DecodeQuery(&q); err != nil {
		return render.Empty, err
	}

	return render.Render{
		Body:     home.List(r, q.Q),
		Fragment: true,
	}, nil
}
