package frontserver

import (
	"net/http"

	"github.com/diamondburned/postlist/frontend/frontserver/internal/limit"
	"github.com/diamondburned/postlist/frontend/frontserver/pages/category"
	"github.com/diamondburned/postlist/frontend/frontserver/pages/errorpage"
	"github.com/diamondburned/postlist/frontend/frontserver/pages/home"
	"github.com/diamondburned/postlist/frontend/frontserver/pages/posts"
	"github.com/diamondburned/postlist/frontend/frontserver/render"
	"github.com/diamondburned/postlist/view"
	"github.com/pkg/errors"
)

// DefaultSearchRate is the default per-client search rate. It also bounds the
// burst, which covers a held-down backspace over a long query.
const DefaultSearchRate = 100

type FrontConfig struct {
	render.Config
	// SearchRate is the maximum number of search requests per second per
	// client. Searches are sent on every keystroke, so this has to stay well
	// above typing speed. Zero disables rate limiting.
	SearchRate float64 `toml:"searchRate"`
}

func NewConfig() FrontConfig {
	return FrontConfig{
		Config:     render.NewConfig(),
		SearchRate: DefaultSearchRate,
	}
}

func (c *FrontConfig) Validate() error {
	if c.SearchRate < 0 {
		return errors.New("searchRate must not be negative")
	}
	return c.Config.Validate()
}

func New(v *view.View, cfg FrontConfig) (http.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := render.NewMux(v, cfg.Config)
	r.SetErrorRenderer(errorpage.RenderError)
	r.Get("/", home.Render)
	r.Get("/category-{slug}.html", category.Render)
	r.Mux.With(limit.RateLimit(cfg.SearchRate)).Get("/posts", r.M(posts.Render))

	return r, nil
}
