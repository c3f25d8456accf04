package render

import (
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/diamondburned/postlist/client"
	"github.com/diamondburned/postlist/view"
	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

// Renderer represents a renderable page.
type Renderer = func(r *Request) (Render, error)

// ErrorRenderer represents a renderable page for errors.
type ErrorRenderer = func(r *Request, err error) (Render, error)

type Render struct {
	Title       string // og:title, <title>
	Description string // og:description

	Body template.HTML
	// Fragment, if true, writes Body as-is without the index page around it.
	Fragment bool
}

// Empty is a blank page.
var Empty = Render{}

type Config struct {
	SiteName    string `toml:"siteName"`
	Description string `toml:"description"`
}

func NewConfig() Config {
	return Config{
		SiteName:    "postlist",
		Description: "Latest posts",
	}
}

func (c *Config) Validate() error {
	if c.SiteName == "" {
		return errors.New("missing site name")
	}
	return nil
}

type renderCtx struct {
	Render Render
	Config Config
}

func (r renderCtx) FormatTitle() string {
	if r.Render.Title == "" {
		return r.Config.SiteName
	}
	return fmt.Sprintf("%s - %s", r.Render.Title, r.Config.SiteName)
}

func (r renderCtx) FormatDescription() string {
	if r.Render.Description == "" {
		return r.Config.Description
	}
	return r.Render.Description
}

type Request struct {
	*http.Request
	Writer FlushWriter
	CommonCtx
}

func (r *Request) Param(name string) string {
	return chi.URLParam(r.Request, name)
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// DecodeQuery decodes the URL query into the given struct pointer.
func (r *Request) DecodeQuery(v interface{}) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return httpError{400, errors.Wrap(err, "Failed to decode query")}
	}
	return nil
}

type CommonCtx struct {
	Config  Config
	Request *http.Request
	View    *view.View
}

type Mux struct {
	*chi.Mux
	view *view.View
	cfg  Config
	errR ErrorRenderer
}

func NewMux(v *view.View, cfg Config) *Mux {
	ensureInit()

	r := chi.NewMux()
	r.Route("/static", func(r chi.Router) {
		r.Get("/components.css", componentsCSS.ServeHTTP)
		r.Get("/components.js", componentsJS.ServeHTTP)
	})

	return &Mux{r, v, cfg, nil}
}

func (m *Mux) SetErrorRenderer(r ErrorRenderer) {
	m.errR = r
}

func (m *Mux) NewRequest(w http.ResponseWriter, r *http.Request) *Request {
	return &Request{
		Request: r,
		Writer:  TryFlushWriter(w),
		CommonCtx: CommonCtx{
			Config:  m.cfg,
			Request: r,
			View:    m.view,
		},
	}
}

// M is the middleware wrapper.
func (m *Mux) M(render Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Write the proper headers.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		var request = m.NewRequest(w, r)

		page, err := render(request)
		if err != nil {
			// Copy the status code if available. Else, fallback to 500.
			w.WriteHeader(client.ErrGetStatusCode(err, 500))

			// If there is no error renderer, then we just write the error down
			// in plain text.
			if m.errR == nil {
				fmt.Fprintf(w, "Error: %v", err)
				return
			}

			// Render the error page.
			page, err = m.errR(request, err)
			if err != nil {
				// This shouldn't error out, so we should log it.
				log.Println("Error rendering error page:", err)
				return
			}
		}

		// Don't render anything if an empty page is returned and there is no
		// error.
		if page == Empty {
			return
		}

		if page.Fragment {
			request.Writer.Write([]byte(page.Body))
			request.Writer.Flush()
			return
		}

		var renderCtx = renderCtx{
			Render: page,
			Config: m.cfg,
		}

		if err := index.Execute(w, renderCtx); err != nil {
			log.Println("Error rendering index:", err)
		}
	}
}

func (m *Mux) Get(route string, r Renderer) {
	m.Mux.Get(route, m.M(r))
}

type httpError struct {
	code int
	err  error
}

// NewHTTPError wraps the error with a status code.
func NewHTTPError(code int, err error) error {
	return httpError{code, err}
}

func (e httpError) Error() string {
	return e.err.Error()
}

func (e httpError) Unwrap() error {
	return e.err
}

func (e httpError) StatusCode() int {
	return e.code
}
