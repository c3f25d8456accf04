package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tdewolff/minify"
	"github.com/tdewolff/minify/css"
	"github.com/tdewolff/minify/js"
)

// runtime minifier
var minifier = func() (minifier *minify.M) {
	minifier = minify.New()
	minifier.AddFunc("text/css", css.Minify)
	minifier.AddFunc("application/javascript", js.Minify)
	return
}()

var globalFns = template.FuncMap{
	"humanizeNumber": func(number int) string {
		return humanize.Comma(int64(number))
	},
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
}

type Component struct {
	Template   string
	Components map[string]Component
	Functions  template.FuncMap
}

type Page struct {
	Template   string
	Components map[string]Component
	Functions  template.FuncMap
}

// prepareList is the list of templates to call prepare on.
var prepareList []*Template

func prepareAllTemplates() {
	for _, tmpl := range prepareList {
		tmpl.prepare()
	}
}

// BuildPage registers a page template. The template source and its
// components are parsed lazily on first render or when the Mux is created.
func BuildPage(n string, p Page) *Template {
	tmpl := &Template{
		name: n,
		page: p,
	}

	prepareList = append(prepareList, tmpl)

	return tmpl
}

type Template struct {
	*template.Template
	name string
	page Page
	once sync.Once
}

func (t *Template) prepare() {
	t.once.Do(t.do)
}

func (t *Template) do() {
	if t.page.Components == nil {
		t.page.Components = map[string]Component{}
	}

	// Combine all component duplicates.
	for _, component := range t.page.Components {
		if component.Components != nil {
			for n, component := range component.Components {
				t.page.Components[n] = component
			}
		}
	}

	// Combine all function duplicates.
	for _, component := range t.page.Components {
		if component.Functions != nil {
			// Ensure that we have a parent functions map.
			if t.page.Functions == nil {
				t.page.Functions = template.FuncMap{}
			}

			for n, fn := range component.Functions {
				// Only set into the map if we don't already have the function.
				if _, ok := t.page.Functions[n]; !ok {
					t.page.Functions[n] = fn
				}
			}
		}
	}

	tmpl := template.New(t.name)
	tmpl = tmpl.Funcs(globalFns)
	tmpl = tmpl.Funcs(t.page.Functions)
	tmpl = template.Must(tmpl.Parse(t.page.Template))

	// Parse all components' HTMLs.
	for n, component := range t.page.Components {
		tmpl = template.Must(tmpl.Parse(
			fmt.Sprintf("{{ define %q }}%s{{ end }}", n, component.Template),
		))
	}

	t.Template = tmpl
}

// Render renders the template with the given argument into HTML.
func (t *Template) Render(v interface{}) (template.HTML, error) {
	t.prepare()

	var b bytes.Buffer

	if err := t.Execute(&b, v); err != nil {
		log.Println("Template error:", err)
		return "", err
	}

	return template.HTML(b.String()), nil
}

// asset is a static file that is minified once and served from memory.
type asset struct {
	ctype   string
	sources []string
	content bytes.Buffer
	modTime time.Time
}

func (a *asset) build() {
	a.content.Reset()

	for _, src := range a.sources {
		if err := minifier.Minify(a.ctype, &a.content, strings.NewReader(src)); err != nil {
			log.Panicln("Failed to minify "+a.ctype+":", err)
		}
	}

	a.modTime = time.Now()
}

func (a *asset) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", a.ctype+"; charset=utf-8")
	http.ServeContent(w, r, "", a.modTime, bytes.NewReader(a.content.Bytes()))
}

//go:embed style.css
var styleCSS string

var (
	componentsCSS = &asset{ctype: "text/css", sources: []string{styleCSS}}
	componentsJS  = &asset{ctype: "application/javascript"}
)

// RegisterCSSFile adds the CSS source to the global CSS file, which can be
// located in /static/components.css
func RegisterCSSFile(src string) {
	componentsCSS.sources = append(componentsCSS.sources, src)
}

// RegisterJSFile adds the JavaScript source to the global script, which can
// be located in /static/components.js
func RegisterJSFile(src string) {
	componentsJS.sources = append(componentsJS.sources, src)
}

//go:embed index.html
var indexHTML string

var initOnce sync.Once
var index *template.Template

func ensureInit() {
	initOnce.Do(func() {
		index = template.Must(template.New("index").Funcs(globalFns).Parse(indexHTML))

		componentsCSS.build()
		componentsJS.build()
		prepareAllTemplates()
	})
}
