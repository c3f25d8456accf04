// Package view implements the post list view: it loads the blog index once,
// keeps it in memory and renders it, or a filtered subset of it, into HTML
// link cards.
package view

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"log"
	"sync"

	"github.com/diamondburned/postlist/postlist"
)

//go:embed postlist.html
var postlistHTML string

var tmpl = template.Must(template.New("postlist").Parse(postlistHTML))

// Placeholder messages.
const (
	NoPostsMessage   = "No posts yet. The automation will add one soon!"
	NoMatchesMessage = "No matching posts found."
	LoadErrorMessage = "Error loading posts."
	LoadingMessage   = "Loading posts..."
)

const (
	placeholderClass = "placeholder"
	errorClass       = "placeholder error"
)

// State is the lifecycle state of a View.
type State uint8

const (
	// Loading is the state before the index has been read.
	Loading State = iota
	// Ready is the terminal state, reached after the load either succeeded or
	// failed.
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "???"
	}
}

// Loader reads the whole post collection.
type Loader = func(ctx context.Context) ([]postlist.Post, error)

// View holds a single snapshot of the post collection. The collection is
// written once by Load and read by any number of concurrent renders.
type View struct {
	load Loader
	once sync.Once

	mu      sync.RWMutex
	state   State
	posts   []postlist.Post
	err     error
	initial template.HTML
}

// New creates a new view in the Loading state.
func New(load Loader) *View {
	return &View{
		load:    load,
		state:   Loading,
		initial: Placeholder(LoadingMessage),
	}
}

// Load reads the collection and returns the initial markup. Only the first
// call loads; concurrent calls wait for it, and later calls return what it
// rendered. A failed load is not retried.
func (v *View) Load(ctx context.Context) template.HTML {
	v.once.Do(func() { v.doLoad(ctx) })
	return v.Initial()
}

func (v *View) doLoad(ctx context.Context) {
	posts, err := v.load(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.state = Ready

	switch {
	case err != nil:
		log.Println("Error fetching blog index:", err)
		v.err = err
		v.initial = ErrorPlaceholder(LoadErrorMessage)
	case len(posts) == 0:
		v.initial = Placeholder(NoPostsMessage)
	default:
		v.posts = posts
		v.initial = Render(posts)
	}
}

// Initial returns the markup for when no search term is given.
func (v *View) Initial() template.HTML {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.initial
}

// State returns the current lifecycle state.
func (v *View) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.state
}

// Err returns the load error, if any.
func (v *View) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.err
}

// Posts returns a copy of the loaded collection.
func (v *View) Posts() []postlist.Post {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return append([]postlist.Post(nil), v.posts...)
}

// collection returns the stored collection and whether the load failed. The
// returned slice must not be modified.
func (v *View) collection() ([]postlist.Post, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.posts, v.err != nil
}

// Filter renders the posts whose title or summary contains the term,
// case-insensitively. Before the load completes, this filters an empty
// collection. After a failed load, the error placeholder is kept.
func (v *View) Filter(term string) template.HTML {
	posts, failed := v.collection()
	if failed {
		return ErrorPlaceholder(LoadErrorMessage)
	}

	return Render(postlist.Filter(posts, term))
}

// FilterCategory renders the posts in the category with the given slug. It
// returns false if no post has that category.
func (v *View) FilterCategory(slug string) (template.HTML, bool) {
	posts, failed := v.collection()
	if failed {
		return ErrorPlaceholder(LoadErrorMessage), false
	}

	posts = postlist.FilterCategory(posts, slug)
	if len(posts) == 0 {
		return Placeholder(NoMatchesMessage), false
	}

	return Render(posts), true
}

// Render renders one link card per post, in order. An empty list renders the
// no matches placeholder instead.
func Render(posts []postlist.Post) template.HTML {
	if len(posts) == 0 {
		return Placeholder(NoMatchesMessage)
	}

	return execute("posts", struct{ Posts []postlist.Post }{posts})
}

// Placeholder renders a single informational message in place of the list.
func Placeholder(msg string) template.HTML {
	return placeholder(placeholderClass, msg)
}

// ErrorPlaceholder renders a single error message in place of the list.
func ErrorPlaceholder(msg string) template.HTML {
	return placeholder(errorClass, msg)
}

func placeholder(class, msg string) template.HTML {
	return execute("placeholder", struct{ Class, Message string }{class, msg})
}

func execute(name string, v interface{}) template.HTML {
	var b bytes.Buffer

	if err := tmpl.ExecuteTemplate(&b, name, v); err != nil {
		log.Println("Template error:", err)
		return template.HTML(`<p class="placeholder error">` +
			template.HTMLEscapeString(LoadErrorMessage) + `</p>`)
	}

	return template.HTML(b.String())
}
