package view

import (
	"context"
	"html/template"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/diamondburned/postlist/postlist"
	"github.com/go-test/deep"
	"github.com/pkg/errors"
)

var testPosts = []postlist.Post{
	{URL: "/a", Title: "Go Concurrency", Summary: "goroutines", Category: "Go"},
	{URL: "/b", Title: "Rust Basics", Summary: "ownership"},
	{URL: "/c", Title: "Model Serving", Summary: "latency & <throughput>", Category: "Machine Learning"},
}

func staticLoader(posts []postlist.Post, err error) Loader {
	return func(context.Context) ([]postlist.Post, error) {
		return posts, err
	}
}

func parse(t *testing.T, h template.HTML) *goquery.Document {
	t.Helper()

	d, err := goquery.NewDocumentFromReader(strings.NewReader(string(h)))
	if err != nil {
		t.Fatal("Failed to parse HTML:", err)
	}

	return d
}

type card struct {
	URL      string
	Category string
	Title    string
	Summary  string
}

func cards(t *testing.T, h template.HTML) []card {
	t.Helper()

	var cards []card

	parse(t, h).Find("a.post-link").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		cards = append(cards, card{
			URL:      href,
			Category: s.Find(".category-tag").Text(),
			Title:    s.Find("h2").Text(),
			Summary:  s.Find("p").Text(),
		})
	})

	return cards
}

func placeholderText(t *testing.T, h template.HTML) string {
	t.Helper()
	return strings.TrimSpace(parse(t, h).Find("p.placeholder").Text())
}

func TestRender(t *testing.T) {
	h := Render(testPosts)

	var expect = []card{
		{"/a", "Go", "Go Concurrency", "goroutines"},
		{"/b", "", "Rust Basics", "ownership"},
		{"/c", "Machine Learning", "Model Serving", "latency & <throughput>"},
	}

	if eq := deep.Equal(cards(t, h), expect); eq != nil {
		t.Fatal("Unexpected cards:", eq)
	}

	d := parse(t, h)

	if n := d.Find(".category-tag").Length(); n != 2 {
		t.Fatal("Unexpected number of category tags:", n)
	}

	if n := d.Find("a.post-link").Eq(1).Find(".category-tag").Length(); n != 0 {
		t.Fatal("Uncategorized post has a category tag")
	}

	if slug, _ := d.Find(".category-tag").Eq(1).Attr("data-category"); slug != "machine-learning" {
		t.Fatalf("Unexpected category slug: %q", slug)
	}

	if d.Find("p.placeholder").Length() != 0 {
		t.Fatal("Unexpected placeholder in a non-empty render")
	}
}

func TestRenderEmpty(t *testing.T) {
	for _, posts := range [][]postlist.Post{nil, {}} {
		h := Render(posts)

		if msg := placeholderText(t, h); msg != NoMatchesMessage {
			t.Fatalf("Unexpected placeholder: %q", msg)
		}

		if n := parse(t, h).Find("a.post-link").Length(); n != 0 {
			t.Fatal("Unexpected link cards:", n)
		}
	}
}

func TestViewLoad(t *testing.T) {
	v := New(staticLoader(testPosts, nil))

	if v.State() != Loading {
		t.Fatal("New view is not loading")
	}

	if msg := placeholderText(t, v.Initial()); msg != LoadingMessage {
		t.Fatalf("Unexpected placeholder while loading: %q", msg)
	}

	h := v.Load(context.Background())

	if v.State() != Ready {
		t.Fatal("View is not ready after load")
	}

	if n := len(cards(t, h)); n != len(testPosts) {
		t.Fatal("Unexpected number of cards:", n)
	}

	if h != v.Initial() {
		t.Fatal("Initial does not match the loaded markup")
	}

	if eq := deep.Equal(v.Posts(), testPosts); eq != nil {
		t.Fatal("Unexpected posts:", eq)
	}
}

func TestViewLoadEmpty(t *testing.T) {
	v := New(staticLoader(nil, nil))
	h := v.Load(context.Background())

	if msg := placeholderText(t, h); msg != NoPostsMessage {
		t.Fatalf("Unexpected placeholder: %q", msg)
	}

	if v.Err() != nil {
		t.Fatal("Unexpected error:", v.Err())
	}
}

func TestViewLoadFailure(t *testing.T) {
	v := New(staticLoader(nil, errors.New("connection refused")))
	h := v.Load(context.Background())

	d := parse(t, h)

	if msg := strings.TrimSpace(d.Find("p.placeholder.error").Text()); msg != LoadErrorMessage {
		t.Fatalf("Unexpected placeholder: %q", msg)
	}

	if n := d.Find("a.post-link").Length(); n != 0 {
		t.Fatal("Unexpected link cards:", n)
	}

	if v.State() != Ready {
		t.Fatal("Failed view is not ready")
	}

	if v.Err() == nil {
		t.Fatal("Missing load error")
	}

	// Filtering does not hide the failure.
	if msg := strings.TrimSpace(parse(t, v.Filter("")).Find("p.error").Text()); msg != LoadErrorMessage {
		t.Fatalf("Unexpected placeholder after filter: %q", msg)
	}
}

func TestViewLoadOnce(t *testing.T) {
	var calls int
	var mu sync.Mutex

	v := New(func(context.Context) ([]postlist.Post, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil, errors.New("timeout")
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			v.Load(context.Background())
			wg.Done()
		}()
	}
	wg.Wait()

	v.Load(context.Background())

	if calls != 1 {
		t.Fatal("Unexpected number of loads:", calls)
	}
}

func TestViewFilter(t *testing.T) {
	v := New(staticLoader(testPosts[:2], nil))

	t.Run("BeforeLoad", func(t *testing.T) {
		if msg := placeholderText(t, v.Filter("go")); msg != NoMatchesMessage {
			t.Fatalf("Unexpected placeholder: %q", msg)
		}
	})

	v.Load(context.Background())

	t.Run("TitleMatch", func(t *testing.T) {
		var expect = []card{{"/a", "Go", "Go Concurrency", "goroutines"}}

		if eq := deep.Equal(cards(t, v.Filter("go")), expect); eq != nil {
			t.Fatal("Unexpected cards:", eq)
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		if v.Filter("HELLO") != v.Filter("hello") {
			t.Fatal("Case changed the result")
		}
		if v.Filter("OWNER") != v.Filter("owner") {
			t.Fatal("Case changed the result")
		}
	})

	t.Run("NoMatchThenRestore", func(t *testing.T) {
		if msg := placeholderText(t, v.Filter("haskell")); msg != NoMatchesMessage {
			t.Fatalf("Unexpected placeholder: %q", msg)
		}

		v.Filter("rust")

		if n := len(cards(t, v.Filter(""))); n != 2 {
			t.Fatal("Empty term did not restore the collection:", n)
		}

		if eq := deep.Equal(v.Posts(), testPosts[:2]); eq != nil {
			t.Fatal("Collection was mutated:", eq)
		}
	})
}

func TestViewFilterCategory(t *testing.T) {
	v := New(staticLoader(testPosts, nil))
	v.Load(context.Background())

	h, ok := v.FilterCategory("machine-learning")
	if !ok {
		t.Fatal("Category not found")
	}

	if c := cards(t, h); len(c) != 1 || c[0].URL != "/c" {
		t.Fatal("Unexpected cards:", c)
	}

	if _, ok := v.FilterCategory("cooking"); ok {
		t.Fatal("Unknown category found")
	}
}
