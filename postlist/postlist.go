package postlist

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

var (
	ErrMissingURL   = errors.New("missing url")
	ErrMissingTitle = errors.New("missing title")
)

// ErrResponse is the JSON error envelope that index hosts may reply with.
type ErrResponse struct {
	Error string `json:"error"`
}

// Post is a single entry of the blog index. Posts are read-only once loaded.
type Post struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Category string `json:"category,omitempty"`
}

// Validate returns an error if the post lacks the fields needed to render a
// link card.
func (p Post) Validate() error {
	if strings.TrimSpace(p.URL) == "" {
		return ErrMissingURL
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrMissingTitle
	}
	return nil
}

// HasCategory returns true if the post should show a category tag.
func (p Post) HasCategory() bool {
	return strings.TrimSpace(p.Category) != ""
}

// CategorySlug returns the slug of the post's category.
func (p Post) CategorySlug() string {
	return CategorySlug(p.Category)
}

// CategoryURL returns the relative URL to the post's category page.
func (p Post) CategoryURL() string {
	return CategoryURL(p.Category)
}

// CategorySlug lower-cases the category and joins its words with hyphens, so
// "Machine Learning" becomes "machine-learning".
func CategorySlug(category string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(category), unicode.IsSpace), "-")
}

// CategoryURL returns the relative page URL for the given category.
func CategoryURL(category string) string {
	return "category-" + CategorySlug(category) + ".html"
}

// Filter returns the posts whose title or summary contains the term,
// case-insensitively. An empty term matches everything. The returned slice is
// always freshly allocated, so the given posts are never touched.
func Filter(posts []Post, term string) []Post {
	term = strings.ToLower(term)

	var filtered = make([]Post, 0, len(posts))

	for _, post := range posts {
		if term == "" || post.Matches(term) {
			filtered = append(filtered, post)
		}
	}

	return filtered
}

// Matches returns true if the lower-cased term is in the title or summary. The
// term must already be lower-cased.
func (p Post) Matches(term string) bool {
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Summary), term)
}

// FilterCategory returns the posts whose category slug equals the given slug.
func FilterCategory(posts []Post, slug string) []Post {
	var filtered = make([]Post, 0, len(posts))

	for _, post := range posts {
		if post.HasCategory() && post.CategorySlug() == slug {
			filtered = append(filtered, post)
		}
	}

	return filtered
}

// Category is a distinct category within a collection.
type Category struct {
	Name  string
	Slug  string
	Count int
}

// URL returns the category's page URL.
func (c Category) URL() string {
	return "category-" + c.Slug + ".html"
}

// Categories returns the distinct categories in first-seen order. Categories
// that produce the same slug are merged under the first name seen.
func Categories(posts []Post) []Category {
	var categories []Category
	var index = map[string]int{}

	for _, post := range posts {
		if !post.HasCategory() {
			continue
		}

		slug := post.CategorySlug()

		if i, ok := index[slug]; ok {
			categories[i].Count++
			continue
		}

		index[slug] = len(categories)
		categories = append(categories, Category{
			Name:  strings.TrimSpace(post.Category),
			Slug:  slug,
			Count: 1,
		})
	}

	return categories
}
