package postlist

import (
	"encoding/json"
	"io"
	"log"

	"github.com/pkg/errors"
)

// ErrInvalidIndex is returned when the index is not a JSON array of posts.
var ErrInvalidIndex = errors.New("invalid blog index")

// InvalidEntry describes an index entry that was skipped.
type InvalidEntry struct {
	Index int
	Err   error
}

func (e InvalidEntry) Error() string {
	return errors.Wrapf(e.Err, "entry %d", e.Index).Error()
}

func (e InvalidEntry) Unwrap() error {
	return e.Err
}

// DecodeIndex decodes the blog index from the reader. A null or empty array
// gives an empty collection. Entries that are not objects or fail validation
// are skipped with a logged warning.
func DecodeIndex(r io.Reader) ([]Post, error) {
	posts, skipped, err := DecodeIndexStrict(r)
	if err != nil {
		return nil, err
	}

	for _, entry := range skipped {
		log.Println("Skipping malformed post:", entry)
	}

	return posts, nil
}

// DecodeIndexStrict is like DecodeIndex, but it returns the skipped entries
// instead of logging them.
func DecodeIndexStrict(r io.Reader) ([]Post, []InvalidEntry, error) {
	var raws []json.RawMessage

	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError

		switch {
		case errors.Is(err, io.EOF):
			return nil, nil, errors.Wrap(ErrInvalidIndex, "empty document")
		case errors.Is(err, io.ErrUnexpectedEOF),
			errors.As(err, &syntaxErr),
			errors.As(err, &typeErr):
			return nil, nil, errors.Wrap(ErrInvalidIndex, err.Error())
		default:
			// Errors from the underlying reader are kept as-is.
			return nil, nil, errors.Wrap(err, "Failed to read index")
		}
	}

	var posts = make([]Post, 0, len(raws))
	var skipped []InvalidEntry

	for i, raw := range raws {
		var post Post

		if err := json.Unmarshal(raw, &post); err != nil {
			skipped = append(skipped, InvalidEntry{i, errors.Wrap(err, "failed to decode")})
			continue
		}

		if err := post.Validate(); err != nil {
			skipped = append(skipped, InvalidEntry{i, err})
			continue
		}

		posts = append(posts, post)
	}

	return posts, skipped, nil
}
