package client

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/diamondburned/postlist/postlist"
	"github.com/pkg/errors"
)

// ErrUnsupportedScheme is returned when the index location has a scheme that
// no source can read.
var ErrUnsupportedScheme = errors.New("unsupported index location scheme")

// SourceConfig is the config for where the blog index is read from.
type SourceConfig struct {
	// Location is either an http(s) URL, an s3://bucket/key URL or a file
	// path, optionally prefixed with file://.
	Location string            `toml:"location"`
	MaxSize  datasize.ByteSize `toml:"maxSize"`
	Timeout  string            `toml:"timeout"`
	S3       S3Config          `toml:"s3"`
}

func NewSourceConfig() SourceConfig {
	return SourceConfig{
		Location: "blog-index.json",
		MaxSize:  16 * datasize.MB,
		Timeout:  "10s",
	}
}

func (c *SourceConfig) Validate() error {
	if c.Location == "" {
		return errors.New("missing index location")
	}

	if _, err := time.ParseDuration(c.Timeout); c.Timeout != "" && err != nil {
		return errors.Wrap(err, "Failed to parse index timeout")
	}

	if _, err := parseLocation(c.Location); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration returns the parsed timeout, or 0 if there is none.
func (c SourceConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Source is a readable location of the blog index.
type Source interface {
	// Open opens the index document. The caller must close the returned
	// reader.
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// NewSource creates a source from the config's location.
func NewSource(ctx context.Context, cfg SourceConfig) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	u, _ := parseLocation(cfg.Location)

	switch u.Scheme {
	case "http", "https":
		return NewHTTPSource(NewClient(cfg.TimeoutDuration()), u.String()), nil
	case "s3":
		return NewS3Source(ctx, cfg.S3, u.Host, strings.TrimPrefix(u.Path, "/"))
	default:
		return FileSource(u.Path), nil
	}
}

func parseLocation(location string) (*url.URL, error) {
	// Bare paths are files. This also covers Windows-style drive letters that
	// url.Parse would mistake for a scheme.
	if !strings.Contains(location, "://") {
		return &url.URL{Scheme: "file", Path: location}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse index location")
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return nil, errors.Errorf("missing host in %q", location)
		}
	case "s3":
		if u.Host == "" || strings.Trim(u.Path, "/") == "" {
			return nil, errors.Errorf("s3 location %q needs a bucket and a key", location)
		}
	case "file":
		// file://relative/path has the first segment parsed as the host.
		u.Path = u.Host + u.Path
		u.Host = ""
	default:
		return nil, errors.Wrapf(ErrUnsupportedScheme, "scheme %q", u.Scheme)
	}

	return u, nil
}

// HTTPSource reads the index from an HTTP URL.
type HTTPSource struct {
	Client *Client
	URL    string
}

func NewHTTPSource(c *Client, url string) *HTTPSource {
	return &HTTPSource{Client: c, URL: url}
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.Client.Open(ctx, s.URL)
}

func (s *HTTPSource) String() string {
	return s.URL
}

// FileSource reads the index from a local file.
type FileSource string

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(string(s))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s FileSource) String() string {
	return "file://" + string(s)
}

// FetchIndex reads and decodes the whole index from the source. Documents
// larger than max are rejected; a zero max disables the limit.
func FetchIndex(ctx context.Context, src Source, max datasize.ByteSize) ([]postlist.Post, error) {
	r, err := src.Open(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %s", src)
	}
	defer r.Close()

	p, err := postlist.DecodeIndex(LimitReader(r, max))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %s", src)
	}

	return p, nil
}

// LimitReader wraps the reader in a LimitedReader if max is non-zero.
func LimitReader(r io.Reader, max datasize.ByteSize) io.Reader {
	if max == 0 {
		return r
	}
	return NewLimitedReader(r, int64(max.Bytes()))
}
