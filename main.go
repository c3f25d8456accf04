package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/diamondburned/postlist/client"
	"github.com/diamondburned/postlist/frontend/frontserver"
	"github.com/diamondburned/postlist/postlist"
	"github.com/diamondburned/postlist/view"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
	"golang.org/x/sync/errgroup"

	toml "github.com/pelletier/go-toml"
)

var (
	configGlob = "./config*.toml"
	location   = ""
	query      = ""
)

func stderrlnf(f string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, f+"\n", v...)
}

type Config struct {
	// Listen is either a TCP address or a unix:// socket path.
	Listen     string `toml:"listen"`
	SocketPerm string `toml:"socketPerm"`

	Index client.SourceConfig `toml:"index"`
	frontserver.FrontConfig
}

func NewConfig() Config {
	return Config{
		Listen:      ":8080",
		Index:       client.NewSourceConfig(),
		FrontConfig: frontserver.NewConfig(),
	}
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("missing listen address")
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	return c.FrontConfig.Validate()
}

func init() {
	pflag.StringVarP(
		&configGlob, "config", "c", configGlob,
		"Path to config file with glob support for fallback",
	)

	pflag.StringVarP(
		&location, "index", "i", location,
		"Override the blog index location",
	)

	pflag.StringVarP(
		&query, "query", "q", query,
		"Search term for the render subcommand",
	)

	pflag.Usage = func() {
		stderrlnf("Usage: %s [subcommand] [flags...]", filepath.Base(os.Args[0]))
		stderrlnf("Subcommands:")
		stderrlnf("  serve    Run the HTTP server")
		stderrlnf("  render   Print the post list for --query to stdout")
		stderrlnf("  check    Load the blog index and print a summary")
		stderrlnf("Flags:")
		pflag.PrintDefaults()
	}
}

func loadConfig() Config {
	var cfg = NewConfig()

	// Read all globs.
	d, err := filepath.Glob(configGlob)
	if err != nil {
		log.Fatalln("Failed to glob:", err)
	}

	for _, path := range d {
		f, err := ioutil.ReadFile(path)
		if err != nil {
			log.Fatalln("Failed to read globbed config file:", err)
		}

		t, err := toml.LoadBytes(f)
		if err != nil {
			log.Fatalln("Failed to load TOML:", err)
		}

		if err := t.Unmarshal(&cfg); err != nil {
			log.Fatalln("Failed to unmarshal from TOML:", err)
		}
	}

	if location != "" {
		cfg.Index.Location = location
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalln("Invalid config:", err)
	}

	return cfg
}

func newView(ctx context.Context, cfg client.SourceConfig) *view.View {
	src, err := client.NewSource(ctx, cfg)
	if err != nil {
		log.Fatalln("Failed to create index source:", err)
	}

	return view.New(func(ctx context.Context) ([]postlist.Post, error) {
		return client.FetchIndex(ctx, src, cfg.MaxSize)
	})
}

func main() {
	pflag.Parse()

	var cfg = loadConfig()

	switch pflag.Arg(0) {
	case "render":
		v := newView(context.Background(), cfg.Index)
		v.Load(context.Background())

		var h = v.Initial()
		if query != "" {
			h = v.Filter(query)
		}

		fmt.Println(strings.TrimSpace(string(h)))

		if v.Err() != nil {
			os.Exit(1)
		}

	case "check":
		src, err := client.NewSource(context.Background(), cfg.Index)
		if err != nil {
			log.Fatalln("Failed to create index source:", err)
		}

		if err := check(context.Background(), os.Stdout, src, cfg.Index); err != nil {
			log.Fatalln(err)
		}

	case "serve":
		fallthrough
	default:
		serve(cfg)
	}
}

func check(ctx context.Context, w io.Writer, src client.Source, cfg client.SourceConfig) error {
	r, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	posts, skipped, err := postlist.DecodeIndexStrict(client.LimitReader(r, cfg.MaxSize))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d posts, %d skipped\n", src, len(posts), len(skipped))

	for _, entry := range skipped {
		fmt.Fprintln(w, "  skipped:", entry)
	}

	for _, category := range postlist.Categories(posts) {
		fmt.Fprintf(w, "  %s (%s): %d\n", category.Name, category.URL(), category.Count)
	}

	return nil
}

func listen(cfg Config) net.Listener {
	if !strings.HasPrefix(cfg.Listen, "unix://") {
		l, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			log.Fatalln("Failed to listen:", err)
		}
		return l
	}

	var path = strings.TrimPrefix(cfg.Listen, "unix://")

	// Ensure that the socket is cleaned up because we're not gracefully
	// handling closes.
	if err := os.Remove(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatalln("Failed to clean up old socket:", err)
		}
	}

	l, err := net.Listen("unix", path)
	if err != nil {
		log.Fatalln("Failed to listen to Unix socket:", err)
	}

	if cfg.SocketPerm != "" {
		o, err := strconv.ParseUint(cfg.SocketPerm, 8, 32)
		if err != nil {
			log.Fatalln("Failed to parse socket perm in octet:", err)
		}
		if err := os.Chmod(path, os.FileMode(o)); err != nil {
			log.Fatalln("Failed to chmod socket:", err)
		}
	}

	return l
}

func serve(cfg Config) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	v := newView(ctx, cfg.Index)

	f, err := frontserver.New(v, cfg.FrontConfig)
	if err != nil {
		log.Fatalln("Failed to create frontend:", err)
	}

	c := middleware.NewCompressor(5, "text/html", "text/css", "application/javascript")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})

	mux := chi.NewMux()
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(c.Handler)
	mux.Mount("/", f)

	var server = http.Server{
		Handler: mux,
	}

	// Explicitly set up HTTP/2.
	err = http2.ConfigureServer(&server, &http2.Server{
		MaxHandlers:          4096,
		MaxConcurrentStreams: 1024,
	})

	if err != nil {
		log.Fatalln("Failed to configure HTTP/2 server:", err)
	}

	l := listen(cfg)

	log.Println("Starting HTTP/2 listener at", l.Addr())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The index is loaded in the background. Requests made before it
		// completes see the loading placeholder.
		v.Load(ctx)
		if v.Err() == nil {
			log.Printf("Loaded %d posts from %s", len(v.Posts()), cfg.Index.Location)
		}
		return nil
	})

	g.Go(func() error {
		if err := server.Serve(l); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		// Give the server a 10 seconds timeout for shutting down.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return server.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalln("Server failed:", err)
	}
}
