package main

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/diamondburned/postlist/client"
)

func TestCheck(t *testing.T) {
	dir, err := ioutil.TempDir("", "postlist-check")
	if err != nil {
		t.Fatal("Failed to make tempdir:", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "blog-index.json")

	const index = `[
		{"url": "/a", "title": "Go Concurrency", "summary": "goroutines", "category": "Go"},
		{"url": "/b", "summary": "no title"},
		{"url": "/c", "title": "Model Serving", "summary": "latency", "category": "Machine Learning"}
	]`

	if err := ioutil.WriteFile(path, []byte(index), 0644); err != nil {
		t.Fatal("Failed to write index:", err)
	}

	var cfg = client.NewSourceConfig()
	cfg.Location = path

	var out bytes.Buffer

	if err := check(context.Background(), &out, client.FileSource(path), cfg); err != nil {
		t.Fatal("Check failed:", err)
	}

	const expect = "file://%s: 2 posts, 1 skipped\n" +
		"  skipped: entry 1: missing title\n" +
		"  Go (category-go.html): 1\n" +
		"  Machine Learning (category-machine-learning.html): 1\n"

	if got := out.String(); got != fmt.Sprintf(expect, path) {
		t.Fatalf("Unexpected check output:\n%s", got)
	}
}

func TestConfigValidate(t *testing.T) {
	var cfg = NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal("Default config is invalid:", err)
	}

	cfg.Listen = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("Empty listen address passed validation")
	}

	cfg = NewConfig()
	cfg.Index.Location = "ftp://example.com/blog-index.json"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Unsupported index location passed validation")
	}
}
