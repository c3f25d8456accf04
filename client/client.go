package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/diamondburned/postlist/postlist"
	"github.com/pkg/errors"
)

// DefaultTimeout is the default timeout of an index fetch.
const DefaultTimeout = 10 * time.Second

// UserAgent is the default user agent sent to index hosts.
const UserAgent = "postlist (+https://github.com/diamondburned/postlist)"

// StatusCoder is an interface that ErrUnexpectedStatusCode implements.
type StatusCoder interface {
	StatusCode() int
}

// ErrGetStatusCode gets the status code from error, or returns orCode if it
// can't get any.
func ErrGetStatusCode(err error, orCode int) int {
	var scode StatusCoder
	if errors.As(err, &scode) {
		return scode.StatusCode()
	}
	return orCode
}

type ErrUnexpectedStatusCode struct {
	Code   int
	Body   string
	ErrMsg string
}

func (err ErrUnexpectedStatusCode) StatusCode() int {
	return err.Code
}

func (err ErrUnexpectedStatusCode) Error() string {
	var errstr = fmt.Sprintf("Unexpected status code %d", err.Code)
	switch {
	case err.ErrMsg != "":
		errstr += ": " + err.ErrMsg
	case err.Body != "":
		errstr += ", body: " + err.Body
	}

	return errstr
}

// Client is a plain HTTP client for fetching documents off index hosts.
type Client struct {
	http.Client
	agent string
}

// NewClient makes a new client with the given timeout. A zero timeout uses
// DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		Client: http.Client{Timeout: timeout},
		agent:  UserAgent,
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	// Override the UserAgent if we have one.
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}

	r, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if r.StatusCode < 200 || r.StatusCode > 299 {
		// Start reading the body for the error.
		defer r.Body.Close()

		var unexp = ErrUnexpectedStatusCode{Code: r.StatusCode}

		b, err := ioutil.ReadAll(io.LimitReader(r.Body, 4096))
		if err == nil {
			var errResp postlist.ErrResponse
			if json.Unmarshal(b, &errResp); errResp.Error != "" {
				unexp.ErrMsg = errResp.Error
			} else {
				if len(b) > 100 {
					unexp.Body = string(b[:97]) + "..."
				} else {
					unexp.Body = string(b)
				}
			}
		}

		return nil, unexp
	}

	return r, nil
}

// Open sends a GET request to the given URL and returns the response body.
// The caller must close the body.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	r, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create request")
	}
	r.Header.Set("Accept", "application/json")

	q, err := c.Do(r)
	if err != nil {
		return nil, err
	}

	return q.Body, nil
}
