// Package crawler implements the schema-fetching crawler of spec.md
// section 4.12: a breadth-first walk over a schema document's imports,
// includes, and external references, driven by a pluggable transport
// callable so the core has no built-in notion of HTTP, file I/O, or
// any other transport.
package crawler

import (
	"context"
	"fmt"
)

// Transport fetches the content of a URL. HTTP scheme dispatch and
// authentication are out of scope for this package -- callers inject
// whatever transport fits their environment.
type Transport func(url string) (string, error)

// Logger receives warnings and debug information about a crawl, the
// same minimal interface xsdgen.Config accepts (satisfied by
// *log.Logger, or any slog-backed adapter).
type Logger interface {
	Printf(format string, v ...interface{})
}

// Config controls one Crawl call.
type Config struct {
	transport Transport
	failFast  bool
	logger    Logger
	loglevel  int
}

func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}

func (cfg *Config) debugf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 3 {
		cfg.logger.Printf(format, v...)
	}
}

// Option configures a Config. Applying it returns an Option that
// reverts the change, the same reversible pattern xsdgen.Option uses.
type Option func(*Config) Option

// Option applies opts in order, returning the final one's reverting
// Option.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// WithTransport sets the callable Crawl uses to fetch a URL's content.
func WithTransport(t Transport) Option {
	return func(cfg *Config) Option {
		prev := cfg.transport
		cfg.transport = t
		return WithTransport(prev)
	}
}

// FailFast controls whether a fetch failure propagates (true) or is
// logged as a warning and skipped so the crawl continues (false, the
// default), per spec.md section 4.12.
func FailFast(v bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.failFast
		cfg.failFast = v
		return FailFast(prev)
	}
}

// LogOutput sets the Logger that receives fetch-failure warnings and
// debug information.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the configured
// Logger: 1 and above enables warnings, above 3 enables debug detail.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// NewConfig builds a Config from opts.
func NewConfig(opts ...Option) Config {
	var cfg Config
	cfg.Option(opts...)
	return cfg
}

// Fetched is one document retrieved during a crawl.
type Fetched struct {
	SourceURL string
	Content   string
}

// FetchError reports a transport failure for one URL. Crawl returns it
// when FailFast is set; otherwise the failure is logged and the URL is
// skipped.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("crawler: fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// Crawl performs a BFS over root and every schema it transitively
// imports, includes, or references, returning the fetched documents in
// BFS discovery order. A URL is fetched at most once, tracked by a
// visited set keyed on the resolved (merged) URL.
//
// ctx is consulted only for caller-side cancellation between fetches,
// per spec.md section 5's single-threaded, synchronous core: the BFS
// loop checks ctx.Err() at the fetch boundary and stops early,
// returning ctx.Err(), without otherwise introducing concurrency.
func Crawl(ctx context.Context, root string, cfg Config) ([]Fetched, error) {
	if cfg.transport == nil {
		return nil, fmt.Errorf("crawler: Config.transport is required (set with WithTransport)")
	}

	visited := map[string]bool{root: true}
	queue := []string{root}
	var result []Fetched

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		u := queue[0]
		queue = queue[1:]
		cfg.debugf("crawler: fetching %s", u)

		content, err := cfg.transport(u)
		if err != nil {
			if cfg.failFast {
				return result, &FetchError{URL: u, Err: err}
			}
			cfg.logf("crawler: skipping %s: %v", u, err)
			continue
		}

		result = append(result, Fetched{SourceURL: u, Content: content})

		for _, ref := range extractReferences(content) {
			merged := mergeURL(u, ref)
			if merged == "" || visited[merged] {
				continue
			}
			visited[merged] = true
			queue = append(queue, merged)
		}
	}

	return result, nil
}
