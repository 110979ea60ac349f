package ingest

import "net/http"

// Option configures a [Loader].
type Option func(*options)

type options struct {
	client *http.Client
}

// WithHTTPClient overrides the HTTP client used to fetch remote payloads.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		client: http.DefaultClient,
	}
	for _, apply := range opts {
		apply(&o)
	}

	return o
}
