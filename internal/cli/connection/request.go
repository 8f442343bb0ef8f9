package connection

import "net/http"

// Request describes one API call.
type Request struct {
	// Name labels the call in logs and metrics (e.g. "shipments.list").
	// Defaults to Path without its query string.
	Name string

	// Path is appended to the client's base URL, query included.
	Path string

	// Method defaults to GET.
	Method string

	// Body is JSON-encoded when non-nil.
	Body any

	// RequiresAuth attaches the session token when one is stored.
	RequiresAuth bool

	// Headers override the defaults on conflict.
	Headers map[string]string
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

func (r Request) name() string {
	if r.Name != "" {
		return r.Name
	}
	for i := 0; i < len(r.Path); i++ {
		if r.Path[i] == '?' {
			return r.Path[:i]
		}
	}
	return r.Path
}
