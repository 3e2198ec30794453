// Package transport wraps an http.RoundTripper with ordered pre-request
// and post-response hooks. The catalog client runs all its traffic
// through a pipeline carrying bearer injection and the 401 logout
// observer.
package transport

import (
	"context"
	"net/http"
)

// RequestHook runs before the request is sent.
type RequestHook func(*http.Request)

// ResponseHook observes the response after it arrives. Hooks must not
// consume the body.
type ResponseHook func(*http.Response)

// Pipeline is an http.RoundTripper that runs every pre hook, delegates
// to Base, then runs every post hook on the response. Transport errors
// and response statuses pass through unchanged; hooks only add side
// effects.
type Pipeline struct {
	Base http.RoundTripper
	pre  []RequestHook
	post []ResponseHook
}

func NewPipeline(base http.RoundTripper) *Pipeline {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Pipeline{Base: base}
}

// Pre appends a request hook. Hooks run in registration order.
func (p *Pipeline) Pre(hook RequestHook) *Pipeline {
	p.pre = append(p.pre, hook)
	return p
}

// Post appends a response hook. Hooks run in registration order.
func (p *Pipeline) Post(hook ResponseHook) *Pipeline {
	p.post = append(p.post, hook)
	return p
}

func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	for _, hook := range p.pre {
		hook(req)
	}

	resp, err := p.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	for _, hook := range p.post {
		hook(resp)
	}
	return resp, nil
}

// TokenSource yields the current bearer token; "" means anonymous. Reads
// are synchronous against in-memory state.
type TokenSource interface {
	Token() string
}

// SessionEnder force-terminates the current session.
type SessionEnder interface {
	Logout(ctx context.Context)
}

// BearerAuth injects the current token as an Authorization header. When
// the source has no token the request goes out unauthenticated.
func BearerAuth(tokens TokenSource) RequestHook {
	return func(req *http.Request) {
		if token := tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// AcceptJSON asks for JSON, brotli-compressed when the server supports
// it.
func AcceptJSON() RequestHook {
	return func(req *http.Request) {
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Encoding", "br")
	}
}

// ForceLogoutOnUnauthorized ends the session when the server rejects a
// request with 401. The response still reaches the caller unchanged;
// expiry is terminal and there is no refresh flow. Runs once per
// offending response.
func ForceLogoutOnUnauthorized(sessions SessionEnder) ResponseHook {
	return func(resp *http.Response) {
		if resp.StatusCode != http.StatusUnauthorized {
			return
		}
		// Background context: the logout cleanup must finish even if the
		// caller abandons the request.
		sessions.Logout(context.Background())
	}
}
