package api

import "context"

// AuthProvider supplies an opaque bearer credential on demand. The token is
// attached to every outgoing request when present; an empty token means the
// request goes out anonymous.
type AuthProvider interface {
	Token(ctx context.Context) (string, error)
	SignedIn() bool
}

// StaticTokenProvider is an AuthProvider backed by a fixed token, typically
// resolved from config or an environment variable at startup.
type StaticTokenProvider struct {
	token string
}

func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	return p.token, nil
}

func (p *StaticTokenProvider) SignedIn() bool {
	return p.token != ""
}

var _ AuthProvider = (*StaticTokenProvider)(nil)
