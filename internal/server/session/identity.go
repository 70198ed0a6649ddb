// Package session keeps the per-client identity in a signed cookie and
// exposes it to handlers as an explicit per-request Identity.
package session

import (
	"context"

	"github.com/dmitrijs2005/userfeedback/internal/common"
)

// Identity is the session identity of one request: zero or one string.
// Changes are recorded so the cookie is only rewritten when needed.
type Identity struct {
	value   string
	present bool
	changed bool
}

// NewIdentity returns an identity holding value, or an empty one when value
// is "".
func NewIdentity(value string) *Identity {
	return &Identity{value: value, present: value != ""}
}

func (i *Identity) Get() (string, bool) {
	return i.value, i.present
}

func (i *Identity) Set(value string) {
	i.value, i.present, i.changed = value, true, true
}

// Clear removes the identity. Clearing an empty session is an error.
func (i *Identity) Clear() error {
	if !i.present {
		return common.ErrNoIdentity
	}
	i.value, i.present, i.changed = "", false, true
	return nil
}

// Changed reports whether Set or Clear succeeded since construction.
func (i *Identity) Changed() bool {
	return i.changed
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by the middleware, or an empty one.
func FromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(ctxKey{}).(*Identity); ok {
		return id
	}
	return NewIdentity("")
}
