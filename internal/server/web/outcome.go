package web

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/userfeedback/internal/server/session"
)

type outcomeKind int

const (
	kindRedirect outcomeKind = iota
	kindForm
	kindPage
)

// Outcome is what a handler decided: redirect somewhere, show a form
// (possibly with errors) or show a page.
type Outcome struct {
	kind   outcomeKind
	Target string
	View   string
	Form   *FormState
	Data   any
}

func Redirect(target string) Outcome {
	return Outcome{kind: kindRedirect, Target: target}
}

func RenderForm(view string, form *FormState, data any) Outcome {
	return Outcome{kind: kindForm, View: view, Form: form, Data: data}
}

func RenderPage(view string, data any) Outcome {
	return Outcome{kind: kindPage, View: view, Data: data}
}

func (o Outcome) IsRedirect() bool { return o.kind == kindRedirect }

// Request is the transport-free view of an HTTP request that handlers see.
type Request struct {
	Method string
	Form   url.Values
	Params map[string]string
}

func (r Request) IsPost() bool { return r.Method == "POST" }

// HandlerFunc handles one route. Identity changes are made on id and
// persisted by the caller, also when an error is returned.
type HandlerFunc func(ctx context.Context, id *session.Identity, req Request) (Outcome, error)
