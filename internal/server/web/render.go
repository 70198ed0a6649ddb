package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

const (
	ViewRegister       = "register.html"
	ViewLogin          = "login.html"
	ViewProfile        = "profile.html"
	ViewAddFeedback    = "add_feedback.html"
	ViewUpdateFeedback = "update_feedback.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a view name and its data into HTML.
type Renderer interface {
	Render(w io.Writer, view string, data any) error
}

// TemplateRenderer renders the embedded html/template views, each wrapped in
// the shared layout.
type TemplateRenderer struct {
	views map[string]*template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	r := &TemplateRenderer{views: map[string]*template.Template{}}
	for _, v := range []string{ViewRegister, ViewLogin, ViewProfile, ViewAddFeedback, ViewUpdateFeedback} {
		t, err := template.New(v).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+v)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", v, err)
		}
		r.views[v] = t
	}
	return r, nil
}

// Render executes the view into a buffer first so a failing template never
// produces a half-written page.
func (r *TemplateRenderer) Render(w io.Writer, view string, data any) error {
	t, ok := r.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{"field": newFieldView}

type fieldView struct {
	Name   string
	Label  string
	Type   string
	Value  string
	Errors []string
}

func newFieldView(form *FormState, name, label, typ string) fieldView {
	f := fieldView{Name: name, Label: label, Type: typ}
	if form != nil && typ != "password" {
		f.Value = form.Value(name)
	}
	if form != nil {
		f.Errors = form.FieldErrors(name)
	}
	return f
}

// page is the value every template receives.
type page struct {
	Identity string
	Form     *FormState
	Data     any
}
