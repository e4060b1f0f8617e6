// Package mailtemplate parses and renders the plain-text mail templates kept
// in the assets folder. The first line of a template is the subject, the rest
// is the body.
package mailtemplate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cbroglie/mustache"
)

// ErrInvalidTemplate is returned for a template without a subject and a body.
var ErrInvalidTemplate = errors.New("mail template must contain a subject line and a body")

var lineBreak = regexp.MustCompile(`\r\n|\n\r|\r|\n`)

// Template is a parsed mail template.
type Template struct {
	Subject string
	Body    string
}

// FileName returns the asset name of the template called name.
func FileName(name string) string {
	return "mail_" + name + ".txt"
}

// Parse splits raw template text into subject and body.
func Parse(raw string) (Template, error) {
	lines := lineBreak.Split(raw, -1)
	if len(lines) < 2 {
		return Template{}, ErrInvalidTemplate
	}
	return Template{
		Subject: lines[0],
		Body:    strings.Join(lines[1:], "\n"),
	}, nil
}

// Data is the context mail placeholders are rendered with.
type Data struct {
	GivenName   string
	Surname     string
	RequestBody map[string]interface{}
}

func (d Data) context() map[string]interface{} {
	body := d.RequestBody
	if body == nil {
		body = map[string]interface{}{}
	}
	return map[string]interface{}{
		"student": map[string]interface{}{
			"givenname": d.GivenName,
			"surname":   d.Surname,
		},
		"requestBody": body,
	}
}

// Render fills the mustache placeholders of text.
func Render(text string, data Data) (string, error) {
	out, err := mustache.Render(text, data.context())
	if err != nil {
		return "", fmt.Errorf("render mail template: %w", err)
	}
	return out, nil
}

// RenderTemplate renders subject and body of t.
func RenderTemplate(t Template, data Data) (Template, error) {
	subject, err := Render(t.Subject, data)
	if err != nil {
		return Template{}, err
	}
	body, err := Render(t.Body, data)
	if err != nil {
		return Template{}, err
	}
	return Template{Subject: subject, Body: body}, nil
}
