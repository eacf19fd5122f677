// Package template renders the reminder messages using the Liquid template
// language. Rendering is pure: no I/O, no clock, same input same bytes.
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/osteele/liquid"

	"VowMail/internal/directory"
)

var ErrUnknownTemplate = errors.New("unknown template")

// Message is one fully rendered email, ready for the transport.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

type compiled struct {
	subject *liquid.Template
	html    *liquid.Template
	text    *liquid.Template
}

// Renderer holds the Liquid engine and the pre-parsed template set.
type Renderer struct {
	baseURL   string
	templates map[string]compiled
}

// NewRenderer parses every template source up front so a bad source fails at
// startup, not mid-tick.
func NewRenderer(baseURL string) (*Renderer, error) {
	engine := liquid.NewEngine()

	r := &Renderer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		templates: make(map[string]compiled, len(sources)),
	}

	for id, src := range sources {
		var c compiled
		var err error
		if c.subject, err = engine.ParseString(src.Subject); err != nil {
			return nil, fmt.Errorf("template %s subject: %w", id, err)
		}
		if c.html, err = engine.ParseString(src.HTML); err != nil {
			return nil, fmt.Errorf("template %s html: %w", id, err)
		}
		if c.text, err = engine.ParseString(src.Text); err != nil {
			return nil, fmt.Errorf("template %s text: %w", id, err)
		}
		r.templates[id] = c
	}

	return r, nil
}

// LoginURL builds the passwordless deep link for a guest token.
func (r *Renderer) LoginURL(token string) string {
	return r.baseURL + "/login/" + token
}

// Render produces the subject, HTML body and plain-text body for one guest.
// An unknown template id is a caller bug, reported as ErrUnknownTemplate and
// never worth retrying.
func (r *Renderer) Render(g *directory.Guest, templateID string) (*Message, error) {
	c, ok := r.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}

	bindings := liquid.Bindings{
		"name":      g.Name,
		"email":     g.Email,
		"login_url": r.LoginURL(g.LoginToken),
		"site_url":  r.baseURL,
	}

	subject, err := c.subject.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("render %s subject: %w", templateID, err)
	}
	html, err := c.html.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("render %s html: %w", templateID, err)
	}
	text, err := c.text.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("render %s text: %w", templateID, err)
	}

	return &Message{
		Subject: strings.TrimSpace(subject),
		HTML:    html,
		Text:    text,
	}, nil
}
