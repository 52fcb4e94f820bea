// Package tree draws an organization chart as an indented text tree.
package tree

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/muesli/termenv"
)

// Renderer writes charts using box-drawing characters. Colors follow the profile;
// termenv.Ascii produces plain text.
type Renderer struct {
	profile   termenv.Profile
	highlight map[int]bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithProfile overrides the detected color profile.
func WithProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = p
	}
}

// WithHighlight emphasizes the given employees, e.g. the ones moved recently.
func WithHighlight(ids ...int) Option {
	return func(r *Renderer) {
		for _, id := range ids {
			r.highlight[id] = true
		}
	}
}

// NewRenderer detects the color profile of stdout unless WithProfile is given.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		profile:   termenv.ColorProfile(),
		highlight: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes c to w.
func (r *Renderer) Render(w io.Writer, c domain.Chart) error {
	var sb strings.Builder
	sb.WriteString(r.label(c.ID, true))
	sb.WriteString("\n")
	r.children(&sb, c, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders c without colors.
func String(c domain.Chart) string {
	var sb strings.Builder
	_ = NewRenderer(WithProfile(termenv.Ascii)).Render(&sb, c)
	return sb.String()
}

func (r *Renderer) children(sb *strings.Builder, c domain.Chart, prefix string) {
	for i, sub := range c.Subordinates {
		last := i == len(c.Subordinates)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(r.profile.String(branch).Foreground(r.profile.Color("#6b7280")).String())
		sb.WriteString(r.label(sub.ID, false))
		sb.WriteString("\n")
		r.children(sb, sub, prefix+indent)
	}
}

func (r *Renderer) label(id int, root bool) string {
	text := strconv.Itoa(id)
	if root {
		text = fmt.Sprintf("%d (CEO)", id)
	}
	s := r.profile.String(text)
	switch {
	case r.highlight[id]:
		s = s.Foreground(r.profile.Color("#fbbf24")).Bold()
	case root:
		s = s.Foreground(r.profile.Color("#818cf8")).Bold()
	}
	return s.String()
}
