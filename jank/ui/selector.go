package ui

import (
	"fmt"
	"strings"

	"github.com/spance/webview-jank/jank/definitions"
)

// SelectorOption narrows which views a selector matches.
type SelectorOption func(*selector)

type selector struct {
	resourceID string
	className  string
	instance   int
}

func newSelector(opts []SelectorOption) *selector {
	s := &selector{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID matches views by their full resource name, e.g. "pkg:id/container".
func ID(resourceID string) SelectorOption {
	return func(s *selector) { s.resourceID = resourceID }
}

// ClassName matches views by their class.
func ClassName(className string) SelectorOption {
	return func(s *selector) { s.className = className }
}

// Instance picks the n-th (0-based) view among all matches in document
// order.
func Instance(n int) SelectorOption {
	return func(s *selector) { s.instance = n }
}

func (s *selector) match(n *definitions.Node) bool {
	if s.resourceID != "" && n.ResourceID != s.resourceID {
		return false
	}
	if s.className != "" && n.ClassName != s.className {
		return false
	}
	return true
}

func (s *selector) String() string {
	var parts []string
	if s.resourceID != "" {
		parts = append(parts, "id="+s.resourceID)
	}
	if s.className != "" {
		parts = append(parts, "class="+s.className)
	}
	parts = append(parts, fmt.Sprintf("instance=%d", s.instance))
	return "{" + strings.Join(parts, ", ") + "}"
}
