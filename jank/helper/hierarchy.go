package helper

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spance/webview-jank/jank/definitions"
)

type xmlNode struct {
	ResourceID string    `xml:"resource-id,attr"`
	Class      string    `xml:"class,attr"`
	Package    string    `xml:"package,attr"`
	Text       string    `xml:"text,attr"`
	Scrollable string    `xml:"scrollable,attr"`
	Bounds     string    `xml:"bounds,attr"`
	Nodes      []xmlNode `xml:"node"`
}

type xmlHierarchy struct {
	XMLName xml.Name  `xml:"hierarchy"`
	Nodes   []xmlNode `xml:"node"`
}

var boundsPattern = regexp.MustCompile(`^\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]$`)

// ParseHierarchy decodes a `uiautomator dump` document into its root nodes.
func ParseHierarchy(data []byte) ([]*definitions.Node, error) {
	var h xmlHierarchy
	if err := xml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to decode window hierarchy: %w", err)
	}

	roots := make([]*definitions.Node, 0, len(h.Nodes))
	for i := range h.Nodes {
		n, err := convertNode(&h.Nodes[i])
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	return roots, nil
}

func convertNode(x *xmlNode) (*definitions.Node, error) {
	var bounds definitions.Bounds
	if x.Bounds != "" {
		b, err := ParseBounds(x.Bounds)
		if err != nil {
			return nil, err
		}
		bounds = b
	}
	n := &definitions.Node{
		ResourceID:  x.ResourceID,
		ClassName:   x.Class,
		PackageName: x.Package,
		Text:        x.Text,
		Scrollable:  x.Scrollable == "true",
		Bounds:      bounds,
	}
	for i := range x.Nodes {
		child, err := convertNode(&x.Nodes[i])
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// ParseBounds parses the "[left,top][right,bottom]" notation.
func ParseBounds(s string) (definitions.Bounds, error) {
	m := boundsPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return definitions.Bounds{}, fmt.Errorf("invalid bounds: %q", s)
	}
	v := make([]int, 4)
	for i := range v {
		v[i], _ = strconv.Atoi(m[i+1])
	}
	return definitions.Bounds{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}

// Walk visits nodes depth first in document order and stops when fn
// returns false.
func Walk(nodes []*definitions.Node, fn func(*definitions.Node) bool) bool {
	for _, n := range nodes {
		if !fn(n) {
			return false
		}
		if !Walk(n.Children, fn) {
			return false
		}
	}
	return true
}
