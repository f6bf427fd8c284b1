package ui

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spance/webview-jank/jank/definitions"
	"github.com/spance/webview-jank/jank/helper"
	"github.com/spance/webview-jank/utils"
)

// Gesture endpoints as fractions of the view height, measured from its top.
const (
	flingNear = 0.2
	flingFar  = 0.8
)

// Scrollable is an Object that can be flung vertically.
//
// This object corresponds to UiScrollable in UI Automator API.
//
// Bounds seen by FlingToBeginning are kept, so a following FlingForward
// issues only the swipe.
type Scrollable struct {
	*Object

	bounds definitions.Bounds
}

// Scrollable creates a Scrollable from given selectors.
func (d *Device) Scrollable(opts ...SelectorOption) *Scrollable {
	return &Scrollable{Object: d.Object(opts...)}
}

// FlingForward performs one forward (downward content) fling.
//
// This method corresponds to UiScrollable.flingForward().
func (s *Scrollable) FlingForward(ctx context.Context) error {
	if s.bounds.Empty() {
		b, err := s.Bounds(ctx)
		if err != nil {
			return err
		}
		s.bounds = b
	}
	return s.fling(ctx, s.bounds, flingFar, flingNear)
}

// FlingToBeginning flings backward until the view stops changing or
// maxSwipes flings have been made. It reports whether the beginning was
// detected.
//
// A view whose descendants carry no text or distinct bounds cannot show
// scroll progress in the hierarchy, so it always gets maxSwipes flings.
//
// This method corresponds to UiScrollable.flingToBeginning().
func (s *Scrollable) FlingToBeginning(ctx context.Context, maxSwipes int) (bool, error) {
	n, err := s.find(ctx)
	if err != nil {
		return false, err
	}
	s.bounds = n.Bounds
	prev := signature(n)

	for i := 0; i < maxSwipes; i++ {
		if err := s.fling(ctx, n.Bounds, flingNear, flingFar); err != nil {
			return false, err
		}
		n, err = s.find(ctx)
		if err != nil {
			return false, err
		}
		s.bounds = n.Bounds
		cur := signature(n)
		if cur == prev && observable(n) {
			log.Debug().Int("swipes", i+1).Msg("[FlingToBeginning] reached beginning")
			return true, nil
		}
		prev = cur
	}
	log.Debug().Int("swipes", maxSwipes).Msg("[FlingToBeginning] gave up before reaching beginning")
	return false, nil
}

func (s *Scrollable) fling(ctx context.Context, b definitions.Bounds, from, to float64) error {
	if b.Empty() {
		return fmt.Errorf("cannot fling %s: empty bounds %+v", s.s, b)
	}
	x := b.CenterX()
	y1 := b.Top + int(float64(b.Height())*from)
	y2 := b.Top + int(float64(b.Height())*to)
	return s.d.drv.Swipe(ctx, x, y1, x, y2, s.d.FlingDuration)
}

// observable reports whether scrolling n can change its subtree, i.e. some
// descendant has text or bounds other than n's own.
func observable(n *definitions.Node) bool {
	return !helper.Walk(n.Children, func(c *definitions.Node) bool {
		return c.Text == "" && c.Bounds == n.Bounds
	})
}

// signature identifies the visible content of a subtree.
func signature(n *definitions.Node) string {
	return utils.JsonString(n)
}
