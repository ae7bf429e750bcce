package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/piwi3910/TilePack/internal/model"
)

var (
	// ErrNoItems is returned when Pack is called with an empty slice.
	ErrNoItems = errors.New("no items to pack")
	// ErrInvalidSize is returned when an item has a non-positive width or height.
	ErrInvalidSize = errors.New("item size must be positive")
)

// Growth describes how the bounds changed to make room for an item.
type Growth int

const (
	GrowNone   Growth = iota // Item went into an existing free slot
	GrowRight                // Bounds widened by the item width
	GrowBottom               // Bounds heightened by the item height
)

func (g Growth) String() string {
	switch g {
	case GrowRight:
		return "right"
	case GrowBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Step reports a single placement made during packing.
type Step struct {
	Index  int        // Position of the item in the caller's slice
	Rect   model.Rect // Where the item was placed
	Bounds model.Size // Bounds after the placement
	Growth Growth
}

// Pack assigns a position to every item so that no two overlap and returns
// the size of the region they occupy. Items are placed largest area first
// into the best fitting free slot, growing the bounds when none fits.
//
// Only the Point of each item is written. The order of items and their
// payloads are left untouched. On error nothing is written.
func Pack[T any](items []model.Item[T]) (model.Size, error) {
	return PackObserved(items, nil)
}

// PackObserved behaves like Pack and calls observe after every placement.
// A nil observer is allowed.
func PackObserved[T any](items []model.Item[T], observe func(Step)) (model.Size, error) {
	gp, err := packItems(items, observe)
	if err != nil {
		return model.Size{}, err
	}
	return gp.bounds, nil
}

// packItems runs a packing and returns the packer so callers inside the
// package can inspect the slots left over.
func packItems[T any](items []model.Item[T], observe func(Step)) (*growingPacker, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for i, it := range items {
		if it.Width <= 0 || it.Height <= 0 {
			return nil, fmt.Errorf("item %d (%s): %w", i, it.Size, ErrInvalidSize)
		}
	}

	// Sort an index permutation by area descending; ties keep input order
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].Area() > items[order[b]].Area()
	})

	gp := newGrowingPacker(items[order[0]].Size)
	for _, idx := range order {
		size := items[idx].Size
		pt, growth := gp.place(size)
		items[idx].Point = pt
		if observe != nil {
			observe(Step{
				Index:  idx,
				Rect:   model.Rect{Size: size, Point: pt},
				Bounds: gp.bounds,
				Growth: growth,
			})
		}
	}
	return gp, nil
}

// growingPacker implements a guillotine packer whose container grows on demand.
// It keeps the free slots inside the current bounds and splits them on each
// insertion.
type growingPacker struct {
	slots  []model.Rect
	bounds model.Size
}

// newGrowingPacker creates a packer whose bounds and single free slot match seed.
func newGrowingPacker(seed model.Size) *growingPacker {
	return &growingPacker{
		slots:  []model.Rect{{Size: seed}},
		bounds: seed,
	}
}

// place puts an item of the given size into the packer and returns its position.
func (gp *growingPacker) place(size model.Size) (model.Point, Growth) {
	idx := gp.bestSlot(size)
	if idx < 0 {
		return gp.grow(size)
	}

	slot := gp.slots[idx]
	gp.removeSlot(idx)

	placed := model.Rect{Size: size, Point: slot.Point}
	// Right remainder keeps the full slot height, bottom remainder the item width
	gp.addSlot(model.NewRect(placed.Right(), slot.Y, slot.Width-size.Width, slot.Height))
	gp.addSlot(model.NewRect(slot.X, placed.Bottom(), size.Width, slot.Height-size.Height))

	return placed.Point, GrowNone
}

// bestSlot returns the index of the slot that fits size with the least
// leftover area, or -1 if none fits. The first slot wins ties.
// Uses Best Area Fit (BAF) heuristic.
func (gp *growingPacker) bestSlot(size model.Size) int {
	bestIdx := -1
	bestSpace := 0

	for i, slot := range gp.slots {
		if !slot.Fits(size) {
			continue
		}
		space := slot.Space(size)
		if bestIdx < 0 || space < bestSpace {
			bestIdx = i
			bestSpace = space
		}
	}
	return bestIdx
}

// grow extends the bounds to the right or the bottom, whichever keeps the
// result closer to a square. Growing right is only possible when the item
// is no taller than the current bounds. The bottom candidate is scored at
// the old width even when the item is wider.
func (gp *growingPacker) grow(size model.Size) (model.Point, Growth) {
	b := gp.bounds
	right := model.Size{Width: b.Width + size.Width, Height: b.Height}
	bottom := model.Size{Width: b.Width, Height: b.Height + size.Height}

	if squareness(right) < squareness(bottom) && size.Height <= b.Height {
		placed := model.NewRect(b.Width, 0, size.Width, size.Height)
		gp.addSlot(model.NewRect(b.Width, placed.Bottom(), size.Width, b.Height-size.Height))
		gp.bounds = right
		return placed.Point, GrowRight
	}

	placed := model.NewRect(0, b.Height, size.Width, size.Height)
	gp.addSlot(model.NewRect(placed.Right(), b.Height, b.Width-size.Width, size.Height))
	// An item wider than the old bounds exposes a strip beside the old content
	gp.addSlot(model.NewRect(b.Width, 0, size.Width-b.Width, b.Height))
	bottom.Width = max(b.Width, size.Width)
	gp.bounds = bottom
	return placed.Point, GrowBottom
}

// addSlot appends r to the free slots if it has a positive area.
func (gp *growingPacker) addSlot(r model.Rect) {
	if r.Width > 0 && r.Height > 0 {
		gp.slots = append(gp.slots, r)
	}
}

// removeSlot drops slot i by moving the last slot into its place.
func (gp *growingPacker) removeSlot(i int) {
	last := len(gp.slots) - 1
	gp.slots[i] = gp.slots[last]
	gp.slots = gp.slots[:last]
}

// freeSlots returns a copy of the current free slots.
func (gp *growingPacker) freeSlots() []model.Rect {
	out := make([]model.Rect, len(gp.slots))
	copy(out, gp.slots)
	return out
}

// squareness returns how far s is from a square; lower is better.
func squareness(s model.Size) int {
	d := s.Height - s.Width
	if d < 0 {
		return -d
	}
	return d
}
