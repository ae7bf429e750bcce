package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/TilePack/internal/model"
)

// randomItems generates count items with sides in [minDim, maxDim] from a fixed seed.
func randomItems(seed int64, count, minDim, maxDim int) []model.Item[int] {
	rng := rand.New(rand.NewSource(seed))
	items := make([]model.Item[int], count)
	for i := range items {
		w := minDim + rng.Intn(maxDim-minDim+1)
		h := minDim + rng.Intn(maxDim-minDim+1)
		items[i] = model.NewItem(w, h, i)
	}
	return items
}

func assertValidPacking[T any](t *testing.T, items []model.Item[T], bounds model.Size) {
	t.Helper()
	area := model.Rect{Size: bounds}
	for i, a := range items {
		assert.True(t, area.Contains(a.Rect), "item %d %s outside bounds %s", i, a.Rect, bounds)
		for j := i + 1; j < len(items); j++ {
			assert.False(t, a.Overlaps(items[j].Rect), "items %d %s and %d %s overlap", i, a.Rect, j, items[j].Rect)
		}
	}
}

// ─── Contract ───────────────────────────────────────────────

func TestPack_SingleItem(t *testing.T) {
	items := []model.Item[string]{model.NewItem(7, 3, "only")}

	bounds, err := Pack(items)

	require.NoError(t, err)
	assert.Equal(t, model.Size{Width: 7, Height: 3}, bounds)
	assert.Equal(t, model.Point{}, items[0].Point)
}

func TestPack_WorkedExample(t *testing.T) {
	items := []model.Item[string]{
		model.NewItem(10, 10, "A"),
		model.NewItem(5, 5, "B"),
	}

	gp, err := packItems(items, nil)

	require.NoError(t, err)
	assert.Equal(t, model.Size{Width: 10, Height: 15}, gp.bounds)
	assert.Equal(t, model.Point{X: 0, Y: 0}, items[0].Point)
	assert.Equal(t, model.Point{X: 0, Y: 10}, items[1].Point)
	assert.Equal(t, []model.Rect{model.NewRect(5, 10, 5, 5)}, gp.slots)
}

func TestPack_SmallItemFillsLeftover(t *testing.T) {
	items := []model.Item[string]{
		model.NewItem(10, 10, "A"),
		model.NewItem(5, 5, "B"),
		model.NewItem(5, 5, "C"),
	}

	bounds, err := Pack(items)

	require.NoError(t, err)
	assert.Equal(t, model.Size{Width: 10, Height: 15}, bounds)
	assert.Equal(t, model.Point{X: 5, Y: 10}, items[2].Point)
}

func TestPack_GrowsRightWhenSquarer(t *testing.T) {
	items := []model.Item[string]{
		model.NewItem(10, 20, "tall"),
		model.NewItem(10, 20, "tall2"),
	}

	var steps []Step
	bounds, err := PackObserved(items, func(s Step) { steps = append(steps, s) })

	require.NoError(t, err)
	assert.Equal(t, model.Size{Width: 20, Height: 20}, bounds)
	assert.Equal(t, model.Point{X: 10, Y: 0}, items[1].Point)
	require.Len(t, steps, 2)
	assert.Equal(t, GrowNone, steps[0].Growth)
	assert.Equal(t, GrowRight, steps[1].Growth)
}

func TestPack_TallItemCannotGrowRight(t *testing.T) {
	// Growing right would be squarer, but the item is taller than the bounds.
	items := []model.Item[string]{
		model.NewItem(10, 20, "base"),
		model.NewItem(9, 21, "taller"),
	}

	var growth []Growth
	bounds, err := PackObserved(items, func(s Step) { growth = append(growth, s.Growth) })

	require.NoError(t, err)
	assert.Equal(t, []Growth{GrowNone, GrowBottom}, growth)
	assert.Equal(t, model.Size{Width: 10, Height: 41}, bounds)
	assert.Equal(t, model.Point{X: 0, Y: 20}, items[1].Point)
	assertValidPacking(t, items, bounds)
}

func TestPack_EqualCostPrefersBottom(t *testing.T) {
	items := []model.Item[int]{
		model.NewItem(4, 4, 0),
		model.NewItem(4, 4, 1),
	}

	bounds, err := Pack(items)

	require.NoError(t, err)
	assert.Equal(t, model.Size{Width: 4, Height: 8}, bounds)
	assert.Equal(t, model.Point{X: 0, Y: 4}, items[1].Point)
}

func TestPack_ItemWiderThanBounds(t *testing.T) {
	items := []model.Item[string]{
		model.NewItem(10, 10, "A"),
		model.NewItem(20, 4, "B"),
		model.NewItem(10, 7, "C"),
	}

	gp, err := packItems(items[:2], nil)
	require.NoError(t, err)
	assert.Equal(t, model.Size{Width: 20, Height: 14}, gp.bounds)
	assert.Equal(t, model.Point{X: 0, Y: 10}, items[1].Point)
	assert.Equal(t, []model.Rect{model.NewRect(10, 0, 10, 10)}, gp.slots)

	// The exposed strip is reused by the next item that fits it
	bounds, err := Pack(items)
	require.NoError(t, err)
	assert.Equal(t, model.Size{Width: 20, Height: 14}, bounds)
	assert.Equal(t, model.Point{X: 10, Y: 0}, items[2].Point)
	assertValidPacking(t, items, bounds)
}

func TestPack_GrowDirectionWithWiderItem(t *testing.T) {
	tests := []struct {
		name   string
		seed   model.Size
		item   model.Size
		growth Growth
		point  model.Point
		bounds model.Size
		slots  []model.Rect
	}{
		{
			// right 22x16 is off square by 6, bottom 10x17 by 7
			name:   "right wins against old width",
			seed:   model.Size{Width: 10, Height: 16},
			item:   model.Size{Width: 12, Height: 1},
			growth: GrowRight,
			point:  model.Point{X: 10, Y: 0},
			bounds: model.Size{Width: 22, Height: 16},
			slots:  []model.Rect{model.NewRect(10, 1, 12, 15)},
		},
		{
			// right 30x10 is off square by 20, bottom 10x14 by 4
			name:   "bottom wins and widens",
			seed:   model.Size{Width: 10, Height: 10},
			item:   model.Size{Width: 20, Height: 4},
			growth: GrowBottom,
			point:  model.Point{X: 0, Y: 10},
			bounds: model.Size{Width: 20, Height: 14},
			slots:  []model.Rect{model.NewRect(10, 0, 10, 10)},
		},
		{
			name:   "tie grows bottom",
			seed:   model.Size{Width: 10, Height: 10},
			item:   model.Size{Width: 5, Height: 5},
			growth: GrowBottom,
			point:  model.Point{X: 0, Y: 10},
			bounds: model.Size{Width: 10, Height: 15},
			slots:  []model.Rect{model.NewRect(5, 10, 5, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []model.Item[string]{
				model.NewItem(tt.seed.Width, tt.seed.Height, "seed"),
				model.NewItem(tt.item.Width, tt.item.Height, "item"),
			}

			var steps []Step
			gp, err := packItems(items, func(s Step) { steps = append(steps, s) })
			require.NoError(t, err)
			require.Len(t, steps, 2)

			assert.Equal(t, tt.growth, steps[1].Growth)
			assert.Equal(t, tt.point, items[1].Point)
			assert.Equal(t, tt.bounds, gp.bounds)
			assert.Equal(t, tt.slots, gp.slots)
			assertValidPacking(t, items, gp.bounds)
		})
	}
}

func TestPack_BestFitPicksSmallestSpace(t *testing.T) {
	gp := &growingPacker{
		slots: []model.Rect{
			model.NewRect(0, 0, 10, 10),
			model.NewRect(10, 0, 5, 6),
			model.NewRect(0, 10, 6, 5),
		},
		bounds: model.Size{Width: 20, Height: 20},
	}

	assert.Equal(t, 1, gp.bestSlot(model.Size{Width: 5, Height: 5}), "first of two equal candidates wins")
	assert.Equal(t, 0, gp.bestSlot(model.Size{Width: 7, Height: 2}))
	assert.Equal(t, -1, gp.bestSlot(model.Size{Width: 11, Height: 1}))
}

func TestPack_SplitRemainders(t *testing.T) {
	gp := newGrowingPacker(model.Size{Width: 10, Height: 8})

	pt, growth := gp.place(model.Size{Width: 4, Height: 3})

	assert.Equal(t, model.Point{}, pt)
	assert.Equal(t, GrowNone, growth)
	assert.Equal(t, []model.Rect{
		model.NewRect(4, 0, 6, 8),
		model.NewRect(0, 3, 4, 5),
	}, gp.slots)
}

func TestPack_ExactFitLeavesNoSlots(t *testing.T) {
	gp := newGrowingPacker(model.Size{Width: 6, Height: 6})
	gp.place(model.Size{Width: 6, Height: 6})
	assert.Empty(t, gp.slots)
}

// ─── Input validation ───────────────────────────────────────

func TestPack_EmptyInput(t *testing.T) {
	bounds, err := Pack([]model.Item[int]{})
	assert.ErrorIs(t, err, ErrNoItems)
	assert.Equal(t, model.Size{}, bounds)

	_, err = Pack[int](nil)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestPack_RejectsNonPositiveSizes(t *testing.T) {
	tests := []struct {
		name string
		size model.Size
	}{
		{"zero width", model.Size{Width: 0, Height: 5}},
		{"zero height", model.Size{Width: 5, Height: 0}},
		{"negative width", model.Size{Width: -1, Height: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []model.Item[int]{
				model.NewItem(3, 3, 0),
				model.NewItem(tt.size.Width, tt.size.Height, 1),
			}
			items[0].Point = model.Point{X: 99, Y: 99}

			_, err := Pack(items)

			require.ErrorIs(t, err, ErrInvalidSize)
			assert.Contains(t, err.Error(), "item 1")
			assert.Equal(t, model.Point{X: 99, Y: 99}, items[0].Point, "nothing is written on error")
		})
	}
}

// ─── Properties ─────────────────────────────────────────────

func TestPack_NoOverlapAndContainment(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		items := randomItems(seed, 100, 1, 50)
		bounds, err := Pack(items)
		require.NoError(t, err)
		assertValidPacking(t, items, bounds)
	}
}

func TestPack_InvariantsHoldAfterEveryStep(t *testing.T) {
	items := randomItems(7, 60, 1, 30)
	placed := make([]model.Rect, 0, len(items))
	var prev model.Size

	gp, err := packItems(items, func(s Step) {
		assert.GreaterOrEqual(t, s.Bounds.Width, prev.Width, "width shrank")
		assert.GreaterOrEqual(t, s.Bounds.Height, prev.Height, "height shrank")
		prev = s.Bounds

		area := model.Rect{Size: s.Bounds}
		assert.True(t, area.Contains(s.Rect))
		for _, p := range placed {
			assert.False(t, p.Overlaps(s.Rect))
		}
		placed = append(placed, s.Rect)
	})
	require.NoError(t, err)

	// Live slots never cover placed items and stay inside the bounds
	area := model.Rect{Size: gp.bounds}
	for _, slot := range gp.slots {
		assert.True(t, area.Contains(slot), "slot %s outside bounds", slot)
		for _, p := range placed {
			assert.False(t, slot.Overlaps(p), "slot %s overlaps item %s", slot, p)
		}
	}
}

func TestPack_AreaBoundAndEfficiency(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		items := randomItems(seed, 200, 10, 40)
		bounds, err := Pack(items)
		require.NoError(t, err)

		total := 0
		for _, it := range items {
			total += it.Area()
		}
		require.GreaterOrEqual(t, bounds.Area(), total)
		assert.Greater(t, float64(total)/float64(bounds.Area()), 0.5, "seed %d", seed)
	}
}

func TestPack_Deterministic(t *testing.T) {
	a := randomItems(42, 150, 1, 64)
	b := randomItems(42, 150, 1, 64)

	boundsA, err := Pack(a)
	require.NoError(t, err)
	boundsB, err := Pack(b)
	require.NoError(t, err)

	assert.Equal(t, boundsA, boundsB)
	assert.Equal(t, a, b)
}

func TestPack_PreservesOrderAndPayload(t *testing.T) {
	type sprite struct{ name string }
	items := []model.Item[*sprite]{
		model.NewItem(2, 2, &sprite{"small"}),
		model.NewItem(8, 8, &sprite{"large"}),
		model.NewItem(4, 4, &sprite{"medium"}),
	}
	payloads := []*sprite{items[0].Payload, items[1].Payload, items[2].Payload}

	_, err := Pack(items)
	require.NoError(t, err)

	for i, it := range items {
		assert.Same(t, payloads[i], it.Payload)
	}
	assert.Equal(t, model.Point{}, items[1].Point, "largest item is placed first at the origin")
}

func TestPack_StableForEqualAreas(t *testing.T) {
	var order []int
	items := []model.Item[int]{
		model.NewItem(2, 8, 0),
		model.NewItem(4, 4, 1),
		model.NewItem(8, 2, 2),
	}

	_, err := PackObserved(items, func(s Step) { order = append(order, s.Index) })

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestGrowth_String(t *testing.T) {
	assert.Equal(t, "none", GrowNone.String())
	assert.Equal(t, "right", GrowRight.String())
	assert.Equal(t, "bottom", GrowBottom.String())
}
