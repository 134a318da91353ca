package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

func TestSelectionIsDirectionIndependent(t *testing.T) {
	m := NewMachine(DefaultGrid())
	require.True(t, m.PointerDown(Cell{Day: 2, Hour: 9}))
	require.True(t, m.PointerEnter(Cell{Day: 1, Hour: 11}))

	block, ok := m.PointerUp()
	require.True(t, ok)
	assert.Equal(t, Block{MinDay: 1, MaxDay: 2, MinHour: 9, MaxHour: 11}, block)
	assert.Len(t, block.Cells(), 6)

	forward, ok := Select(DefaultGrid(), Cell{Day: 1, Hour: 11}, Cell{Day: 2, Hour: 9})
	require.True(t, ok)
	assert.Equal(t, block, forward)
}

func TestDraggingBackShrinksSelection(t *testing.T) {
	m := NewMachine(DefaultGrid())
	m.PointerDown(Cell{Day: 1, Hour: 9})
	m.PointerEnter(Cell{Day: 4, Hour: 15})

	sel, ok := m.Selection()
	require.True(t, ok)
	assert.Equal(t, 4, sel.MaxDay)

	m.PointerEnter(Cell{Day: 2, Hour: 10})
	sel, _ = m.Selection()
	assert.Equal(t, Block{MinDay: 1, MaxDay: 2, MinHour: 9, MaxHour: 10}, sel)

	m.PointerEnter(Cell{Day: 0, Hour: 8})
	sel, _ = m.Selection()
	assert.Equal(t, Block{MinDay: 0, MaxDay: 1, MinHour: 8, MaxHour: 9}, sel, "crossing the anchor flips the rectangle")
}

func TestPointerUpAlwaysReturnsToIdle(t *testing.T) {
	m := NewMachine(DefaultGrid())

	_, ok := m.PointerUp()
	assert.False(t, ok, "nothing to commit while idle")

	m.PointerDown(Cell{Day: 0, Hour: 9})
	assert.Equal(t, Selecting, m.State())
	_, ok = m.PointerUp()
	assert.True(t, ok)
	assert.Equal(t, Idle, m.State())

	_, ok = m.Selection()
	assert.False(t, ok)
}

func TestGlobalPointerUpClosesSelection(t *testing.T) {
	m := NewMachine(DefaultGrid())
	m.PointerDown(Cell{Day: 3, Hour: 12})
	m.PointerEnter(Cell{Day: 3, Hour: 14})

	block, ok := m.GlobalPointerUp()
	require.True(t, ok)
	assert.Equal(t, Block{MinDay: 3, MaxDay: 3, MinHour: 12, MaxHour: 14}, block)
	assert.Equal(t, Idle, m.State())

	_, ok = m.GlobalPointerUp()
	assert.False(t, ok)
}

func TestCancelCommitsNothing(t *testing.T) {
	m := NewMachine(DefaultGrid())
	m.PointerDown(Cell{Day: 3, Hour: 12})
	m.Cancel()
	assert.Equal(t, Idle, m.State())

	_, ok := m.PointerUp()
	assert.False(t, ok)
}

func TestOutOfGridCellsIgnored(t *testing.T) {
	grid := Grid{Days: 7, FirstHour: 8, LastHour: 20}
	m := NewMachine(grid)

	assert.False(t, m.PointerDown(Cell{Day: 7, Hour: 9}))
	assert.Equal(t, Idle, m.State())

	assert.True(t, m.PointerDown(Cell{Day: 0, Hour: 8}))
	assert.False(t, m.PointerEnter(Cell{Day: 1, Hour: 21}))
	sel, _ := m.Selection()
	assert.Equal(t, Block{MinDay: 0, MaxDay: 0, MinHour: 8, MaxHour: 8}, sel)

	assert.False(t, m.PointerEnter(Cell{Day: -1, Hour: 9}))

	assert.False(t, NewMachine(grid).PointerEnter(Cell{Day: 1, Hour: 9}), "enter without down is ignored")
}

func TestPointerDownRestartsGesture(t *testing.T) {
	m := NewMachine(DefaultGrid())
	m.PointerDown(Cell{Day: 0, Hour: 9})
	m.PointerEnter(Cell{Day: 5, Hour: 17})
	m.PointerDown(Cell{Day: 2, Hour: 10})

	sel, ok := m.Selection()
	require.True(t, ok)
	assert.Equal(t, Block{MinDay: 2, MaxDay: 2, MinHour: 10, MaxHour: 10}, sel)
}

func TestSlotDraftBatchesCells(t *testing.T) {
	block := Block{MinDay: 1, MaxDay: 3, MinHour: 9, MaxHour: 11}
	defaults := models.Slot{ID: "ignored", Title: "Consultations", Color: "green", Timezone: "Europe/Berlin"}

	slot := block.SlotDraft(timerange.Date(2024, 1, 15), defaults)
	assert.Empty(t, slot.ID)
	assert.Equal(t, timerange.Date(2024, 1, 16), slot.StartDate)
	assert.Equal(t, timerange.Date(2024, 1, 18), slot.EndDate)
	assert.Equal(t, timerange.ClockOf(9, 0), slot.StartTime)
	assert.Equal(t, timerange.ClockOf(12, 0), slot.EndTime)
	assert.Equal(t, models.RepeatDaily, slot.Repeat)
	assert.Equal(t, "Consultations", slot.Title)
	require.NoError(t, slot.Validate())

	single := Block{MinDay: 6, MaxDay: 6, MinHour: 23, MaxHour: 23}.SlotDraft(timerange.Date(2024, 1, 15), defaults)
	assert.Equal(t, models.RepeatNever, single.Repeat)
	assert.Equal(t, timerange.EndOfDay, single.EndTime)
	assert.NoError(t, single.Validate())
}
