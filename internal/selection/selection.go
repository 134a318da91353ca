// Package selection отслеживает выделение диапазона ячеек в сетке календаря
// (день x час) и превращает его в один запрос на создание слота.
package selection

import (
	"sync"
	"time"

	"practice-schedule/internal/models"
	"practice-schedule/pkg/timerange"
)

type State int

const (
	Idle State = iota
	Selecting
)

func (s State) String() string {
	if s == Selecting {
		return "selecting"
	}
	return "idle"
}

// Cell - ячейка сетки: индекс дня от начала недели и час
type Cell struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// Grid - границы сетки; LastHour включительно
type Grid struct {
	Days      int
	FirstHour int
	LastHour  int
}

// DefaultGrid - неделя по 24 часа
func DefaultGrid() Grid {
	return Grid{Days: 7, FirstHour: 0, LastHour: 23}
}

func (g Grid) Contains(c Cell) bool {
	return c.Day >= 0 && c.Day < g.Days && c.Hour >= g.FirstHour && c.Hour <= g.LastHour && c.Hour < 24
}

// Block - прямоугольник выделенных ячеек, границы включительно
type Block struct {
	MinDay  int `json:"min_day"`
	MaxDay  int `json:"max_day"`
	MinHour int `json:"min_hour"`
	MaxHour int `json:"max_hour"`
}

func blockOf(a, b Cell) Block {
	return Block{
		MinDay:  min(a.Day, b.Day),
		MaxDay:  max(a.Day, b.Day),
		MinHour: min(a.Hour, b.Hour),
		MaxHour: max(a.Hour, b.Hour),
	}
}

// Cells перечисляет ячейки блока по дням, затем по часам
func (b Block) Cells() []Cell {
	var cells []Cell
	for d := b.MinDay; d <= b.MaxDay; d++ {
		for h := b.MinHour; h <= b.MaxHour; h++ {
			cells = append(cells, Cell{Day: d, Hour: h})
		}
	}
	return cells
}

// SlotDraft превращает выделение в один слот: от минимального часа начала
// до максимального часа окончания по всем выделенным дням.
// ID не назначается, это делает фасад при сохранении.
func (b Block) SlotDraft(weekStart time.Time, defaults models.Slot) models.Slot {
	week := timerange.Day(weekStart)

	slot := defaults
	slot.ID = ""
	slot.StartDate = week.AddDate(0, 0, b.MinDay)
	slot.EndDate = week.AddDate(0, 0, b.MaxDay)
	slot.StartTime = timerange.ClockOf(b.MinHour, 0)
	slot.EndTime = timerange.ClockOf(b.MaxHour+1, 0)
	if b.MaxDay > b.MinDay {
		slot.Repeat = models.RepeatDaily
	} else {
		slot.Repeat = models.RepeatNever
	}
	return slot
}

// Machine - автомат жеста "потяни, чтобы выделить": Idle -> Selecting -> Idle.
// Выделение каждый раз пересчитывается от якоря, поэтому при движении назад оно сжимается.
type Machine struct {
	mu      sync.Mutex
	grid    Grid
	state   State
	anchor  Cell
	current Cell
}

func NewMachine(grid Grid) *Machine {
	return &Machine{grid: grid}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Selection возвращает текущий прямоугольник, пока идет выделение
func (m *Machine) Selection() (Block, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Selecting {
		return Block{}, false
	}
	return blockOf(m.anchor, m.current), true
}

// PointerDown начинает выделение; повторное нажатие начинает жест заново.
// Ячейки вне сетки игнорируются.
func (m *Machine) PointerDown(c Cell) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.grid.Contains(c) {
		return false
	}
	m.state = Selecting
	m.anchor = c
	m.current = c
	return true
}

// PointerEnter расширяет или сжимает выделение до ячейки c
func (m *Machine) PointerEnter(c Cell) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Selecting || !m.grid.Contains(c) {
		return false
	}
	m.current = c
	return true
}

// PointerUp завершает жест и отдает выделение; автомат всегда возвращается в Idle
func (m *Machine) PointerUp() (Block, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit()
}

// GlobalPointerUp - отпускание кнопки за пределами сетки. Закрывает
// незавершенное выделение, чтобы Selecting не зависал между жестами.
func (m *Machine) GlobalPointerUp() (Block, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commit()
}

// Cancel сбрасывает выделение без результата
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *Machine) commit() (Block, bool) {
	if m.state != Selecting {
		return Block{}, false
	}
	block := blockOf(m.anchor, m.current)
	m.reset()
	return block, true
}

func (m *Machine) reset() {
	m.state = Idle
	m.anchor = Cell{}
	m.current = Cell{}
}

// Select прогоняет полный жест от from до to и возвращает выделение
func Select(grid Grid, from, to Cell) (Block, bool) {
	m := NewMachine(grid)
	if !m.PointerDown(from) {
		return Block{}, false
	}
	if !m.PointerEnter(to) {
		m.Cancel()
		return Block{}, false
	}
	return m.PointerUp()
}
