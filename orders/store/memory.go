// Package store provides in-memory Workbook, Documents and Files
// implementations.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jfc974-droid/order-management-system/orders"
)

// =============================================================================
// MEMORY WORKBOOK - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	order   []string
	sheets  map[string][]orders.Row
	formats map[string][]orders.FormatRequest
	resized map[string][2]int
}

func NewMemory() *Memory {
	return &Memory{
		sheets:  make(map[string][]orders.Row),
		formats: make(map[string][]orders.FormatRequest),
		resized: make(map[string][2]int),
	}
}

// NewMemoryWith returns a workbook pre-loaded with sheets, added in the
// order of names.
func NewMemoryWith(names []string, data map[string][]orders.Row) *Memory {
	m := NewMemory()
	for _, name := range names {
		m.order = append(m.order, name)
		m.sheets[name] = copyRows(data[name])
	}
	return m
}

// Reset removes every sheet.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	m.sheets = make(map[string][]orders.Row)
	m.formats = make(map[string][]orders.FormatRequest)
	m.resized = make(map[string][2]int)
	return nil
}

func (m *Memory) Sheets(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}

func (m *Memory) Read(_ context.Context, sheet string) ([]orders.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	return copyRows(rows), nil
}

// Write overwrites cells starting at startRow. Cells past the end of a
// written row are left as they were.
func (m *Memory) Write(_ context.Context, sheet string, startRow int, rows []orders.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	for len(existing) < startRow+len(rows) {
		existing = append(existing, nil)
	}
	for i, row := range rows {
		target := existing[startRow+i]
		for len(target) < len(row) {
			target = append(target, "")
		}
		copy(target, row)
		existing[startRow+i] = target
	}
	m.sheets[sheet] = existing
	return nil
}

func (m *Memory) Append(_ context.Context, sheet string, rows []orders.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	// Trailing blank rows are not part of the table.
	for len(existing) > 0 && blank(existing[len(existing)-1]) {
		existing = existing[:len(existing)-1]
	}
	m.sheets[sheet] = append(existing, copyRows(rows)...)
	return nil
}

func (m *Memory) Clear(_ context.Context, sheet string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[sheet]; !ok {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	m.sheets[sheet] = nil
	return nil
}

func (m *Memory) AddSheet(_ context.Context, sheet string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[sheet]; ok {
		return fmt.Errorf("%w: %s", orders.ErrSheetExists, sheet)
	}
	m.order = append(m.order, sheet)
	m.sheets[sheet] = nil
	return nil
}

// Format records the requests; memory has no rendering.
func (m *Memory) Format(_ context.Context, sheet string, reqs []orders.FormatRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[sheet]; !ok {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	m.formats[sheet] = append(m.formats[sheet], reqs...)
	return nil
}

func (m *Memory) AutoResize(_ context.Context, sheet string, from, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[sheet]; !ok {
		return fmt.Errorf("%w: %s", orders.ErrSheetNotFound, sheet)
	}
	m.resized[sheet] = [2]int{from, to}
	return nil
}

// Formats returns every format request applied to sheet, in order.
func (m *Memory) Formats(sheet string) []orders.FormatRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]orders.FormatRequest(nil), m.formats[sheet]...)
}

func copyRows(rows []orders.Row) []orders.Row {
	if rows == nil {
		return nil
	}
	out := make([]orders.Row, len(rows))
	for i, r := range rows {
		out[i] = append(orders.Row(nil), r...)
	}
	return out
}

func blank(r orders.Row) bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}
