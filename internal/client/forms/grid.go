package forms

import (
	"errors"

	"github.com/voatnetwork/voat/internal/client/models"
)

const (
	SlotsPerRow    = 5
	DefaultMaxRows = 10
	DefaultMinRows = 1
)

var (
	ErrGridFull      = errors.New("maximum number of rows reached")
	ErrGridMinRows   = errors.New("minimum number of rows reached")
	ErrOutOfRange    = errors.New("row or slot out of range")
	ErrGridNoContent = errors.New("grid has no complete row")
)

// MediaGrid is the multi-row portfolio selector: each row has SlotsPerRow
// media slots and a price.
type MediaGrid struct {
	minRows, maxRows int
	rows             []models.GridRow
}

func NewMediaGrid(minRows, maxRows int) *MediaGrid {
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	if maxRows < minRows {
		maxRows = DefaultMaxRows
	}
	return &MediaGrid{minRows: minRows, maxRows: maxRows, rows: []models.GridRow{emptyRow()}}
}

func emptyRow() models.GridRow {
	return models.GridRow{Media: make([]*models.MediaFile, SlotsPerRow)}
}

func (g *MediaGrid) AddRow() error {
	if len(g.rows) >= g.maxRows {
		return ErrGridFull
	}
	g.rows = append(g.rows, emptyRow())
	return nil
}

// RemoveRow deletes a row. Removing the only row resets it to an empty
// row, so the grid never has fewer than one row. Grids built with a
// minimum above one refuse to shrink below it.
func (g *MediaGrid) RemoveRow(i int) error {
	if i < 0 || i >= len(g.rows) {
		return ErrOutOfRange
	}
	if len(g.rows) == 1 {
		g.rows[0] = emptyRow()
		return nil
	}
	if len(g.rows) <= g.minRows {
		return ErrGridMinRows
	}
	g.rows = append(g.rows[:i], g.rows[i+1:]...)
	return nil
}

func (g *MediaGrid) SetMedia(row, slot int, f *models.MediaFile) error {
	if row < 0 || row >= len(g.rows) || slot < 0 || slot >= SlotsPerRow {
		return ErrOutOfRange
	}
	g.rows[row].Media[slot] = f
	return nil
}

func (g *MediaGrid) ClearMedia(row, slot int) error {
	return g.SetMedia(row, slot, nil)
}

func (g *MediaGrid) SetPrice(row int, price string) error {
	if row < 0 || row >= len(g.rows) {
		return ErrOutOfRange
	}
	g.rows[row].Price = price
	return nil
}

// Rows returns a deep enough copy for callers to hold across edits.
func (g *MediaGrid) Rows() []models.GridRow {
	out := make([]models.GridRow, len(g.rows))
	for i, r := range g.rows {
		out[i] = models.GridRow{Media: append([]*models.MediaFile(nil), r.Media...), Price: r.Price}
	}
	return out
}

func (g *MediaGrid) CanAddRow() bool    { return len(g.rows) < g.maxRows }
func (g *MediaGrid) CanRemoveRow() bool { return len(g.rows) == 1 || len(g.rows) > g.minRows }

// HasCompleteRow reports whether some row has media and a price.
func (g *MediaGrid) HasCompleteRow() bool {
	for _, r := range g.rows {
		if r.Complete() {
			return true
		}
	}
	return false
}
