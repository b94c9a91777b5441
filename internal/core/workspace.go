package core

import (
	"time"

	"github.com/JonMunkholm/barcodesheet/internal/sheet"
	"github.com/JonMunkholm/barcodesheet/internal/symbol"
)

// Workspace is an immutable snapshot of one ingestion.
type Workspace struct {
	Generation uint64
	Source     string
	LoadedAt   time.Time
	Records    []sheet.Record

	// Handles has exactly 2*len(Records) entries; see package docs.
	Handles []*symbol.Symbol
}

// NewWorkspace renders both codes of every record. Codes that cannot be
// encoded leave a nil handle.
func NewWorkspace(generation uint64, source string, records []sheet.Record, opts symbol.Options) *Workspace {
	handles := make([]*symbol.Symbol, 2*len(records))
	for i, rec := range records {
		handles[2*i] = renderOrNil(rec.PrimaryCode, opts)
		handles[2*i+1] = renderOrNil(rec.SecondaryCode, opts)
	}

	return &Workspace{
		Generation: generation,
		Source:     source,
		LoadedAt:   time.Now(),
		Records:    records,
		Handles:    handles,
	}
}

func emptyWorkspace() *Workspace {
	return &Workspace{Records: []sheet.Record{}, Handles: []*symbol.Symbol{}}
}

func renderOrNil(code string, opts symbol.Options) *symbol.Symbol {
	s, err := symbol.Render(code, opts)
	if err != nil {
		return nil
	}
	return s
}

// Len returns the number of records.
func (w *Workspace) Len() int {
	return len(w.Records)
}

// Handle returns the symbol at index, or ErrSymbolNotFound when the index is
// out of range or the code could not be rendered.
func (w *Workspace) Handle(index int) (*symbol.Symbol, error) {
	if index < 0 || index >= len(w.Handles) || w.Handles[index] == nil {
		return nil, ErrSymbolNotFound
	}
	return w.Handles[index], nil
}

// Pair returns the primary and secondary handles of record i.
func (w *Workspace) Pair(i int) (primary, secondary *symbol.Symbol) {
	return w.Handles[2*i], w.Handles[2*i+1]
}

// MissingHandles counts codes that could not be rendered.
func (w *Workspace) MissingHandles() int {
	n := 0
	for _, h := range w.Handles {
		if h == nil {
			n++
		}
	}
	return n
}
