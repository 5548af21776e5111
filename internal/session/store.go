// Package session owns the live order form state and the batch of
// accumulated orders for one entry session. All transitions run
// synchronously on the caller's goroutine; Store is not safe for
// concurrent use.
package session

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pedidos/internal"
	"pedidos/internal/field"
	"pedidos/internal/subject"
)

type Store struct {
	log *zap.Logger

	header      internal.OrderHeader
	items       []internal.LineItem
	accumulated []internal.OrderRecord
	current     int

	now func() time.Time
}

// New starts a session with a single blank order at index 0.
func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{log: log, now: time.Now}
	s.items = []internal.LineItem{blankItem()}
	s.accumulated = []internal.OrderRecord{s.snapshot()}
	s.current = 0
	return s
}

func blankItem() internal.LineItem {
	return internal.LineItem{ID: uuid.NewString()}
}

func (s *Store) snapshot() internal.OrderRecord {
	return internal.OrderRecord{Header: s.header, Items: internal.CloneItems(s.items)}
}

// Header returns the live header.
func (s *Store) Header() internal.OrderHeader {
	return s.header
}

// Items returns a copy of the live item sequence.
func (s *Store) Items() []internal.LineItem {
	return internal.CloneItems(s.items)
}

// Accumulated returns a deep copy of every accumulated order.
func (s *Store) Accumulated() []internal.OrderRecord {
	return internal.CloneOrders(s.accumulated)
}

func (s *Store) CurrentIndex() int {
	return s.current
}

// CommitHeaderField normalizes and stores a committed header value,
// returning the stored form. Changing the supplier re-derives the
// subject.
func (s *Store) CommitHeaderField(fieldName, raw string) string {
	normalized := field.Normalize(fieldName, raw)
	switch fieldName {
	case internal.FieldReDestinatarios:
		s.header.ReDestinatarios = normalized
		s.resyncSubject()
	case internal.FieldDeNombrePais:
		s.header.DeNombrePais = normalized
	case internal.FieldNave:
		s.header.Nave = normalized
	case internal.FieldFechaCarga:
		s.header.FechaCarga = normalized
	case internal.FieldExporta:
		s.header.Exporta = normalized
	case internal.FieldEmailSubject:
		s.header.EmailSubject = normalized
	default:
		s.log.Warn("commit on unknown header field", zap.String("field", fieldName))
	}
	return normalized
}

// CommitItemField normalizes and stores a committed line-item value.
// Changing the first item's species re-derives the subject. Reports
// false when the item id is unknown.
func (s *Store) CommitItemField(id, fieldName, raw string) (string, bool) {
	idx := s.itemIndex(id)
	if idx < 0 {
		s.log.Warn("commit on unknown item", zap.String("id", id), zap.String("field", fieldName))
		return "", false
	}
	normalized := field.Normalize(fieldName, raw)
	item := &s.items[idx]
	switch fieldName {
	case internal.FieldPallets:
		item.Pallets = normalized
	case internal.FieldEspecie:
		item.Especie = normalized
		if idx == 0 {
			s.resyncSubject()
		}
	case internal.FieldVariedad:
		item.Variedad = normalized
	case internal.FieldFormato:
		item.Formato = normalized
	case internal.FieldCalibre:
		item.Calibre = normalized
	case internal.FieldCategoria:
		item.Categoria = normalized
	case internal.FieldPreciosFOB:
		item.PreciosFOB = normalized
	default:
		s.log.Warn("commit on unknown item field", zap.String("field", fieldName))
		return "", false
	}
	return normalized, true
}

// SaveObservation stores a free-text observation on an item, sentence
// cased. Rejected while the item is canceled: the slot is occupied by
// the CANCELADO sentinel.
func (s *Store) SaveObservation(id, text string) (string, bool) {
	idx := s.itemIndex(id)
	if idx < 0 {
		s.log.Warn("observation on unknown item", zap.String("id", id))
		return "", false
	}
	if s.items[idx].IsCanceled {
		s.log.Warn("observation rejected on canceled item", zap.String("id", id))
		return s.items[idx].Estado, false
	}
	normalized := field.NormalizeObservation(text)
	s.items[idx].Estado = normalized
	return normalized, true
}

// resyncSubject recomputes the derived subject from the live supplier
// and first-item species and overwrites the stored value when it
// differs. A manually edited subject therefore survives only until the
// next dependency change; make this sticky here if product intent ever
// calls for a permanent manual override.
func (s *Store) resyncSubject() {
	species := ""
	if len(s.items) > 0 {
		species = s.items[0].Especie
	}
	generated := subject.ForOrder(s.now(), s.header.ReDestinatarios, species)
	if generated == s.header.EmailSubject {
		return
	}
	s.header.EmailSubject = generated
}

// SaveLive overwrites the accumulated record at the current index with
// a deep copy of the live state. Idempotent.
func (s *Store) SaveLive() {
	if s.current < 0 || s.current >= len(s.accumulated) {
		s.log.Warn("save with current index out of range", zap.Int("index", s.current))
		return
	}
	s.accumulated[s.current] = s.snapshot()
}

// AddOrder saves the live order and opens a fresh one that keeps only
// the supplier name. The new order becomes current.
func (s *Store) AddOrder() {
	s.SaveLive()
	supplier := s.header.ReDestinatarios
	s.header = internal.OrderHeader{ReDestinatarios: supplier}
	s.items = []internal.LineItem{blankItem()}
	s.accumulated = append(s.accumulated, s.snapshot())
	s.current = len(s.accumulated) - 1
}

// GoToPrevious moves editing to the previous order. Reports false at
// the first order.
func (s *Store) GoToPrevious() bool {
	if s.current <= 0 {
		s.log.Debug("already at first order")
		return false
	}
	s.SaveLive()
	s.loadIndex(s.current - 1)
	return true
}

// GoToNext moves editing to the next order. Reports false at the last
// order.
func (s *Store) GoToNext() bool {
	if s.current >= len(s.accumulated)-1 {
		s.log.Debug("already at last order")
		return false
	}
	s.SaveLive()
	s.loadIndex(s.current + 1)
	return true
}

func (s *Store) loadIndex(index int) {
	record := s.accumulated[index]
	s.header = record.Header
	s.items = internal.CloneItems(record.Items)
	s.current = index
}

// DuplicateItem inserts a copy of the source item, with a new id and
// cancellation cleared, immediately after it. Reports false when the
// source id is unknown.
func (s *Store) DuplicateItem(sourceID string) bool {
	idx := s.itemIndex(sourceID)
	if idx < 0 {
		s.log.Warn("duplicate of unknown item", zap.String("id", sourceID))
		return false
	}
	clone := s.items[idx]
	clone.ID = uuid.NewString()
	clone.IsCanceled = false
	if clone.Estado == internal.EstadoCancelado {
		clone.Estado = ""
	}
	s.items = append(s.items[:idx+1], append([]internal.LineItem{clone}, s.items[idx+1:]...)...)
	return true
}

// DeleteItem removes an item from the live order. Deleting the sole
// remaining item is refused.
func (s *Store) DeleteItem(id string) bool {
	if len(s.items) == 1 {
		s.log.Warn("delete of last remaining item refused", zap.String("id", id))
		return false
	}
	idx := s.itemIndex(id)
	if idx < 0 {
		s.log.Warn("delete of unknown item", zap.String("id", id))
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return true
}

// ToggleCancel flips an item's cancellation. Canceling forces the
// CANCELADO sentinel into Estado; restoring clears Estado entirely,
// cancellation and observation share the one slot.
func (s *Store) ToggleCancel(id string) bool {
	idx := s.itemIndex(id)
	if idx < 0 {
		s.log.Warn("cancel toggle on unknown item", zap.String("id", id))
		return false
	}
	item := &s.items[idx]
	item.IsCanceled = !item.IsCanceled
	if item.IsCanceled {
		item.Estado = internal.EstadoCancelado
	} else {
		item.Estado = ""
	}
	return true
}

// TotalPallets sums the pallet counts of non-canceled live items.
// Unparsable counts contribute 0.
func (s *Store) TotalPallets() float64 {
	total := 0.0
	for _, item := range s.items {
		if item.IsCanceled {
			continue
		}
		total += field.ParsePallets(item.Pallets)
	}
	return total
}

// PrefillItems replaces the live item sequence with normalized copies
// of the given raw items, minting fresh ids. An empty input leaves a
// single blank item so the order invariant holds.
func (s *Store) PrefillItems(raw []internal.LineItem) {
	if len(raw) == 0 {
		s.items = []internal.LineItem{blankItem()}
		s.resyncSubject()
		return
	}
	items := make([]internal.LineItem, 0, len(raw))
	for _, r := range raw {
		item := internal.LineItem{
			ID:         uuid.NewString(),
			Pallets:    field.Normalize(internal.FieldPallets, r.Pallets),
			Especie:    field.Normalize(internal.FieldEspecie, r.Especie),
			Variedad:   field.Normalize(internal.FieldVariedad, r.Variedad),
			Formato:    field.Normalize(internal.FieldFormato, r.Formato),
			Calibre:    field.Normalize(internal.FieldCalibre, r.Calibre),
			Categoria:  field.Normalize(internal.FieldCategoria, r.Categoria),
			PreciosFOB: field.Normalize(internal.FieldPreciosFOB, r.PreciosFOB),
		}
		if r.IsCanceled {
			item.IsCanceled = true
			item.Estado = internal.EstadoCancelado
		} else {
			item.Estado = field.NormalizeObservation(r.Estado)
		}
		items = append(items, item)
	}
	s.items = items
	s.resyncSubject()
}

// FinalizeAndReset saves the live order, returns the full batch for
// export and restarts the session with one blank order. Every export
// ends the session.
func (s *Store) FinalizeAndReset() []internal.OrderRecord {
	s.SaveLive()
	out := internal.CloneOrders(s.accumulated)
	s.header = internal.OrderHeader{}
	s.items = []internal.LineItem{blankItem()}
	s.accumulated = []internal.OrderRecord{s.snapshot()}
	s.current = 0
	return out
}

func (s *Store) itemIndex(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
