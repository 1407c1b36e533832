package catalog

import (
	"context"
	"log/slog"

	"github.com/tvmanh/goshop/internal/catalog/search"
	"github.com/tvmanh/goshop/internal/domain"
)

// ChangeKind names the mutation that triggered a mirror write.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota
	ChangeUpdated
	ChangeDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Mirror is the index synchronizer: after a product mutation commits in the
// record store, it pushes the corresponding document change into the search
// index. The mirror is strictly best-effort: a failure is logged and
// swallowed, never surfaced to the caller and never rolled back into the
// primary write. Writes are keyed by product id, so repeating one is a
// no-op for readers.
type Mirror struct {
	searcher search.Searcher
	logger   *slog.Logger
}

// NewMirror creates a Mirror. A nil searcher produces a mirror whose
// ProductChanged is a no-op, for deployments without a search index.
func NewMirror(searcher search.Searcher, logger *slog.Logger) *Mirror {
	return &Mirror{
		searcher: searcher,
		logger:   logger.With("component", "mirror"),
	}
}

// ProductChanged mirrors one committed mutation into the search index.
// Create and update overwrite the document; delete removes it. Runs on the
// caller's goroutine so the mirror attempt is finished when this returns.
func (m *Mirror) ProductChanged(ctx context.Context, p domain.Product, kind ChangeKind) {
	if m.searcher == nil {
		return
	}

	var err error
	switch kind {
	case ChangeDeleted:
		err = m.searcher.DeleteProduct(ctx, p.ID)
	default:
		err = m.searcher.IndexProduct(ctx, p)
	}
	if err != nil {
		m.logger.WarnContext(ctx, "best-effort index mirroring failed",
			"product_id", p.ID,
			"change", kind.String(),
			"error", err,
		)
	}
}
