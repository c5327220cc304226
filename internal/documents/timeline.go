package documents

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Timeline is the resolved quotation→invoice→receipt chain around one
// document. It is derived on demand and never persisted.
type Timeline struct {
	Quotation *Document `json:"quotation,omitempty"`
	Invoice   *Document `json:"invoice,omitempty"`
	Receipt   *Document `json:"receipt,omitempty"`
}

// Store is the read boundary the resolver needs: point lookups, reverse
// equality scans on alias columns, and the server-side aggregate RPC.
type Store interface {
	Get(ctx context.Context, id string) (*Document, error)
	// FindByRef returns the newest document of docType whose column field
	// equals docID, or nil when none matches.
	FindByRef(ctx context.Context, docType DocType, field, docID string) (*Document, error)
	// TimelineRPC invokes get_document_timeline and returns its raw payload.
	TimelineRPC(ctx context.Context, docID string) (json.RawMessage, error)
}

// Resolver finds the sibling documents of a sales document, preferring the
// server-side aggregate and degrading to alias-field walks.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the best-effort timeline containing doc. It never
// returns an error: an RPC failure degrades to a timeline holding only
// the input document, and enrichment failures are swallowed.
func (r *Resolver) Resolve(ctx context.Context, doc *Document) Timeline {
	if doc == nil {
		return Timeline{}
	}

	var tl Timeline
	raw, err := r.store.TimelineRPC(ctx, doc.ID)
	if err != nil {
		if r.logger != nil {
			r.logger.Debug("timeline rpc unavailable", slog.String("doc_id", doc.ID), slog.Any("error", err))
		}
	} else {
		for _, related := range decodeTimelinePayload(raw) {
			tl.place(related)
		}
	}

	// The input document always occupies its own slot as a default; a
	// sibling resolved by the RPC for the same slot is not overwritten.
	tl.place(doc)

	r.enrich(ctx, &tl)
	return tl
}

// place fills the slot for doc unless already occupied.
func (tl *Timeline) place(doc *Document) {
	if doc == nil {
		return
	}
	slot, ok := doc.slot()
	if !ok {
		return
	}
	switch slot {
	case TypeQuotation:
		if tl.Quotation == nil {
			tl.Quotation = doc
		}
	case TypeInvoice:
		if tl.Invoice == nil {
			tl.Invoice = doc
		}
	case TypeReceipt:
		if tl.Receipt == nil {
			tl.Receipt = doc
		}
	}
}

// decodeTimelinePayload interprets the loosely-shaped RPC result. The
// function is total: every unrecognized shape decodes to nothing.
func decodeTimelinePayload(raw json.RawMessage) []*Document {
	if len(raw) == 0 {
		return nil
	}

	var docs []*Document
	if err := json.Unmarshal(raw, &docs); err == nil {
		return compact(docs)
	}

	var wrapped struct {
		Document *Document `json:"document"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Document != nil && wrapped.Document.Type != "" {
		return []*Document{wrapped.Document}
	}

	var single Document
	if err := json.Unmarshal(raw, &single); err == nil && single.Type != "" {
		return []*Document{&single}
	}

	return nil
}

func compact(docs []*Document) []*Document {
	out := docs[:0]
	for _, d := range docs {
		if d != nil && d.Type != "" {
			out = append(out, d)
		}
	}
	return out
}

// enrich walks alias fields to fill missing slots. Every lookup is
// best-effort: a failed fetch leaves the slot empty and resolution
// continues with the next candidate.
func (r *Resolver) enrich(ctx context.Context, tl *Timeline) {
	// Invoice first: it anchors both remaining edges.
	if tl.Invoice == nil && tl.Quotation != nil {
		tl.Invoice = r.follow(ctx, TypeInvoice, tl.Quotation.InvoiceRefs(), reverseInvoiceByQuotation, tl.Quotation.ID)
	}
	if tl.Invoice == nil && tl.Receipt != nil {
		tl.Invoice = r.follow(ctx, TypeInvoice, tl.Receipt.InvoiceRefs(), reverseInvoiceByReceipt, tl.Receipt.ID)
	}
	if tl.Quotation == nil && tl.Invoice != nil {
		tl.Quotation = r.follow(ctx, TypeQuotation, tl.Invoice.QuotationRefs(), reverseQuotationByInvoice, tl.Invoice.ID)
	}
	if tl.Receipt == nil && tl.Invoice != nil {
		tl.Receipt = r.follow(ctx, TypeReceipt, tl.Invoice.ReceiptRefs(), reverseReceiptByInvoice, tl.Invoice.ID)
	}
}

// follow resolves one edge: direct id lookups on the forward aliases take
// priority over reverse scans, and within each list the first hit wins.
func (r *Resolver) follow(ctx context.Context, want DocType, forward []string, reverse []string, selfID string) *Document {
	for _, id := range forward {
		doc, err := r.store.Get(ctx, id)
		if err != nil || doc == nil {
			continue
		}
		if slot, ok := doc.slot(); ok && slot == want {
			return doc
		}
	}
	for _, field := range reverse {
		doc, err := r.store.FindByRef(ctx, want, field, selfID)
		if err != nil || doc == nil {
			continue
		}
		return doc
	}
	return nil
}
