package documents

import "time"

// Pure predicates over a document and its resolved timeline. All of them
// are total: malformed or missing fields resolve to "not locked" /
// "not allowed" rather than failing, so the UI is never blocked by a
// resolution gap.

// IsForwardLockedFromTimeline reports whether a later, active document in
// the chain blocks edits to doc. Any status other than the void sentinel
// counts as active, including drafts.
func IsForwardLockedFromTimeline(doc *Document, tl Timeline) bool {
	if doc == nil {
		return false
	}
	switch doc.Type {
	case TypeQuotation, TypeProforma:
		if tl.Invoice != nil && !tl.Invoice.IsVoid() {
			return true
		}
		if tl.Receipt != nil && !tl.Receipt.IsVoid() {
			return true
		}
		return false
	case TypeInvoice:
		return tl.Receipt != nil && !tl.Receipt.IsVoid()
	default:
		// Receipts are never forward-locked; only their own void status
		// locks them.
		return false
	}
}

// IsLocked is the overall edit lock: void always locks, and every type
// except receipts additionally locks when forward-locked.
func IsLocked(doc *Document, tl Timeline) bool {
	if doc == nil {
		return false
	}
	if doc.IsVoid() {
		return true
	}
	if doc.Type == TypeReceipt {
		return false
	}
	return IsForwardLockedFromTimeline(doc, tl)
}

// CanRecordPayment reports whether an invoice in the given status accepts
// a payment. Exactly the three payable statuses qualify.
func CanRecordPayment(status Status) bool {
	switch status {
	case StatusAwaitingPayment, StatusOutstanding, StatusOverdue:
		return true
	default:
		return false
	}
}

// InvoiceStatusAfterReceiptVoid decides which status an invoice reverts to
// when its receipt is voided: overdue when the due date is strictly before
// today (local midnight), awaiting payment otherwise. A missing due date
// defaults to today and is therefore not overdue.
func InvoiceStatusAfterReceiptVoid(invoice *Document, now time.Time) Status {
	today := midnight(now)
	due := today
	if invoice != nil && invoice.DueDate != nil {
		d := *invoice.DueDate
		due = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	}
	if due.Before(today) {
		return StatusOverdue
	}
	return StatusAwaitingPayment
}

// CanConvertToInvoice gates quotation→invoice creation: the quotation must
// be accepted and no invoice may already be linked.
func CanConvertToInvoice(q *Document, tl Timeline) bool {
	if q == nil {
		return false
	}
	if q.Type != TypeQuotation && q.Type != TypeProforma {
		return false
	}
	if q.Status != StatusAccepted {
		return false
	}
	return tl.Invoice == nil && len(q.InvoiceRefs()) == 0
}

// CanCreateReceipt gates invoice→receipt creation: the invoice must be in
// a payable status and no receipt may already be linked.
func CanCreateReceipt(inv *Document, tl Timeline) bool {
	if inv == nil || inv.Type != TypeInvoice {
		return false
	}
	if !CanRecordPayment(inv.Status) {
		return false
	}
	return tl.Receipt == nil && len(inv.ReceiptRefs()) == 0
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
