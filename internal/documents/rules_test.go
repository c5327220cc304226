package documents

import (
	"testing"
	"time"
)

func TestVoidAlwaysLocks(t *testing.T) {
	for _, docType := range []DocType{TypeQuotation, TypeProforma, TypeInvoice, TypeReceipt} {
		doc := &Document{ID: "d1", Type: docType, Status: StatusVoid}
		if !IsLocked(doc, Timeline{}) {
			t.Fatalf("void %s must be locked", docType)
		}
		full := Timeline{Quotation: quotation("q"), Invoice: invoice("i"), Receipt: receipt("r")}
		if !IsLocked(doc, full) {
			t.Fatalf("void %s must be locked regardless of timeline", docType)
		}
	}
}

func TestQuotationForwardLock(t *testing.T) {
	q := quotation("q1")

	if IsForwardLockedFromTimeline(q, Timeline{Quotation: q}) {
		t.Fatal("quotation with no later documents must not be locked")
	}

	active := invoice("i1")
	if !IsForwardLockedFromTimeline(q, Timeline{Quotation: q, Invoice: active}) {
		t.Fatal("quotation with an active invoice must be locked")
	}

	draft := invoice("i1")
	draft.Status = StatusDraft
	if !IsForwardLockedFromTimeline(q, Timeline{Quotation: q, Invoice: draft}) {
		t.Fatal("a draft invoice still counts as active for locking")
	}

	voided := invoice("i1")
	voided.Status = StatusVoid
	if IsForwardLockedFromTimeline(q, Timeline{Quotation: q, Invoice: voided}) {
		t.Fatal("quotation with only a void invoice must not be locked")
	}

	if !IsForwardLockedFromTimeline(q, Timeline{Quotation: q, Invoice: voided, Receipt: receipt("r1")}) {
		t.Fatal("an active receipt locks the quotation even when the invoice is void")
	}
}

func TestInvoiceForwardLock(t *testing.T) {
	inv := invoice("i1")

	if IsForwardLockedFromTimeline(inv, Timeline{Invoice: inv}) {
		t.Fatal("invoice without receipt must not be locked")
	}
	if !IsForwardLockedFromTimeline(inv, Timeline{Invoice: inv, Receipt: receipt("r1")}) {
		t.Fatal("invoice with an active receipt must be locked")
	}
	voided := receipt("r1")
	voided.Status = StatusVoid
	if IsForwardLockedFromTimeline(inv, Timeline{Invoice: inv, Receipt: voided}) {
		t.Fatal("invoice with only a void receipt must not be locked")
	}
}

func TestReceiptNeverForwardLocked(t *testing.T) {
	rc := receipt("r1")
	tl := Timeline{Quotation: quotation("q"), Invoice: invoice("i"), Receipt: rc}
	if IsForwardLockedFromTimeline(rc, tl) {
		t.Fatal("receipts are never forward-locked")
	}
	if IsLocked(rc, tl) {
		t.Fatal("non-void receipt must not be locked")
	}
}

func TestCanRecordPayment(t *testing.T) {
	payable := []Status{StatusAwaitingPayment, StatusOutstanding, StatusOverdue}
	for _, s := range payable {
		if !CanRecordPayment(s) {
			t.Fatalf("status %q must allow payment", s)
		}
	}
	blocked := []Status{StatusDraft, StatusAwaitingAcceptance, StatusAccepted, StatusRejected, StatusPaid, StatusVoid, StatusComplete, Status(""), Status("unknown")}
	for _, s := range blocked {
		if CanRecordPayment(s) {
			t.Fatalf("status %q must not allow payment", s)
		}
	}
}

func TestInvoiceStatusAfterReceiptVoid(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.Local)
	day := 24 * time.Hour

	yesterday := now.Add(-day)
	inv := invoice("i1")
	inv.DueDate = &yesterday
	if got := InvoiceStatusAfterReceiptVoid(inv, now); got != StatusOverdue {
		t.Fatalf("due yesterday: want %q got %q", StatusOverdue, got)
	}

	today := now.Add(-2 * time.Hour)
	inv.DueDate = &today
	if got := InvoiceStatusAfterReceiptVoid(inv, now); got != StatusAwaitingPayment {
		t.Fatalf("due today: want %q got %q", StatusAwaitingPayment, got)
	}

	tomorrow := now.Add(day)
	inv.DueDate = &tomorrow
	if got := InvoiceStatusAfterReceiptVoid(inv, now); got != StatusAwaitingPayment {
		t.Fatalf("due tomorrow: want %q got %q", StatusAwaitingPayment, got)
	}

	inv.DueDate = nil
	if got := InvoiceStatusAfterReceiptVoid(inv, now); got != StatusAwaitingPayment {
		t.Fatalf("missing due date defaults to today: want %q got %q", StatusAwaitingPayment, got)
	}

	if got := InvoiceStatusAfterReceiptVoid(nil, now); got != StatusAwaitingPayment {
		t.Fatalf("nil invoice: want %q got %q", StatusAwaitingPayment, got)
	}
}

func TestCanConvertToInvoice(t *testing.T) {
	q := quotation("q1")
	q.Status = StatusAccepted
	if !CanConvertToInvoice(q, Timeline{Quotation: q}) {
		t.Fatal("accepted quotation without invoice must be convertible")
	}

	q.Status = StatusAwaitingAcceptance
	if CanConvertToInvoice(q, Timeline{Quotation: q}) {
		t.Fatal("unaccepted quotation must not be convertible")
	}

	q.Status = StatusAccepted
	if CanConvertToInvoice(q, Timeline{Quotation: q, Invoice: invoice("i1")}) {
		t.Fatal("quotation with a resolved invoice must not be convertible")
	}

	linked := quotation("q2")
	linked.Status = StatusAccepted
	linked.LegacyConvertedToInvoiceID = strPtr("i9")
	if CanConvertToInvoice(linked, Timeline{Quotation: linked}) {
		t.Fatal("a forward alias alone blocks conversion even when the timeline is empty")
	}

	if CanConvertToInvoice(invoice("i1"), Timeline{}) {
		t.Fatal("only quotations convert to invoices")
	}
}

func TestCanCreateReceipt(t *testing.T) {
	inv := invoice("i1")
	if !CanCreateReceipt(inv, Timeline{Invoice: inv}) {
		t.Fatal("payable invoice without receipt must allow receipt creation")
	}
	if CanCreateReceipt(inv, Timeline{Invoice: inv, Receipt: receipt("r1")}) {
		t.Fatal("invoice with an existing receipt must not allow another")
	}
	inv.Status = StatusPaid
	if CanCreateReceipt(inv, Timeline{Invoice: inv}) {
		t.Fatal("paid invoice must not allow receipt creation")
	}
	inv.Status = StatusOverdue
	inv.LegacyRelatedReceiptID = strPtr("r9")
	if CanCreateReceipt(inv, Timeline{Invoice: inv}) {
		t.Fatal("a receipt alias alone blocks creation")
	}
}
