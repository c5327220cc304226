package documents

// The sales_documents schema accumulated multiple column aliases for each
// cross-document edge. This file is the single place declaring which
// aliases witness which edge and in which priority order they are read.
// First non-empty value wins; no reconciliation is attempted when aliases
// disagree (first-match-wins, matching the historical behaviour).

// Column names usable in reverse lookups. FindByRef implementations must
// reject anything outside this set.
const (
	ColConvertedToInvoiceID       = "converted_to_invoice_id"
	ColLegacyConvertedToInvoiceID = "convertedtoinvoiceid"
	ColRelatedQuotationID         = "related_quotation_id"
	ColRelatedInvoiceID           = "related_invoice_id"
	ColLegacyRelatedInvoiceID     = "relatedinvoiceid"
	ColRelatedReceiptID           = "related_receipt_id"
	ColLegacyRelatedReceiptID     = "relatedreceiptid"
)

// Reverse-lookup candidates per edge, tried in sequence because different
// document generations wrote different fields.
var (
	// invoice rows pointing back at a quotation
	reverseInvoiceByQuotation = []string{ColRelatedQuotationID}
	// quotation rows pointing forward at an invoice
	reverseQuotationByInvoice = []string{ColLegacyRelatedInvoiceID, ColLegacyConvertedToInvoiceID, ColConvertedToInvoiceID}
	// receipt rows pointing back at an invoice
	reverseReceiptByInvoice = []string{ColRelatedInvoiceID, ColLegacyRelatedInvoiceID}
	// invoice rows pointing forward at a receipt
	reverseInvoiceByReceipt = []string{ColRelatedReceiptID, ColLegacyRelatedReceiptID}
)

// InvoiceRefs returns the candidate invoice ids recorded on the document,
// in priority order. On quotations these are the conversion aliases; on
// receipts the back-reference to the paid invoice.
func (d *Document) InvoiceRefs() []string {
	if d == nil {
		return nil
	}
	switch d.Type {
	case TypeQuotation, TypeProforma:
		return nonEmpty(d.ConvertedToInvoiceID, d.LegacyConvertedToInvoiceID, d.RelatedInvoiceID, d.LegacyRelatedInvoiceID)
	case TypeReceipt, TypeCreditNote, TypeDebitNote:
		return nonEmpty(d.RelatedInvoiceID, d.LegacyRelatedInvoiceID)
	default:
		return nil
	}
}

// ReceiptRefs returns the candidate receipt ids recorded on an invoice.
func (d *Document) ReceiptRefs() []string {
	if d == nil || d.Type != TypeInvoice {
		return nil
	}
	return nonEmpty(d.RelatedReceiptID, d.LegacyRelatedReceiptID)
}

// QuotationRefs returns the candidate quotation ids recorded on an invoice.
func (d *Document) QuotationRefs() []string {
	if d == nil || d.Type != TypeInvoice {
		return nil
	}
	return nonEmpty(d.RelatedQuotationID)
}

func nonEmpty(candidates ...*string) []string {
	var out []string
	for _, c := range candidates {
		if c != nil && *c != "" {
			out = append(out, *c)
		}
	}
	return out
}
