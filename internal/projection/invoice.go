package projection

import (
	"fmt"

	"github.com/gfranca/grana-go/internal/domain"

	"github.com/shopspring/decimal"
)

// invoiceLookback: invoices are generated from this many months before
// today so recently closed cycles stay visible.
const invoiceLookback = 2

// Invoices partitions a card's expense transactions into monthly billing
// cycles, covering a window from invoiceLookback months before today
// through months ahead.
//
// An invoice is labeled by the month containing its due date. Its closing
// date falls in the same month when closing_day < due_day, otherwise in the
// prior month, and its billing window is (previous closing date, closing
// date] — exclusive start, inclusive end. Every matching expense belongs to
// exactly one cycle.
//
// Status: CLOSED once the closing date has passed, then PAID when a
// covering payment exists (see isPaid); the first cycle that has not closed
// yet is OPEN, later ones are FUTURE. Empty invoices are dropped unless
// they are the OPEN one, so the current cycle always shows.
func Invoices(card domain.Card, transactions []domain.Transaction, months int, today domain.Date) []domain.Invoice {
	if months <= 0 {
		months = DefaultMonths
	}

	invoices := make([]domain.Invoice, 0, months+invoiceLookback)
	start := today.AddMonths(-invoiceLookback)
	openSeen := false

	for i := 0; i < months+invoiceLookback; i++ {
		target := start.AddMonths(i).MonthStart()

		dueDate := target.WithDay(card.DueDay)
		var closingDate domain.Date
		if card.ClosingDay < card.DueDay {
			closingDate = target.WithDay(card.ClosingDay)
		} else {
			closingDate = target.AddMonths(-1).WithDay(card.ClosingDay)
		}
		prevClosingDate := closingDate.AddMonths(-1)

		var member []domain.Transaction
		amount := decimal.Zero
		for _, tx := range transactions {
			if tx.CardID != card.ID || tx.Type != domain.TransactionExpense {
				continue
			}
			if tx.Date.After(prevClosingDate.Time) && !tx.Date.After(closingDate.Time) {
				member = append(member, tx)
				amount = amount.Add(tx.Amount)
			}
		}

		var status domain.InvoiceStatus
		switch {
		case closingDate.Before(today.Time):
			status = domain.InvoiceClosed
			if isPaid(card, transactions, closingDate, dueDate, amount) {
				status = domain.InvoicePaid
			}
		case !openSeen:
			status = domain.InvoiceOpen
			openSeen = true
		default:
			status = domain.InvoiceFuture
		}

		if amount.IsPositive() || status == domain.InvoiceOpen {
			invoices = append(invoices, domain.Invoice{
				ID:           fmt.Sprintf("%s-%s", card.ID, dueDate.MonthKey()),
				CardID:       card.ID,
				Month:        dueDate.MonthKey(),
				Label:        dueDate.Format("January 2006"),
				Amount:       amount,
				Status:       status,
				DueDate:      dueDate,
				ClosingDate:  closingDate,
				Transactions: member,
			})
		}
	}

	return invoices
}

// isPaid reports whether a closed invoice has a covering payment: a
// TRANSFER tagged to the card, dated after the closing date and no later
// than the due date, for at least the invoice total. Zero-amount invoices
// have nothing to pay.
func isPaid(card domain.Card, transactions []domain.Transaction, closingDate, dueDate domain.Date, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	for _, tx := range transactions {
		if tx.CardID != card.ID || tx.Type != domain.TransactionTransfer {
			continue
		}
		if tx.Date.After(closingDate.Time) && !tx.Date.After(dueDate.Time) && tx.Amount.GreaterThanOrEqual(amount) {
			return true
		}
	}
	return false
}
