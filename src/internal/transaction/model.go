package transaction

import (
	"time"

	"customer-dashboard-svc/src/internal/models"
)

// Transaction is a record of the transactions collection. UserID holds the
// owning customer's customer_id.
type Transaction struct {
	SerialNumber      int64     `json:"serialNumber" bson:"serial_number"`
	DateOfTransaction time.Time `json:"dateOfTransaction" bson:"date_of_transaction"`
	Description       string    `json:"description" bson:"transaction_description"`
	Amount            float64   `json:"amount" bson:"amount"`
	UserID            string    `json:"-" bson:"user_id"`
}

// IsCredit reports whether the transaction adds to the balance.
func (t Transaction) IsCredit() bool {
	return t.Amount >= 0
}

type Dashboard struct {
	FirstName     string
	LastName      string
	AccountNumber string
	Transactions  []Transaction
	Stats         models.TransactionStats
}

// Summarize totals credits and debits; debits are reported as a positive sum.
func Summarize(transactions []Transaction) models.TransactionStats {
	stats := models.TransactionStats{Count: int64(len(transactions))}
	for _, t := range transactions {
		if t.IsCredit() {
			stats.TotalCredits += t.Amount
		} else {
			stats.TotalDebits -= t.Amount
		}
	}
	stats.Net = stats.TotalCredits - stats.TotalDebits
	return stats
}
