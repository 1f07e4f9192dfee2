package models

// TransactionStats summarises a customer's transaction list for the dashboard header.
type TransactionStats struct {
	Count        int64   `json:"count"`
	TotalCredits float64 `json:"totalCredits"`
	TotalDebits  float64 `json:"totalDebits"`
	Net          float64 `json:"net"`
}
