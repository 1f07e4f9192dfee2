package transaction

import (
	"context"

	"customer-dashboard-svc/src/internal/customer"
)

// ProfileLookup is the part of customer.Service the dashboard depends on.
type ProfileLookup interface {
	GetProfile(ctx context.Context, username string) (*customer.Profile, error)
}

type Service interface {
	GetDashboard(ctx context.Context, username, customerID string) (*Dashboard, error)
}

type transactionService struct {
	profiles     ProfileLookup
	transactions Repository
}

func NewTransactionService(profiles ProfileLookup, transactions Repository) Service {
	return &transactionService{
		profiles:     profiles,
		transactions: transactions,
	}
}

// GetDashboard re-reads the profile so a deleted customer yields ErrUserNotFound
// even while their session is still alive.
func (s *transactionService) GetDashboard(ctx context.Context, username, customerID string) (*Dashboard, error) {
	profile, err := s.profiles.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	if customerID == "" {
		customerID = profile.CustomerID
	}

	transactions, err := s.transactions.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
		AccountNumber: profile.AccountNumber,
		Transactions:  transactions,
		Stats:         Summarize(transactions),
	}, nil
}
