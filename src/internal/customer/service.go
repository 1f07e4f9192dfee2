package customer

import (
	"context"
	"errors"
	"strings"

	"customer-dashboard-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Authenticate(ctx context.Context, username, password string) (*Profile, error)
	GetProfile(ctx context.Context, username string) (*Profile, error)
}

type customerService struct {
	customerRepository Repository
	dummyHash          []byte
}

func NewCustomerService(customerRepository Repository) Service {
	// Compared against when the username is unknown so both failure paths cost one bcrypt run.
	dummy, err := bcrypt.GenerateFromPassword([]byte("customer-dashboard-dummy"), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Warn("Failed to generate dummy password hash")
	}

	return &customerService{
		customerRepository: customerRepository,
		dummyHash:          dummy,
	}
}

// Authenticate verifies username and password against the stored bcrypt hash.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *customerService) Authenticate(ctx context.Context, username, password string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.ErrMissingCredentials
	}

	customer, err := s.customerRepository.FindCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			logrus.WithField("username", username).Info("Login attempt for unknown username")
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !customer.HasPassword() {
		logrus.WithField("username", username).Warn("Customer record has no password hash")
		return nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("username", username).Info("Login attempt with wrong password")
		return nil, models.ErrInvalidCredentials
	}

	logrus.WithFields(logrus.Fields{
		"username":    customer.Username,
		"customer_id": customer.CustomerID,
	}).Info("Customer authenticated")

	return customer.ToProfile(), nil
}

func (s *customerService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	customer, err := s.customerRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return customer.ToProfile(), nil
}
