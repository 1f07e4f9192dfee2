package customer

import (
	"context"
	"testing"

	"customer-dashboard-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepository struct {
	customers map[string]Customer
	err       error
}

func (f *fakeRepository) FindCredentials(_ context.Context, username string) (*Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.customers[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &c, nil
}

func (f *fakeRepository) FindByUsername(ctx context.Context, username string) (*Customer, error) {
	c, err := f.FindCredentials(ctx, username)
	if err != nil {
		return nil, err
	}
	c.PasswordHash = ""
	return c, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newFakeRepository(t *testing.T) *fakeRepository {
	return &fakeRepository{customers: map[string]Customer{
		"alice": {
			CustomerID:    "1001",
			FirstName:     "Alice",
			LastName:      "Moss",
			Username:      "alice",
			PasswordHash:  hash(t, "s3cret"),
			AccountNumber: "ACC-1",
		},
		"nopass": {CustomerID: "1002", Username: "nopass"},
	}}
}

func TestAuthenticate(t *testing.T) {
	svc := NewCustomerService(newFakeRepository(t))

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid credentials", "alice", "s3cret", nil},
		{"surrounding whitespace in username", "  alice ", "s3cret", nil},
		{"wrong password", "alice", "nope", models.ErrInvalidCredentials},
		{"unknown user", "mallory", "s3cret", models.ErrInvalidCredentials},
		{"record without hash", "nopass", "anything", models.ErrInvalidCredentials},
		{"empty username", "", "s3cret", models.ErrMissingCredentials},
		{"blank username", "   ", "s3cret", models.ErrMissingCredentials},
		{"empty password", "alice", "", models.ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := svc.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, profile)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "1001", profile.CustomerID)
			assert.Equal(t, "Alice", profile.FirstName)
			assert.Equal(t, "ACC-1", profile.AccountNumber)
		})
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	svc := NewCustomerService(&fakeRepository{err: models.ErrDatabaseQuery})

	_, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	require.ErrorIs(t, err, models.ErrDatabaseQuery)
	require.NotErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestGetProfile(t *testing.T) {
	svc := NewCustomerService(newFakeRepository(t))

	profile, err := svc.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &Profile{CustomerID: "1001", FirstName: "Alice", LastName: "Moss", Username: "alice", AccountNumber: "ACC-1"}, profile)

	_, err = svc.GetProfile(context.Background(), "ghost")
	require.ErrorIs(t, err, models.ErrUserNotFound)
}
