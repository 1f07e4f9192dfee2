package customer

import (
	"time"
)

// Customer is a record of the user_records collection. PasswordHash is only
// populated by credential lookups.
type Customer struct {
	CustomerID       string    `json:"customerId" bson:"customer_id"`
	FirstName        string    `json:"firstName" bson:"first_name"`
	LastName         string    `json:"lastName" bson:"last_name"`
	Username         string    `json:"username" bson:"username"`
	PasswordHash     string    `json:"-" bson:"password,omitempty"`
	AccountNumber    string    `json:"accountNumber,omitempty" bson:"account_number,omitempty"`
	RegistrationDate time.Time `json:"registrationDate,omitempty" bson:"registration_date,omitempty"`
}

type Profile struct {
	CustomerID    string `json:"customerId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// LoginRequest is bound from the login form or a JSON body.
type LoginRequest struct {
	UserID   string `json:"userId" form:"userId"`
	Password string `json:"password" form:"password"`
}

// ToProfile converts Customer to Profile
func (c *Customer) ToProfile() *Profile {
	return &Profile{
		CustomerID:    c.CustomerID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Username:      c.Username,
		AccountNumber: c.AccountNumber,
	}
}

// HasPassword reports whether a credential hash was loaded for the customer.
func (c *Customer) HasPassword() bool {
	return c.PasswordHash != ""
}
