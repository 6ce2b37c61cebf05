package address

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
)

// ErrNotFound is returned for addresses that do not exist or belong to someone else.
var ErrNotFound = errors.New("address not found")

// Store is the persistence surface of the address book.
type Store interface {
	dbgen.Querier
	InTx(ctx context.Context, opts db.TxOptions, fn func(q dbgen.Querier) error) error
}

// Address represents a customer address in API-friendly format.
type Address struct {
	ID         string    `json:"id"`
	Recipient  string    `json:"recipient"`
	Phone      string    `json:"phone"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

// Input captures the payload for creating an address.
type Input struct {
	Recipient  string `json:"recipient" validate:"required,max=120"`
	Phone      string `json:"phone" validate:"required,max=32"`
	Line1      string `json:"line1" validate:"required,max=200"`
	Line2      string `json:"line2" validate:"max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,len=2"`
	IsDefault  bool   `json:"is_default"`
}

// Service orchestrates address book operations.
type Service struct {
	Store Store
}

// List returns the customer's addresses, default first.
func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]Address, error) {
	rows, err := s.Store.ListAddresses(ctx, common.PgUUID(customerID))
	if err != nil {
		return nil, err
	}
	out := make([]Address, 0, len(rows))
	for _, row := range rows {
		out = append(out, convertAddress(row))
	}
	return out, nil
}

// Get returns one of the customer's addresses.
func (s *Service) Get(ctx context.Context, customerID, addressID uuid.UUID) (Address, error) {
	row, err := s.Store.GetAddress(ctx, dbgen.GetAddressParams{ID: common.PgUUID(addressID), CustomerID: common.PgUUID(customerID)})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Address{}, fmt.Errorf("address %s: %w", addressID, ErrNotFound)
		}
		return Address{}, err
	}
	return convertAddress(row), nil
}

// Create inserts a new address. The first address becomes the default, and
// a new default clears the previous one in the same transaction.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, in Input) (Address, error) {
	if err := common.ValidateStruct(in); err != nil {
		return Address{}, err
	}
	customer := common.PgUUID(customerID)
	var created dbgen.Address
	err := s.Store.InTx(ctx, db.TxOptions{}, func(q dbgen.Querier) error {
		count, err := q.CountAddresses(ctx, customer)
		if err != nil {
			return err
		}
		isDefault := in.IsDefault || count == 0
		if isDefault && count > 0 {
			if err := q.ClearDefaultAddress(ctx, customer); err != nil {
				return err
			}
		}
		created, err = q.CreateAddress(ctx, dbgen.CreateAddressParams{
			CustomerID: customer,
			Recipient:  strings.TrimSpace(in.Recipient),
			Phone:      strings.TrimSpace(in.Phone),
			Line1:      strings.TrimSpace(in.Line1),
			Line2:      common.Text(strings.TrimSpace(in.Line2)),
			City:       strings.TrimSpace(in.City),
			State:      strings.TrimSpace(in.State),
			PostalCode: strings.TrimSpace(in.PostalCode),
			Country:    strings.ToUpper(strings.TrimSpace(in.Country)),
			IsDefault:  isDefault,
		})
		return err
	})
	if err != nil {
		return Address{}, err
	}
	return convertAddress(created), nil
}

func convertAddress(row dbgen.Address) Address {
	return Address{
		ID:         common.UUIDString(row.ID),
		Recipient:  row.Recipient,
		Phone:      row.Phone,
		Line1:      row.Line1,
		Line2:      row.Line2.String,
		City:       row.City,
		State:      row.State,
		PostalCode: row.PostalCode,
		Country:    row.Country,
		IsDefault:  row.IsDefault,
		CreatedAt:  row.CreatedAt.Time,
	}
}
