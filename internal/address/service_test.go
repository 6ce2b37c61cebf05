package address

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
)

type memStore struct {
	dbgen.Querier
	rows []dbgen.Address
}

func (m *memStore) InTx(_ context.Context, _ db.TxOptions, fn func(q dbgen.Querier) error) error {
	snapshot := slices.Clone(m.rows)
	if err := fn(m); err != nil {
		m.rows = snapshot
		return err
	}
	return nil
}

func (m *memStore) CountAddresses(_ context.Context, customer pgtype.UUID) (int64, error) {
	var n int64
	for _, r := range m.rows {
		if r.CustomerID == customer {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ClearDefaultAddress(_ context.Context, customer pgtype.UUID) error {
	for i := range m.rows {
		if m.rows[i].CustomerID == customer {
			m.rows[i].IsDefault = false
		}
	}
	return nil
}

func (m *memStore) CreateAddress(_ context.Context, arg dbgen.CreateAddressParams) (dbgen.Address, error) {
	row := dbgen.Address{
		ID: common.PgUUID(uuid.New()), CustomerID: arg.CustomerID, Recipient: arg.Recipient, Phone: arg.Phone,
		Line1: arg.Line1, Line2: arg.Line2, City: arg.City, State: arg.State, PostalCode: arg.PostalCode,
		Country: arg.Country, IsDefault: arg.IsDefault,
	}
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memStore) GetAddress(_ context.Context, arg dbgen.GetAddressParams) (dbgen.Address, error) {
	for _, r := range m.rows {
		if r.ID == arg.ID && r.CustomerID == arg.CustomerID {
			return r, nil
		}
	}
	return dbgen.Address{}, pgx.ErrNoRows
}

func (m *memStore) ListAddresses(_ context.Context, customer pgtype.UUID) ([]dbgen.Address, error) {
	var out []dbgen.Address
	for _, r := range m.rows {
		if r.CustomerID == customer {
			out = append(out, r)
		}
	}
	return out, nil
}

func validInput() Input {
	return Input{Recipient: "Ana Reyes", Phone: "+6591234567", Line1: "1 Harbour Rd", City: "Singapore", PostalCode: "098632", Country: "sg"}
}

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	store := &memStore{}
	svc := &Service{Store: store}
	customer := uuid.New()

	first, err := svc.Create(context.Background(), customer, validInput())
	require.NoError(t, err)
	require.True(t, first.IsDefault)
	require.Equal(t, "SG", first.Country)

	second, err := svc.Create(context.Background(), customer, validInput())
	require.NoError(t, err)
	require.False(t, second.IsDefault)

	in := validInput()
	in.IsDefault = true
	third, err := svc.Create(context.Background(), customer, in)
	require.NoError(t, err)
	require.True(t, third.IsDefault)

	list, err := svc.List(context.Background(), customer)
	require.NoError(t, err)
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			require.Equal(t, third.ID, a.ID)
		}
	}
	require.Equal(t, 1, defaults)
}

func TestCreateValidates(t *testing.T) {
	svc := &Service{Store: &memStore{}}
	in := validInput()
	in.Line1 = ""
	_, err := svc.Create(context.Background(), uuid.New(), in)
	require.Error(t, err)
}

func TestGetScopedToCustomer(t *testing.T) {
	store := &memStore{}
	svc := &Service{Store: store}
	owner := uuid.New()
	addr, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	id := uuid.MustParse(addr.ID)

	got, err := svc.Get(context.Background(), owner, id)
	require.NoError(t, err)
	require.Equal(t, "Ana Reyes", got.Recipient)

	_, err = svc.Get(context.Background(), uuid.New(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateHandler(t *testing.T) {
	h := &Handler{Svc: &Service{Store: &memStore{}}}
	body := `{"recipient":"Ana","phone":"1","line1":"x","city":"y","postal_code":"1","country":"SG"}`

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/me/addresses", strings.NewReader(body)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/me/addresses", strings.NewReader(body))
	req = req.WithContext(common.WithIdentity(req.Context(), common.Identity{CustomerID: uuid.New()}))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data Address `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Data.IsDefault)

	req = httptest.NewRequest(http.MethodPost, "/me/addresses", strings.NewReader(`{"recipient":"Ana"}`))
	req = req.WithContext(common.WithIdentity(req.Context(), common.Identity{CustomerID: uuid.New()}))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
