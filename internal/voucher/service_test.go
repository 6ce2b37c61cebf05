package voucher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
)

type stubQueries struct {
	mu         sync.Mutex
	vouchers   map[string]dbgen.Voucher
	usageCount int64
	orderCount int64
	usages     []dbgen.InsertVoucherUsageParams
	createErr  error
}

func newStub(vs ...dbgen.Voucher) *stubQueries {
	s := &stubQueries{vouchers: map[string]dbgen.Voucher{}}
	for _, v := range vs {
		s.vouchers[v.Code] = v
	}
	return s
}

func (s *stubQueries) GetVoucherByCode(ctx context.Context, code string) (dbgen.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vouchers[code]
	if !ok {
		return dbgen.Voucher{}, pgx.ErrNoRows
	}
	return v, nil
}

func (s *stubQueries) CountVoucherUsageByCustomer(ctx context.Context, arg dbgen.CountVoucherUsageByCustomerParams) (int64, error) {
	return s.usageCount, nil
}

func (s *stubQueries) CountOrdersByCustomer(ctx context.Context, customerID pgtype.UUID) (int64, error) {
	return s.orderCount, nil
}

func (s *stubQueries) CreateVoucher(ctx context.Context, arg dbgen.CreateVoucherParams) (dbgen.Voucher, error) {
	if s.createErr != nil {
		return dbgen.Voucher{}, s.createErr
	}
	v := dbgen.Voucher{
		ID:            uuidToPg(uuid.New()),
		Code:          arg.Code,
		Name:          arg.Name,
		DiscountType:  arg.DiscountType,
		DiscountValue: arg.DiscountValue,
		MinSpend:      arg.MinSpend,
		ValidFrom:     arg.ValidFrom,
		ValidUntil:    arg.ValidUntil,
		MaxUses:       arg.MaxUses,
		CustomerID:    arg.CustomerID,
		IsActive:      arg.IsActive,

		FirstTimeOnly:         arg.FirstTimeOnly,
		ExcludeSaleItems:      arg.ExcludeSaleItems,
		ApplicableProductIds:  arg.ApplicableProductIds,
		ApplicableCategoryIds: arg.ApplicableCategoryIds,
	}
	s.vouchers[v.Code] = v
	return v, nil
}

func (s *stubQueries) UpdateVoucher(ctx context.Context, arg dbgen.UpdateVoucherParams) (dbgen.Voucher, error) {
	v, ok := s.vouchers[arg.Code]
	if !ok {
		return dbgen.Voucher{}, pgx.ErrNoRows
	}
	v.Name = arg.Name
	v.DiscountValue = arg.DiscountValue
	s.vouchers[arg.Code] = v
	return v, nil
}

func (s *stubQueries) DeactivateVoucher(ctx context.Context, code string) (int64, error) {
	v, ok := s.vouchers[code]
	if !ok {
		return 0, nil
	}
	v.IsActive = false
	s.vouchers[code] = v
	return 1, nil
}

// ClaimVoucherUse mirrors the conditional UPDATE: no row once max_uses is reached.
func (s *stubQueries) ClaimVoucherUse(ctx context.Context, id pgtype.UUID) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, v := range s.vouchers {
		if v.ID != id {
			continue
		}
		if v.MaxUses.Valid && v.UsedCount >= v.MaxUses.Int32 {
			return 0, pgx.ErrNoRows
		}
		v.UsedCount++
		s.vouchers[code] = v
		return v.UsedCount, nil
	}
	return 0, pgx.ErrNoRows
}

func (s *stubQueries) InsertVoucherUsage(ctx context.Context, arg dbgen.InsertVoucherUsageParams) error {
	s.usages = append(s.usages, arg)
	return nil
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newVoucher(code string, kind dbgen.DiscountType, value int64) dbgen.Voucher {
	return dbgen.Voucher{
		ID:            uuidToPg(uuid.New()),
		Code:          code,
		Name:          code,
		DiscountType:  kind,
		DiscountValue: value,
		ValidFrom:     pgtype.Timestamptz{Time: fixedNow.Add(-time.Hour), Valid: true},
		ValidUntil:    pgtype.Timestamptz{Time: fixedNow.Add(time.Hour), Valid: true},
		IsActive:      true,
	}
}

func uuidToPg(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func newService(q Querier) *Service {
	return &Service{Q: q, Now: func() time.Time { return fixedNow }, DefaultPerCustomerLimit: 1}
}

func TestPreviewIsCaseInsensitive(t *testing.T) {
	svc := newService(newStub(newVoucher("SAVE10", dbgen.DiscountTypePercentage, 1000)))
	res, err := svc.Preview(context.Background(), " save10 ", uuid.New(), 15_000)
	require.NoError(t, err)
	require.Equal(t, "SAVE10", res.Code)
	require.Equal(t, int64(1_500), res.Discount)
}

func TestPreviewUnknownCodeIsNotEligible(t *testing.T) {
	svc := newService(newStub())
	_, err := svc.Preview(context.Background(), "NOPE", uuid.New(), 15_000)
	require.ErrorIs(t, err, ErrNotEligible)
}

func TestPreviewPerCustomerLimit(t *testing.T) {
	stub := newStub(newVoucher("ONCE", dbgen.DiscountTypeFixed, 500))
	stub.usageCount = 1
	_, err := newService(stub).Preview(context.Background(), "ONCE", uuid.New(), 10_000)
	require.ErrorIs(t, err, ErrExhaustedUses)
}

func TestPreviewDoesNotConsumeUses(t *testing.T) {
	v := newVoucher("LIMITED", dbgen.DiscountTypeFixed, 500)
	v.MaxUses = pgtype.Int4{Int32: 1, Valid: true}
	stub := newStub(v)
	svc := newService(stub)
	for i := 0; i < 5; i++ {
		_, err := svc.Preview(context.Background(), "LIMITED", uuid.Nil, 10_000)
		require.NoError(t, err)
	}
	require.Equal(t, int32(0), stub.vouchers["LIMITED"].UsedCount)
}

func TestClaimNeverExceedsMaxUses(t *testing.T) {
	v := newVoucher("RACE", dbgen.DiscountTypeFixed, 500)
	v.MaxUses = pgtype.Int4{Int32: 3, Valid: true}
	stub := newStub(v)
	svc := newService(stub)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Claim(context.Background(), uuid.UUID(v.ID.Bytes)); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 3, wins)
	require.Equal(t, int32(3), stub.vouchers["RACE"].UsedCount)
}

func TestCreateNormalisesAndRejectsDuplicates(t *testing.T) {
	stub := newStub()
	svc := newService(stub)
	in := Input{
		Code:          "summer25",
		Name:          "Summer",
		DiscountType:  Percentage,
		DiscountValue: 2500,
		ValidFrom:     fixedNow,
		ValidUntil:    fixedNow.Add(24 * time.Hour),
	}
	v, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "SUMMER25", v.Code)
	require.True(t, v.IsActive)

	stub.createErr = &pgconn.PgError{Code: "23505"}
	_, err = svc.Create(context.Background(), in)
	require.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newService(newStub())
	_, err := svc.Create(context.Background(), Input{
		Code:          "BIG",
		Name:          "Too big",
		DiscountType:  Percentage,
		DiscountValue: 12_000,
		ValidFrom:     fixedNow,
		ValidUntil:    fixedNow.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), Input{Code: "X", Name: "bad window", DiscountType: Fixed, DiscountValue: 1, ValidFrom: fixedNow, ValidUntil: fixedNow.Add(-time.Hour)})
	require.True(t, common.IsAppError(err))
}

func TestPreviewFirstTimeOnly(t *testing.T) {
	v := newVoucher("WELCOME", dbgen.DiscountTypePercentage, 1000)
	v.FirstTimeOnly = true
	stub := newStub(v)
	svc := newService(stub)

	res, err := svc.Preview(context.Background(), "WELCOME", uuid.New(), 10_000)
	require.NoError(t, err)
	require.Equal(t, int64(1_000), res.Discount)

	stub.orderCount = 1
	_, err = svc.Preview(context.Background(), "WELCOME", uuid.New(), 10_000)
	require.ErrorIs(t, err, ErrNotEligible)

	stub.orderCount = 0
	_, err = svc.Preview(context.Background(), "WELCOME", uuid.Nil, 10_000)
	require.ErrorIs(t, err, ErrNotEligible)
}

func TestEvaluateItemsHonoursCategoryScope(t *testing.T) {
	shoes := uuid.New()
	v := newVoucher("SHOES", dbgen.DiscountTypePercentage, 2000)
	v.ApplicableCategoryIds = []pgtype.UUID{uuidToPg(shoes)}
	svc := newService(newStub(v))

	items := []Item{
		{ProductID: uuid.New(), CategoryID: shoes, Amount: 6_000},
		{ProductID: uuid.New(), CategoryID: uuid.New(), Amount: 4_000},
	}
	_, discount, err := svc.EvaluateItems(context.Background(), "SHOES", uuid.New(), items)
	require.NoError(t, err)
	require.Equal(t, int64(1_200), discount)

	_, _, err = svc.EvaluateItems(context.Background(), "SHOES", uuid.New(), items[1:])
	require.ErrorIs(t, err, ErrNotEligible)
}

func TestCreateFreeShippingAndScope(t *testing.T) {
	stub := newStub()
	svc := newService(stub)
	product := uuid.New()
	v, err := svc.Create(context.Background(), Input{
		Code:             "shipfree",
		Name:             "Free shipping",
		DiscountType:     FreeShipping,
		ValidFrom:        fixedNow,
		ValidUntil:       fixedNow.Add(time.Hour),
		ExcludeSaleItems: true,
		Products:         []string{product.String()},
	})
	require.NoError(t, err)
	rule := RuleFromModel(v)
	require.True(t, rule.WaivesShipping())
	require.True(t, rule.ExcludeSaleItems)
	require.Equal(t, []uuid.UUID{product}, rule.ApplicableProducts)

	_, err = svc.Create(context.Background(), Input{
		Code: "zero", Name: "zero", DiscountType: Fixed, ValidFrom: fixedNow, ValidUntil: fixedNow.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeactivateUnknown(t *testing.T) {
	err := newService(newStub()).Deactivate(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPreviewHandlerReportsReason(t *testing.T) {
	v := newVoucher("LATE", dbgen.DiscountTypeFixed, 500)
	v.ValidUntil = pgtype.Timestamptz{Time: fixedNow.Add(-time.Minute), Valid: true}
	h := &Handler{Svc: newService(newStub(v))}

	req := httptest.NewRequest(http.MethodPost, "/vouchers/preview", strings.NewReader(`{"code":"late","subtotal":10000}`))
	req = req.WithContext(common.WithIdentity(req.Context(), common.Identity{CustomerID: uuid.New()}))
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_VOUCHER", body.Error.Code)
	require.Equal(t, ReasonExpired, body.Error.Details["reason"])
}
