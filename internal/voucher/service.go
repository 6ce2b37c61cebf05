package voucher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/obs"
	"github.com/richardprab/auroramart/internal/pricing"
)

var (
	// ErrDuplicateCode is returned when creating a voucher whose code already exists.
	ErrDuplicateCode = errors.New("voucher code already exists")
	// ErrInvalidInput reports an admin payload that violates voucher constraints.
	ErrInvalidInput = errors.New("invalid voucher input")
)

// Querier captures the database methods required by the voucher service.
type Querier interface {
	GetVoucherByCode(ctx context.Context, code string) (dbgen.Voucher, error)
	CountVoucherUsageByCustomer(ctx context.Context, arg dbgen.CountVoucherUsageByCustomerParams) (int64, error)
	CreateVoucher(ctx context.Context, arg dbgen.CreateVoucherParams) (dbgen.Voucher, error)
	UpdateVoucher(ctx context.Context, arg dbgen.UpdateVoucherParams) (dbgen.Voucher, error)
	DeactivateVoucher(ctx context.Context, code string) (int64, error)
	ClaimVoucherUse(ctx context.Context, id pgtype.UUID) (int32, error)
	InsertVoucherUsage(ctx context.Context, arg dbgen.InsertVoucherUsageParams) error
	CountOrdersByCustomer(ctx context.Context, customerID pgtype.UUID) (int64, error)
}

// PreviewResult describes the outcome of evaluating a voucher without mutating state.
type PreviewResult struct {
	Code         string        `json:"code"`
	Subtotal     pricing.Money `json:"subtotal"`
	Discount     pricing.Money `json:"discount"`
	FreeShipping bool          `json:"free_shipping,omitempty"`
}

// Input is the admin payload for creating or updating a voucher.
type Input struct {
	Code               string       `json:"code" validate:"required,max=40"`
	Name               string       `json:"name" validate:"required,max=120"`
	Description        string       `json:"description" validate:"max=2000"`
	DiscountType       DiscountType `json:"discount_type" validate:"required,oneof=percentage fixed free_shipping"`
	DiscountValue      int64        `json:"discount_value" validate:"gte=0"`
	MaxDiscount        *int64       `json:"max_discount" validate:"omitempty,gte=0"`
	MinSpend           int64        `json:"min_spend" validate:"gte=0"`
	ValidFrom          time.Time    `json:"valid_from" validate:"required"`
	ValidUntil         time.Time    `json:"valid_until" validate:"required,gtfield=ValidFrom"`
	MaxUses            *int32       `json:"max_uses" validate:"omitempty,gte=1"`
	MaxUsesPerCustomer *int32       `json:"max_uses_per_customer" validate:"omitempty,gte=1"`
	CustomerID         *string      `json:"customer_id" validate:"omitempty,uuid"`
	IsActive           *bool        `json:"is_active"`
	FirstTimeOnly      bool         `json:"first_time_only"`
	ExcludeSaleItems   bool         `json:"exclude_sale_items"`
	Products           []string     `json:"applicable_products" validate:"omitempty,dive,uuid"`
	Categories         []string     `json:"applicable_categories" validate:"omitempty,dive,uuid"`
}

// Service encapsulates voucher lookup, evaluation, claiming and administration.
type Service struct {
	Q                       Querier
	Now                     func() time.Time
	DefaultPerCustomerLimit int
	Log                     zerolog.Logger
}

// WithQuerier returns a copy of the service bound to q, typically a transaction.
func (s *Service) WithQuerier(q Querier) *Service {
	cp := *s
	cp.Q = q
	return &cp
}

// NormalizeCode trims and upper-cases a voucher code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup fetches a voucher by code, case-insensitively.
func (s *Service) Lookup(ctx context.Context, code string) (dbgen.Voucher, error) {
	if s == nil || s.Q == nil {
		return dbgen.Voucher{}, errors.New("voucher service not configured")
	}
	normalized := NormalizeCode(code)
	if normalized == "" {
		return dbgen.Voucher{}, fmt.Errorf("code is required: %w", ErrNotFound)
	}
	v, err := s.Q.GetVoucherByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Voucher{}, fmt.Errorf("code %s: %w", normalized, ErrNotFound)
		}
		return dbgen.Voucher{}, err
	}
	return v, nil
}

// RuleFor loads the voucher and the customer's usage into an evaluable Rule.
// Unknown codes are reported as ErrNotEligible.
func (s *Service) RuleFor(ctx context.Context, code string, customerID uuid.UUID) (Rule, error) {
	v, err := s.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Rule{}, fmt.Errorf("unknown voucher: %w", ErrNotEligible)
		}
		return Rule{}, err
	}
	rule := RuleFromModel(v)
	rule.CustomerID = customerID
	rule.PerCustomerLimit = s.perCustomerLimit(v)
	if rule.PerCustomerLimit > 0 && customerID != uuid.Nil {
		used, err := s.Q.CountVoucherUsageByCustomer(ctx, dbgen.CountVoucherUsageByCustomerParams{
			VoucherID:  v.ID,
			CustomerID: common.PgUUID(customerID),
		})
		if err != nil {
			return Rule{}, err
		}
		rule.CustomerUses = int32(used)
	}
	if rule.FirstTimeOnly && customerID != uuid.Nil {
		orders, err := s.Q.CountOrdersByCustomer(ctx, common.PgUUID(customerID))
		if err != nil {
			return Rule{}, err
		}
		rule.PriorOrders = orders
	}
	return rule, nil
}

// Evaluate loads the rule for the customer and applies it to subtotal without mutating state.
func (s *Service) Evaluate(ctx context.Context, code string, customerID uuid.UUID, subtotal pricing.Money) (Rule, pricing.Money, error) {
	return s.evaluate(ctx, code, customerID, func(r Rule) (pricing.Money, error) {
		return Apply(r, subtotal, s.now())
	})
}

// EvaluateItems is Evaluate for priced cart lines, enforcing product, category
// and sale restrictions.
func (s *Service) EvaluateItems(ctx context.Context, code string, customerID uuid.UUID, items []Item) (Rule, pricing.Money, error) {
	return s.evaluate(ctx, code, customerID, func(r Rule) (pricing.Money, error) {
		return ApplyItems(r, items, s.now())
	})
}

func (s *Service) evaluate(ctx context.Context, code string, customerID uuid.UUID, apply func(Rule) (pricing.Money, error)) (Rule, pricing.Money, error) {
	rule, err := s.RuleFor(ctx, code, customerID)
	if err != nil {
		s.rejected(err, code)
		return Rule{}, 0, err
	}
	discount, err := apply(rule)
	if err != nil {
		s.rejected(err, rule.Code)
		return rule, 0, err
	}
	return rule, discount, nil
}

// Preview performs a dry-run evaluation for the given subtotal.
func (s *Service) Preview(ctx context.Context, code string, customerID uuid.UUID, subtotal pricing.Money) (PreviewResult, error) {
	rule, discount, err := s.Evaluate(ctx, code, customerID, subtotal)
	if err != nil {
		return PreviewResult{}, err
	}
	return PreviewResult{Code: rule.Code, Subtotal: subtotal, Discount: discount, FreeShipping: rule.WaivesShipping()}, nil
}

// Claim consumes one use of the voucher. Concurrent claims never push
// used_count past max_uses; the loser gets ErrExhaustedUses.
func (s *Service) Claim(ctx context.Context, voucherID uuid.UUID) error {
	if s == nil || s.Q == nil {
		return errors.New("voucher service not configured")
	}
	if _, err := s.Q.ClaimVoucherUse(ctx, common.PgUUID(voucherID)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.rejected(ErrExhaustedUses, voucherID.String())
			return fmt.Errorf("claim %s: %w", voucherID, ErrExhaustedUses)
		}
		return err
	}
	return nil
}

// RecordUsage links a claimed voucher to the order that consumed it.
func (s *Service) RecordUsage(ctx context.Context, voucherID, customerID, orderID uuid.UUID, amount pricing.Money) error {
	return s.Q.InsertVoucherUsage(ctx, dbgen.InsertVoucherUsageParams{
		VoucherID:      common.PgUUID(voucherID),
		CustomerID:     common.PgUUID(customerID),
		OrderID:        common.PgUUID(orderID),
		DiscountAmount: amount,
	})
}

// Create inserts a new voucher.
func (s *Service) Create(ctx context.Context, in Input) (dbgen.Voucher, error) {
	if s == nil || s.Q == nil {
		return dbgen.Voucher{}, errors.New("voucher service not configured")
	}
	if err := checkInput(in); err != nil {
		return dbgen.Voucher{}, err
	}
	owner := pgtype.UUID{}
	if in.CustomerID != nil {
		parsed, err := common.ParseUUID(*in.CustomerID)
		if err != nil {
			return dbgen.Voucher{}, fmt.Errorf("customer_id: %w", ErrInvalidInput)
		}
		owner = parsed
	}
	products, categories, err := scopeIDs(in)
	if err != nil {
		return dbgen.Voucher{}, err
	}
	v, err := s.Q.CreateVoucher(ctx, dbgen.CreateVoucherParams{
		Code:                  NormalizeCode(in.Code),
		Name:                  strings.TrimSpace(in.Name),
		Description:           common.Text(in.Description),
		DiscountType:          dbgen.DiscountType(in.DiscountType),
		DiscountValue:         in.DiscountValue,
		MaxDiscount:           common.Int8(in.MaxDiscount),
		MinSpend:              in.MinSpend,
		ValidFrom:             common.Timestamptz(in.ValidFrom),
		ValidUntil:            common.Timestamptz(in.ValidUntil),
		MaxUses:               common.Int4(in.MaxUses),
		MaxUsesPerCustomer:    common.Int4(in.MaxUsesPerCustomer),
		CustomerID:            owner,
		IsActive:              in.IsActive == nil || *in.IsActive,
		FirstTimeOnly:         in.FirstTimeOnly,
		ExcludeSaleItems:      in.ExcludeSaleItems,
		ApplicableProductIds:  products,
		ApplicableCategoryIds: categories,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return dbgen.Voucher{}, fmt.Errorf("code %s: %w", NormalizeCode(in.Code), ErrDuplicateCode)
		}
		return dbgen.Voucher{}, err
	}
	s.Log.Info().Str("voucher_code", v.Code).Msg("voucher created")
	return v, nil
}

// Update replaces the mutable fields of the voucher identified by code.
func (s *Service) Update(ctx context.Context, code string, in Input) (dbgen.Voucher, error) {
	if s == nil || s.Q == nil {
		return dbgen.Voucher{}, errors.New("voucher service not configured")
	}
	if err := checkInput(in); err != nil {
		return dbgen.Voucher{}, err
	}
	products, categories, err := scopeIDs(in)
	if err != nil {
		return dbgen.Voucher{}, err
	}
	normalized := NormalizeCode(code)
	v, err := s.Q.UpdateVoucher(ctx, dbgen.UpdateVoucherParams{
		Code:                  normalized,
		Name:                  strings.TrimSpace(in.Name),
		Description:           common.Text(in.Description),
		DiscountType:          dbgen.DiscountType(in.DiscountType),
		DiscountValue:         in.DiscountValue,
		MaxDiscount:           common.Int8(in.MaxDiscount),
		MinSpend:              in.MinSpend,
		ValidFrom:             common.Timestamptz(in.ValidFrom),
		ValidUntil:            common.Timestamptz(in.ValidUntil),
		MaxUses:               common.Int4(in.MaxUses),
		MaxUsesPerCustomer:    common.Int4(in.MaxUsesPerCustomer),
		IsActive:              in.IsActive == nil || *in.IsActive,
		FirstTimeOnly:         in.FirstTimeOnly,
		ExcludeSaleItems:      in.ExcludeSaleItems,
		ApplicableProductIds:  products,
		ApplicableCategoryIds: categories,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Voucher{}, fmt.Errorf("code %s: %w", normalized, ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return dbgen.Voucher{}, fmt.Errorf("%s: %w", pgErr.ConstraintName, ErrInvalidInput)
		}
		return dbgen.Voucher{}, err
	}
	return v, nil
}

// Deactivate disables a voucher without deleting its usage history.
func (s *Service) Deactivate(ctx context.Context, code string) error {
	if s == nil || s.Q == nil {
		return errors.New("voucher service not configured")
	}
	normalized := NormalizeCode(code)
	rows, err := s.Q.DeactivateVoucher(ctx, normalized)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("code %s: %w", normalized, ErrNotFound)
	}
	return nil
}

func checkInput(in Input) error {
	if err := common.ValidateStruct(in); err != nil {
		return err
	}
	if in.DiscountType != FreeShipping && in.DiscountValue <= 0 {
		return fmt.Errorf("discount_value must be positive: %w", ErrInvalidInput)
	}
	if in.DiscountType == Percentage && in.DiscountValue > pricing.BpsScale {
		return fmt.Errorf("percentage above 10000 bps: %w", ErrInvalidInput)
	}
	if in.MaxUses != nil && in.MaxUsesPerCustomer != nil && *in.MaxUsesPerCustomer > *in.MaxUses {
		return fmt.Errorf("per-customer limit above max uses: %w", ErrInvalidInput)
	}
	return nil
}

func scopeIDs(in Input) (products, categories []pgtype.UUID, err error) {
	parse := func(field string, raw []string) ([]pgtype.UUID, error) {
		out := make([]pgtype.UUID, 0, len(raw))
		for _, v := range raw {
			id, err := common.ParseUUID(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", field, ErrInvalidInput)
			}
			out = append(out, id)
		}
		return out, nil
	}
	if products, err = parse("applicable_products", in.Products); err != nil {
		return nil, nil, err
	}
	if categories, err = parse("applicable_categories", in.Categories); err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}

func (s *Service) perCustomerLimit(v dbgen.Voucher) int32 {
	if v.MaxUsesPerCustomer.Valid && v.MaxUsesPerCustomer.Int32 > 0 {
		return v.MaxUsesPerCustomer.Int32
	}
	if s.DefaultPerCustomerLimit > 0 {
		return int32(s.DefaultPerCustomerLimit)
	}
	return 0
}

func (s *Service) rejected(err error, code string) {
	reason := Reason(err)
	if reason == "" {
		return
	}
	obs.IncVoucherRejection(reason)
	s.Log.Debug().Str("voucher_code", NormalizeCode(code)).Str("reason", reason).Msg("voucher rejected")
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RuleFromModel converts the generated sqlc model into a Rule used for evaluation.
func RuleFromModel(v dbgen.Voucher) Rule {
	rule := Rule{
		ID:            uuid.UUID(v.ID.Bytes),
		Code:          v.Code,
		Type:          DiscountType(v.DiscountType),
		DiscountValue: v.DiscountValue,
		MaxDiscount:   common.Int8Ptr(v.MaxDiscount),
		MinSpend:      v.MinSpend,
		MaxUses:       common.Int4Ptr(v.MaxUses),
		UsedCount:     v.UsedCount,
		IsActive:      v.IsActive,

		FirstTimeOnly:        v.FirstTimeOnly,
		ExcludeSaleItems:     v.ExcludeSaleItems,
		ApplicableProducts:   uuids(v.ApplicableProductIds),
		ApplicableCategories: uuids(v.ApplicableCategoryIds),
	}
	if v.ValidFrom.Valid {
		rule.ValidFrom = v.ValidFrom.Time
	}
	if v.ValidUntil.Valid {
		rule.ValidUntil = v.ValidUntil.Time
	}
	if v.CustomerID.Valid {
		owner := uuid.UUID(v.CustomerID.Bytes)
		rule.OwnerID = &owner
	}
	return rule
}

func uuids(ids []pgtype.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id.Valid {
			out = append(out, uuid.UUID(id.Bytes))
		}
	}
	return out
}
