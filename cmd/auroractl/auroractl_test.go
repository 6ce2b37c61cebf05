package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/richardprab/auroramart/internal/auth"
	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/config"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/voucher"
)

const testSecret = "auroractl-test-secret-auroractl-test"

func withConfig(t *testing.T) {
	t.Helper()
	prev := loadConfig
	loadConfig = func() (*config.Config, error) {
		return &config.Config{JWTSecret: testSecret, JWTIssuer: "auroramart", JWTAudience: "api"}, nil
	}
	t.Cleanup(func() { loadConfig = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenIssuesVerifiableToken(t *testing.T) {
	withConfig(t)
	customer := uuid.New()

	out, err := run(t, "token", "--customer", customer.String(), "--role", "admin", "--ttl", "5m")
	require.NoError(t, err)

	id, err := auth.NewVerifier(testSecret, "auroramart", "api").Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, customer, id.CustomerID)
	require.Contains(t, id.Roles, auth.RoleAdmin)
}

func TestTokenRejectsBadCustomer(t *testing.T) {
	withConfig(t)
	_, err := run(t, "token", "--customer", "nope")
	require.Error(t, err)
}

func TestMigrateDownValidatesSteps(t *testing.T) {
	withConfig(t)
	_, err := run(t, "migrate", "down", "0")
	require.ErrorContains(t, err, "positive integer")
	_, err = run(t, "migrate", "down", "1", "2")
	require.Error(t, err)
}

func TestCacheInvalidateValidatesIDs(t *testing.T) {
	withConfig(t)
	_, err := run(t, "cache", "invalidate", "not-a-uuid")
	require.Error(t, err)
}

type seedQuerier struct {
	dbgen.Querier
	categories map[string]dbgen.Category
	products   map[string]dbgen.Product
	variants   map[string]dbgen.CreateVariantParams
}

func newSeedQuerier() *seedQuerier {
	return &seedQuerier{
		categories: map[string]dbgen.Category{},
		products:   map[string]dbgen.Product{},
		variants:   map[string]dbgen.CreateVariantParams{},
	}
}

func (q *seedQuerier) CreateCategory(_ context.Context, arg dbgen.CreateCategoryParams) (dbgen.Category, error) {
	c, ok := q.categories[arg.Slug]
	if !ok {
		c = dbgen.Category{ID: common.PgUUID(uuid.New()), Slug: arg.Slug}
	}
	c.Name = arg.Name
	q.categories[arg.Slug] = c
	return c, nil
}

func (q *seedQuerier) CreateProduct(_ context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error) {
	if !arg.CategoryID.Valid {
		return dbgen.Product{}, fmt.Errorf("product %s has no category", arg.Slug)
	}
	p, ok := q.products[arg.Slug]
	if !ok {
		p = dbgen.Product{ID: common.PgUUID(uuid.New()), Slug: arg.Slug}
	}
	p.Name, p.CategoryID, p.IsActive = arg.Name, arg.CategoryID, arg.IsActive
	q.products[arg.Slug] = p
	return p, nil
}

func (q *seedQuerier) CreateVariant(_ context.Context, arg dbgen.CreateVariantParams) (dbgen.ProductVariant, error) {
	q.variants[arg.Sku] = arg
	return dbgen.ProductVariant{ID: common.PgUUID(uuid.New()), ProductID: arg.ProductID, Sku: arg.Sku}, nil
}

func TestSeedCatalogIsRepeatable(t *testing.T) {
	q := newSeedQuerier()
	ctx := context.Background()

	first, err := seedCatalogRows(ctx, q)
	require.NoError(t, err)
	second, err := seedCatalogRows(ctx, q)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, q.variants, first)
	require.Len(t, q.products, len(seedCatalog))
	require.Len(t, q.categories, len(seedCategories))

	require.Equal(t, pgtype.Int8{Int64: 7_900, Valid: true}, q.variants["HOOD-L"].ComparePrice)
	require.False(t, q.variants["HOOD-S"].ComparePrice.Valid)
}

type voucherRecorder struct {
	codes map[string]bool
}

func (v *voucherRecorder) Create(_ context.Context, in voucher.Input) (dbgen.Voucher, error) {
	if v.codes[in.Code] {
		return dbgen.Voucher{}, fmt.Errorf("code %s: %w", in.Code, voucher.ErrDuplicateCode)
	}
	if !in.ValidUntil.After(in.ValidFrom) {
		return dbgen.Voucher{}, voucher.ErrInvalidInput
	}
	v.codes[in.Code] = true
	return dbgen.Voucher{Code: in.Code}, nil
}

func TestSeedVouchersSkipsExistingCodes(t *testing.T) {
	rec := &voucherRecorder{codes: map[string]bool{"SAVE5": true}}
	created, err := seedVouchers(context.Background(), rec, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, created)
	require.True(t, rec.codes["WELCOME10"])

	created, err = seedVouchers(context.Background(), rec, time.Now())
	require.NoError(t, err)
	require.Zero(t, created)
}
