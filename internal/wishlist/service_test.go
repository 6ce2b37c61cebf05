package wishlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/richardprab/auroramart/internal/catalog"
	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/pricing"
)

type fakeStore struct {
	items    []dbgen.WishlistItem
	products map[pgtype.UUID]dbgen.Product
	variants map[pgtype.UUID]dbgen.ProductVariant
}

func (f *fakeStore) InsertWishlistItem(_ context.Context, arg dbgen.InsertWishlistItemParams) (dbgen.WishlistItem, error) {
	for _, it := range f.items {
		if it.CustomerID == arg.CustomerID && it.ProductID == arg.ProductID && it.VariantID == arg.VariantID {
			return dbgen.WishlistItem{}, pgx.ErrNoRows
		}
	}
	row := dbgen.WishlistItem{
		ID:         common.PgUUID(uuid.New()),
		CustomerID: arg.CustomerID,
		ProductID:  arg.ProductID,
		VariantID:  arg.VariantID,
		CreatedAt:  pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	f.items = append([]dbgen.WishlistItem{row}, f.items...)
	return row, nil
}

func (f *fakeStore) FindWishlistItem(_ context.Context, arg dbgen.FindWishlistItemParams) (dbgen.WishlistItem, error) {
	for _, it := range f.items {
		if it.CustomerID == arg.CustomerID && it.ProductID == arg.ProductID && it.VariantID == arg.VariantID {
			return it, nil
		}
	}
	return dbgen.WishlistItem{}, pgx.ErrNoRows
}

func (f *fakeStore) DeleteWishlistItem(_ context.Context, arg dbgen.DeleteWishlistItemParams) (int64, error) {
	for i, it := range f.items {
		if it.ID == arg.ID && it.CustomerID == arg.CustomerID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) ListWishlist(_ context.Context, customerID pgtype.UUID) ([]dbgen.WishlistItem, error) {
	var out []dbgen.WishlistItem
	for _, it := range f.items {
		if it.CustomerID == customerID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) GetVariant(_ context.Context, id pgtype.UUID) (dbgen.GetVariantRow, error) {
	v, ok := f.variants[id]
	if !ok {
		return dbgen.GetVariantRow{}, pgx.ErrNoRows
	}
	return dbgen.GetVariantRow{ID: v.ID, ProductID: v.ProductID, Price: v.Price, Stock: v.Stock, IsActive: v.IsActive}, nil
}

// Document builds the product document straight from the fake rows.
func (f *fakeStore) Document(_ context.Context, productID string) (catalog.ProductDoc, error) {
	id, err := common.ParseUUID(productID)
	if err != nil {
		return catalog.ProductDoc{}, catalog.ErrNotFound
	}
	p, ok := f.products[id]
	if !ok {
		return catalog.ProductDoc{}, catalog.ErrNotFound
	}
	doc := catalog.ProductDoc{ID: productID, Name: p.Name, Slug: p.Slug, IsActive: p.IsActive}
	for _, v := range f.variants {
		if v.ProductID != id {
			continue
		}
		doc.Variants = append(doc.Variants, catalog.VariantDoc{
			ID: common.UUIDString(v.ID), Name: v.Name, Price: v.Price, Stock: int(v.Stock), IsActive: v.IsActive,
		})
	}
	return doc, nil
}

type fixture struct {
	svc      *Service
	store    *fakeStore
	customer uuid.UUID
	product  uuid.UUID
	cheap    uuid.UUID
	pricey   uuid.UUID
}

func newFixture() fixture {
	store := &fakeStore{products: map[pgtype.UUID]dbgen.Product{}, variants: map[pgtype.UUID]dbgen.ProductVariant{}}
	product := uuid.New()
	store.products[common.PgUUID(product)] = dbgen.Product{ID: common.PgUUID(product), Name: "Canvas Tote", Slug: "canvas-tote", IsActive: true}
	cheap, pricey := uuid.New(), uuid.New()
	store.variants[common.PgUUID(cheap)] = dbgen.ProductVariant{ID: common.PgUUID(cheap), ProductID: common.PgUUID(product), Name: "Small", Price: 4_000, Stock: 2, IsActive: true}
	store.variants[common.PgUUID(pricey)] = dbgen.ProductVariant{ID: common.PgUUID(pricey), ProductID: common.PgUUID(product), Name: "Large", Price: 6_000, Stock: 0, IsActive: true}
	svc := &Service{
		Q:       store,
		Catalog: store,
		Pricing: pricing.NewEvaluator(pricing.DynamicRule{Enabled: true, LowStockThreshold: 5, DiscountBps: 1000}),
		Log:     zerolog.Nop(),
	}
	return fixture{svc: svc, store: store, customer: uuid.New(), product: product, cheap: cheap, pricey: pricey}
}

func TestTargetRequestDecode(t *testing.T) {
	id := uuid.New()
	got, err := TargetRequest{Kind: "product", ID: id.String()}.Decode()
	require.NoError(t, err)
	require.Equal(t, ProductTarget{ProductID: id}, got)
	require.Equal(t, KindProduct, KindOf(got))

	got, err = TargetRequest{Kind: "variant", ID: id.String()}.Decode()
	require.NoError(t, err)
	require.Equal(t, VariantTarget{VariantID: id}, got)

	_, err = TargetRequest{Kind: "bundle", ID: id.String()}.Decode()
	require.ErrorIs(t, err, ErrInvalidTarget)
	_, err = TargetRequest{Kind: "product", ID: "x"}.Decode()
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestAddIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Add(ctx, f.customer, ProductTarget{ProductID: f.product})
	require.NoError(t, err)
	again, err := f.svc.Add(ctx, f.customer, ProductTarget{ProductID: f.product})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	variant, err := f.svc.Add(ctx, f.customer, VariantTarget{VariantID: f.pricey})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, variant.ID)
	require.Len(t, f.store.items, 2)
}

func TestAddUnknownTarget(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Add(context.Background(), f.customer, VariantTarget{VariantID: uuid.New()})
	require.ErrorIs(t, err, ErrInvalidTarget)
	_, err = f.svc.Add(context.Background(), f.customer, ProductTarget{ProductID: uuid.New()})
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestListPricesLive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Add(ctx, f.customer, ProductTarget{ProductID: f.product})
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, f.customer, VariantTarget{VariantID: f.pricey})
	require.NoError(t, err)

	items, err := f.svc.List(ctx, f.customer)
	require.NoError(t, err)
	require.Len(t, items, 2)

	variant := items[0]
	require.Equal(t, KindVariant, variant.Kind)
	require.Equal(t, "Large", variant.VariantName)
	require.Equal(t, pricing.Money(6_000), *variant.Price)
	require.False(t, variant.InStock)
	require.True(t, variant.Available)

	product := items[1]
	require.Equal(t, KindProduct, product.Kind)
	require.Nil(t, product.VariantID)
	require.Equal(t, pricing.Money(3_600), *product.Price)
	require.True(t, product.InStock)
	require.Equal(t, "canvas-tote", product.ProductSlug)
}

func TestToggle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	target := VariantTarget{VariantID: f.cheap}

	saved, item, err := f.svc.Toggle(ctx, f.customer, target)
	require.NoError(t, err)
	require.True(t, saved)
	require.NotNil(t, item)
	require.Len(t, f.store.items, 1)

	saved, item, err = f.svc.Toggle(ctx, f.customer, target)
	require.NoError(t, err)
	require.False(t, saved)
	require.Nil(t, item)
	require.Empty(t, f.store.items)
}

func TestRemoveScopedToCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item, err := f.svc.Add(ctx, f.customer, ProductTarget{ProductID: f.product})
	require.NoError(t, err)
	id := uuid.MustParse(item.ID)

	require.ErrorIs(t, f.svc.Remove(ctx, uuid.New(), id), ErrNotFound)
	require.NoError(t, f.svc.Remove(ctx, f.customer, id))
	require.ErrorIs(t, f.svc.Remove(ctx, f.customer, id), ErrNotFound)
}

func TestAddHandler(t *testing.T) {
	f := newFixture()
	h := &Handler{Svc: f.svc}
	auth := func(req *http.Request) *http.Request {
		return req.WithContext(common.WithIdentity(req.Context(), common.Identity{CustomerID: f.customer}))
	}

	rec := httptest.NewRecorder()
	h.Add(rec, httptest.NewRequest(http.MethodPost, "/me/wishlist", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Add(rec, auth(httptest.NewRequest(http.MethodPost, "/me/wishlist", strings.NewReader(`{"kind":"bundle","id":"`+f.product.String()+`"}`))))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Add(rec, auth(httptest.NewRequest(http.MethodPost, "/me/wishlist", strings.NewReader(`{"kind":"product","id":"`+uuid.NewString()+`"}`))))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Add(rec, auth(httptest.NewRequest(http.MethodPost, "/me/wishlist", strings.NewReader(`{"kind":"product","id":"`+f.product.String()+`"}`))))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"kind":"product"`)
}
