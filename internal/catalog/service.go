package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/richardprab/auroramart/internal/cache"
	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/obs"
	"github.com/richardprab/auroramart/internal/pricing"
)

var (
	// ErrNotFound is returned for unknown or inactive products and variants.
	ErrNotFound = errors.New("catalog item not found")
	// ErrInvalidInput reports an admin update that violates catalog constraints.
	ErrInvalidInput = errors.New("invalid catalog input")
)

// Querier captures the catalog reads and admin writes.
type Querier interface {
	ListProducts(ctx context.Context, arg dbgen.ListProductsParams) ([]dbgen.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	GetProduct(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (dbgen.Product, error)
	ListVariantsByProduct(ctx context.Context, productID pgtype.UUID) ([]dbgen.ProductVariant, error)
	GetVariant(ctx context.Context, id pgtype.UUID) (dbgen.GetVariantRow, error)
	SetVariantStock(ctx context.Context, arg dbgen.SetVariantStockParams) (dbgen.ProductVariant, error)
	SetVariantPrice(ctx context.Context, arg dbgen.SetVariantPriceParams) (dbgen.ProductVariant, error)
}

// Service serves the catalog from Redis-cached documents. Cached documents
// carry base prices and stock; effective prices are computed on every read.
type Service struct {
	Q       Querier
	Cache   *Cache
	Pricing pricing.Evaluator
	Log     zerolog.Logger

	group singleflight.Group
}

// ProductDoc is the cached shape of a product and its variants.
type ProductDoc struct {
	ID          string       `json:"id"`
	CategoryID  string       `json:"categoryId,omitempty"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	IsActive    bool         `json:"isActive"`
	Variants    []VariantDoc `json:"variants"`
	CachedAt    time.Time    `json:"cachedAt"`
}

// VariantDoc is the cached catalog state of one variant.
type VariantDoc struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	ComparePrice *int64 `json:"comparePrice,omitempty"`
	Stock        int    `json:"stock"`
	IsActive     bool   `json:"isActive"`
}

// PricingInput converts the cached state into the evaluator's input.
func (v VariantDoc) PricingInput() pricing.Variant {
	return pricing.Variant{BasePrice: v.Price, ComparePrice: v.ComparePrice, Stock: v.Stock, IsActive: v.IsActive}
}

// VariantView is a variant with its live effective price.
type VariantView struct {
	ID           string        `json:"id"`
	SKU          string        `json:"sku"`
	Name         string        `json:"name"`
	Price        pricing.Money `json:"price"`
	BasePrice    pricing.Money `json:"basePrice"`
	ComparePrice *int64        `json:"comparePrice,omitempty"`
	PriceRule    pricing.Rule  `json:"priceRule"`
	Stock        int           `json:"stock"`
	InStock      bool          `json:"inStock"`
	ProductID    string        `json:"productId,omitempty"`
	ProductName  string        `json:"productName,omitempty"`
	ProductSlug  string        `json:"productSlug,omitempty"`
}

// ProductView is the public product payload.
type ProductView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	FromPrice   *pricing.Money `json:"fromPrice,omitempty"`
	InStock     bool           `json:"inStock"`
	Variants    []VariantView  `json:"variants"`
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Items []ProductView     `json:"items"`
	Meta  common.Pagination `json:"pagination"`
}

type cachedList struct {
	IDs   []string `json:"ids"`
	Total int64    `json:"total"`
}

// ListProducts returns active products, newest first, with live prices.
func (s *Service) ListProducts(ctx context.Context, page, perPage int) (ProductPage, error) {
	gen, err := s.Cache.Generation(ctx)
	if err != nil {
		s.Log.Warn().Err(err).Msg("catalog generation lookup failed")
	}
	key := cache.KeyCatalogList(gen, page, perPage)

	var list cachedList
	ok, err := s.Cache.GetJSON(ctx, key, &list)
	s.observe(ok, err)
	if !ok {
		v, err, _ := s.group.Do(key, func() (any, error) {
			return s.loadList(ctx, key, page, perPage)
		})
		if err != nil {
			return ProductPage{}, err
		}
		list = v.(cachedList)
	}

	docs, err := s.docsByID(ctx, list.IDs)
	if err != nil {
		return ProductPage{}, err
	}
	out := ProductPage{
		Items: make([]ProductView, 0, len(docs)),
		Meta:  common.Pagination{Page: page, PerPage: perPage, TotalItems: int(list.Total)},
	}
	for _, d := range docs {
		if !d.IsActive {
			continue
		}
		out.Items = append(out.Items, s.view(d))
	}
	return out, nil
}

func (s *Service) loadList(ctx context.Context, key string, page, perPage int) (cachedList, error) {
	total, err := s.Q.CountProducts(ctx)
	if err != nil {
		return cachedList{}, fmt.Errorf("count products: %w", err)
	}
	rows, err := s.Q.ListProducts(ctx, dbgen.ListProductsParams{
		Limit:  int32(perPage),
		Offset: int32(common.Offset(page, perPage)),
	})
	if err != nil {
		return cachedList{}, fmt.Errorf("list products: %w", err)
	}
	list := cachedList{IDs: make([]string, 0, len(rows)), Total: total}
	for _, p := range rows {
		list.IDs = append(list.IDs, common.UUIDString(p.ID))
	}
	if err := s.Cache.SetJSON(ctx, key, list); err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("catalog list cache write failed")
	}
	return list, nil
}

// GetProduct returns an active product by slug.
func (s *Service) GetProduct(ctx context.Context, slug string) (ProductView, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return ProductView{}, fmt.Errorf("empty slug: %w", ErrNotFound)
	}
	var id string
	ok, err := s.Cache.GetJSON(ctx, cache.KeyProductSlug(slug), &id)
	s.observe(ok, err)
	if !ok {
		p, err := s.Q.GetProductBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ProductView{}, fmt.Errorf("product %q: %w", slug, ErrNotFound)
			}
			return ProductView{}, err
		}
		id = common.UUIDString(p.ID)
		if err := s.Cache.SetJSON(ctx, cache.KeyProductSlug(slug), id); err != nil {
			s.Log.Warn().Err(err).Str("slug", slug).Msg("catalog slug cache write failed")
		}
	}
	doc, err := s.Document(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	if !doc.IsActive {
		return ProductView{}, fmt.Errorf("product %q: %w", slug, ErrNotFound)
	}
	return s.view(doc), nil
}

// Document returns the cached product document, loading it on a miss.
// Concurrent misses for the same product share one database load.
func (s *Service) Document(ctx context.Context, productID string) (ProductDoc, error) {
	key := cache.KeyProduct(productID)
	var doc ProductDoc
	ok, err := s.Cache.GetJSON(ctx, key, &doc)
	s.observe(ok, err)
	if ok {
		return doc, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.loadDocument(ctx, productID)
	})
	if err != nil {
		return ProductDoc{}, err
	}
	return v.(ProductDoc), nil
}

func (s *Service) loadDocument(ctx context.Context, productID string) (ProductDoc, error) {
	id, err := common.ParseUUID(productID)
	if err != nil {
		return ProductDoc{}, fmt.Errorf("product %q: %w", productID, ErrNotFound)
	}
	p, err := s.Q.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductDoc{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return ProductDoc{}, fmt.Errorf("get product: %w", err)
	}
	variants, err := s.Q.ListVariantsByProduct(ctx, id)
	if err != nil {
		return ProductDoc{}, fmt.Errorf("list variants: %w", err)
	}
	doc := documentOf(p, variants)
	if err := s.Cache.SetJSON(ctx, cache.KeyProduct(productID), doc); err != nil {
		s.Log.Warn().Err(err).Str("product_id", productID).Msg("catalog document cache write failed")
	}
	return doc, nil
}

func (s *Service) docsByID(ctx context.Context, ids []string) ([]ProductDoc, error) {
	out := make([]ProductDoc, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Document(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// GetVariant reads a variant straight from the database.
func (s *Service) GetVariant(ctx context.Context, variantID uuid.UUID) (VariantView, error) {
	row, err := s.Q.GetVariant(ctx, common.PgUUID(variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VariantView{}, fmt.Errorf("variant %s: %w", variantID, ErrNotFound)
		}
		return VariantView{}, err
	}
	if !row.ProductActive {
		return VariantView{}, fmt.Errorf("variant %s: %w", variantID, ErrNotFound)
	}
	v := s.variantView(variantDocOf(dbgen.ProductVariant{
		ID:           row.ID,
		Sku:          row.Sku,
		Name:         row.Name,
		Price:        row.Price,
		ComparePrice: row.ComparePrice,
		Stock:        row.Stock,
		IsActive:     row.IsActive,
	}))
	v.ProductID = common.UUIDString(row.ProductID)
	v.ProductName = row.ProductName
	v.ProductSlug = row.ProductSlug
	return v, nil
}

// SetStock overwrites a variant's stock level and drops cached documents.
func (s *Service) SetStock(ctx context.Context, variantID uuid.UUID, stock int) (VariantView, error) {
	if stock < 0 {
		return VariantView{}, fmt.Errorf("negative stock: %w", ErrInvalidInput)
	}
	row, err := s.Q.SetVariantStock(ctx, dbgen.SetVariantStockParams{ID: common.PgUUID(variantID), Stock: int32(stock)})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VariantView{}, fmt.Errorf("variant %s: %w", variantID, ErrNotFound)
		}
		return VariantView{}, err
	}
	s.invalidateAfterWrite(ctx, row)
	return s.variantView(variantDocOf(row)), nil
}

// SetPrice updates base and compare prices and drops cached documents.
func (s *Service) SetPrice(ctx context.Context, variantID uuid.UUID, price pricing.Money, compare *pricing.Money) (VariantView, error) {
	if price < 0 || (compare != nil && *compare < 0) {
		return VariantView{}, fmt.Errorf("negative price: %w", ErrInvalidInput)
	}
	row, err := s.Q.SetVariantPrice(ctx, dbgen.SetVariantPriceParams{
		ID:           common.PgUUID(variantID),
		Price:        price,
		ComparePrice: common.Int8(compare),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VariantView{}, fmt.Errorf("variant %s: %w", variantID, ErrNotFound)
		}
		return VariantView{}, err
	}
	s.invalidateAfterWrite(ctx, row)
	return s.variantView(variantDocOf(row)), nil
}

func (s *Service) invalidateAfterWrite(ctx context.Context, row dbgen.ProductVariant) {
	if err := s.InvalidateProducts(ctx, uuid.UUID(row.ProductID.Bytes)); err != nil {
		s.Log.Warn().Err(err).Str("product_id", common.UUIDString(row.ProductID)).Msg("catalog invalidation failed")
	}
}

// InvalidateProducts drops the cached documents of the given products and
// orphans every cached listing page.
func (s *Service) InvalidateProducts(ctx context.Context, ids ...uuid.UUID) error {
	if s == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.KeyProduct(id.String()))
	}
	return errors.Join(s.Cache.Delete(ctx, keys...), s.Cache.Bump(ctx))
}

func (s *Service) view(d ProductDoc) ProductView {
	out := ProductView{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Variants:    make([]VariantView, 0, len(d.Variants)),
	}
	for _, vd := range d.Variants {
		if !vd.IsActive {
			continue
		}
		v := s.variantView(vd)
		out.Variants = append(out.Variants, v)
		if v.InStock {
			out.InStock = true
		}
		if out.FromPrice == nil || v.Price < *out.FromPrice {
			price := v.Price
			out.FromPrice = &price
		}
	}
	return out
}

func (s *Service) variantView(d VariantDoc) VariantView {
	q := s.Pricing.Explain(d.PricingInput())
	return VariantView{
		ID:           d.ID,
		SKU:          d.SKU,
		Name:         d.Name,
		Price:        q.Price,
		BasePrice:    q.Base,
		ComparePrice: d.ComparePrice,
		PriceRule:    q.Rule,
		Stock:        d.Stock,
		InStock:      d.IsActive && d.Stock > 0,
	}
}

func (s *Service) observe(hit bool, err error) {
	switch {
	case err != nil:
		obs.IncCatalogCache("error")
		s.Log.Warn().Err(err).Msg("catalog cache read failed")
	case hit:
		obs.IncCatalogCache("hit")
	default:
		obs.IncCatalogCache("miss")
	}
}

func documentOf(p dbgen.Product, variants []dbgen.ProductVariant) ProductDoc {
	doc := ProductDoc{
		ID:          common.UUIDString(p.ID),
		CategoryID:  common.UUIDString(p.CategoryID),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		IsActive:    p.IsActive,
		Variants:    make([]VariantDoc, 0, len(variants)),
		CachedAt:    time.Now().UTC(),
	}
	for _, v := range variants {
		doc.Variants = append(doc.Variants, variantDocOf(v))
	}
	sort.SliceStable(doc.Variants, func(i, j int) bool { return doc.Variants[i].Price < doc.Variants[j].Price })
	return doc
}

func variantDocOf(v dbgen.ProductVariant) VariantDoc {
	return VariantDoc{
		ID:           common.UUIDString(v.ID),
		SKU:          v.Sku,
		Name:         v.Name,
		Price:        v.Price,
		ComparePrice: common.Int8Ptr(v.ComparePrice),
		Stock:        int(v.Stock),
		IsActive:     v.IsActive,
	}
}
