package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/catalog"
	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/pricing"
)

var (
	ErrNotFound      = errors.New("wishlist item not found")
	ErrInvalidTarget = errors.New("invalid wishlist target")
)

// Querier captures the wishlist rows and the catalog lookups that resolve targets.
type Querier interface {
	InsertWishlistItem(ctx context.Context, arg dbgen.InsertWishlistItemParams) (dbgen.WishlistItem, error)
	FindWishlistItem(ctx context.Context, arg dbgen.FindWishlistItemParams) (dbgen.WishlistItem, error)
	DeleteWishlistItem(ctx context.Context, arg dbgen.DeleteWishlistItemParams) (int64, error)
	ListWishlist(ctx context.Context, customerID pgtype.UUID) ([]dbgen.WishlistItem, error)
	GetProduct(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	GetVariant(ctx context.Context, id pgtype.UUID) (dbgen.GetVariantRow, error)
}

// Documents serves cached product documents.
type Documents interface {
	Document(ctx context.Context, productID string) (catalog.ProductDoc, error)
}

type Service struct {
	Q       Querier
	Catalog Documents
	Pricing pricing.Evaluator
	Log     zerolog.Logger
}

// Item is a wishlist entry with its live price.
type Item struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	ProductID   string         `json:"productId"`
	VariantID   *string        `json:"variantId,omitempty"`
	ProductName string         `json:"productName"`
	ProductSlug string         `json:"productSlug"`
	VariantName string         `json:"variantName,omitempty"`
	Price       *pricing.Money `json:"price"`
	InStock     bool           `json:"inStock"`
	Available   bool           `json:"available"`
	AddedAt     time.Time      `json:"addedAt"`
}

type key struct {
	product pgtype.UUID
	variant pgtype.UUID
}

// resolve maps a target onto its (product, variant) row key, checking that
// the referenced catalog entry exists.
func (s *Service) resolve(ctx context.Context, t Target) (key, error) {
	switch t := t.(type) {
	case ProductTarget:
		p, err := s.Q.GetProduct(ctx, common.PgUUID(t.ProductID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return key{}, fmt.Errorf("product %s: %w", t.ProductID, ErrInvalidTarget)
			}
			return key{}, err
		}
		return key{product: p.ID}, nil
	case VariantTarget:
		v, err := s.Q.GetVariant(ctx, common.PgUUID(t.VariantID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return key{}, fmt.Errorf("variant %s: %w", t.VariantID, ErrInvalidTarget)
			}
			return key{}, err
		}
		return key{product: v.ProductID, variant: v.ID}, nil
	}
	return key{}, fmt.Errorf("target %T: %w", t, ErrInvalidTarget)
}

// Add saves the target; adding an existing entry returns it unchanged.
func (s *Service) Add(ctx context.Context, customerID uuid.UUID, t Target) (Item, error) {
	k, err := s.resolve(ctx, t)
	if err != nil {
		return Item{}, err
	}
	row, err := s.Q.InsertWishlistItem(ctx, dbgen.InsertWishlistItemParams{
		CustomerID: common.PgUUID(customerID),
		ProductID:  k.product,
		VariantID:  k.variant,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		row, err = s.find(ctx, customerID, k)
	}
	if err != nil {
		return Item{}, err
	}
	return s.item(ctx, row)
}

// Remove deletes one of the customer's entries.
func (s *Service) Remove(ctx context.Context, customerID, itemID uuid.UUID) error {
	n, err := s.Q.DeleteWishlistItem(ctx, dbgen.DeleteWishlistItemParams{
		ID:         common.PgUUID(itemID),
		CustomerID: common.PgUUID(customerID),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wishlist item %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// Toggle removes the target when saved and saves it otherwise. It reports
// whether the target is saved afterwards.
func (s *Service) Toggle(ctx context.Context, customerID uuid.UUID, t Target) (bool, *Item, error) {
	k, err := s.resolve(ctx, t)
	if err != nil {
		return false, nil, err
	}
	existing, err := s.find(ctx, customerID, k)
	switch {
	case err == nil:
		if err := s.Remove(ctx, customerID, uuid.UUID(existing.ID.Bytes)); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	case errors.Is(err, pgx.ErrNoRows):
		item, err := s.Add(ctx, customerID, t)
		if err != nil {
			return false, nil, err
		}
		return true, &item, nil
	default:
		return false, nil, err
	}
}

// List returns the customer's entries, newest first, priced live: a variant
// entry shows that variant's effective price, a product entry the cheapest
// active variant.
func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]Item, error) {
	rows, err := s.Q.ListWishlist(ctx, common.PgUUID(customerID))
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		item, err := s.item(ctx, row)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Service) find(ctx context.Context, customerID uuid.UUID, k key) (dbgen.WishlistItem, error) {
	return s.Q.FindWishlistItem(ctx, dbgen.FindWishlistItemParams{
		CustomerID: common.PgUUID(customerID),
		ProductID:  k.product,
		VariantID:  k.variant,
	})
}

func (s *Service) item(ctx context.Context, row dbgen.WishlistItem) (Item, error) {
	doc, err := s.Catalog.Document(ctx, common.UUIDString(row.ProductID))
	if err != nil {
		return Item{}, err
	}
	item := Item{
		ID:          common.UUIDString(row.ID),
		Kind:        KindOf(targetOf(row)),
		ProductID:   doc.ID,
		VariantID:   common.UUIDPtr(row.VariantID),
		ProductName: doc.Name,
		ProductSlug: doc.Slug,
		AddedAt:     row.CreatedAt.Time,
	}
	switch t := targetOf(row).(type) {
	case VariantTarget:
		for _, v := range doc.Variants {
			if v.ID != t.VariantID.String() {
				continue
			}
			price := s.Pricing.EffectivePrice(v.PricingInput())
			item.VariantName = v.Name
			item.Price = &price
			item.Available = doc.IsActive && v.IsActive
			item.InStock = item.Available && v.Stock > 0
		}
	case ProductTarget:
		for _, v := range doc.Variants {
			if !v.IsActive {
				continue
			}
			price := s.Pricing.EffectivePrice(v.PricingInput())
			if item.Price == nil || price < *item.Price {
				item.Price = &price
			}
			if v.Stock > 0 {
				item.InStock = true
			}
		}
		item.Available = doc.IsActive && item.Price != nil
		item.InStock = item.InStock && doc.IsActive
	}
	return item, nil
}

func targetOf(row dbgen.WishlistItem) Target {
	if row.VariantID.Valid {
		return VariantTarget{VariantID: uuid.UUID(row.VariantID.Bytes)}
	}
	return ProductTarget{ProductID: uuid.UUID(row.ProductID.Bytes)}
}
