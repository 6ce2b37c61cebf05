package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/spf13/cobra"

	"github.com/richardprab/auroramart/internal/app"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/voucher"
)

type seedVariant struct {
	SKU          string
	Name         string
	Price        int64
	ComparePrice int64
	Stock        int32
}

type seedProduct struct {
	Category    string
	Name        string
	Slug        string
	Description string
	Variants    []seedVariant
}

var seedCategories = map[string]string{
	"apparel":     "Apparel",
	"home-living": "Home & Living",
	"electronics": "Electronics",
}

// The catalog covers the pricing paths worth clicking through: a plain price,
// a strikethrough compare price and a variant low enough on stock to trigger
// the dynamic discount.
var seedCatalog = []seedProduct{
	{
		Category: "apparel", Name: "Aurora Hoodie", Slug: "aurora-hoodie",
		Description: "Heavyweight fleece hoodie.",
		Variants: []seedVariant{
			{SKU: "HOOD-S", Name: "Small", Price: 5_900, Stock: 40},
			{SKU: "HOOD-M", Name: "Medium", Price: 5_900, Stock: 3},
			{SKU: "HOOD-L", Name: "Large", Price: 6_400, ComparePrice: 7_900, Stock: 25},
		},
	},
	{
		Category: "apparel", Name: "Canvas Tote", Slug: "canvas-tote",
		Description: "Organic cotton tote bag.",
		Variants: []seedVariant{
			{SKU: "TOTE-NAT", Name: "Natural", Price: 1_800, Stock: 120},
			{SKU: "TOTE-BLK", Name: "Black", Price: 1_800, Stock: 0},
		},
	},
	{
		Category: "home-living", Name: "Stoneware Mug", Slug: "stoneware-mug",
		Description: "Hand-glazed 350ml mug.",
		Variants: []seedVariant{
			{SKU: "MUG-SAND", Name: "Sand", Price: 2_400, ComparePrice: 2_900, Stock: 60},
		},
	},
	{
		Category: "electronics", Name: "Noise Cancelling Headphones", Slug: "nc-headphones",
		Description: "Over-ear wireless headphones.",
		Variants: []seedVariant{
			{SKU: "NCH-BLK", Name: "Black", Price: 24_900, Stock: 8},
			{SKU: "NCH-SLV", Name: "Silver", Price: 24_900, ComparePrice: 29_900, Stock: 2},
		},
	},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the demo catalog and starter vouchers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			infra, err := app.Open(ctx, cfg, "auroractl")
			if err != nil {
				return err
			}
			defer infra.Close()
			svc := infra.Services()

			variants := 0
			err = infra.Store.InTx(ctx, db.TxOptions{}, func(q dbgen.Querier) error {
				n, err := seedCatalogRows(ctx, q)
				variants = n
				return err
			})
			if err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			cmd.Printf("catalog: %d products, %d variants\n", len(seedCatalog), variants)

			created, err := seedVouchers(ctx, svc.Vouchers, time.Now())
			if err != nil {
				return fmt.Errorf("seed vouchers: %w", err)
			}
			cmd.Printf("vouchers: %d created\n", created)

			if err := svc.Catalog.Cache.Bump(ctx); err != nil {
				return fmt.Errorf("bump catalog cache: %w", err)
			}
			return nil
		},
	}
}

func seedCatalogRows(ctx context.Context, q dbgen.Querier) (int, error) {
	categories := make(map[string]pgtype.UUID, len(seedCategories))
	for slug, name := range seedCategories {
		c, err := q.CreateCategory(ctx, dbgen.CreateCategoryParams{Name: name, Slug: slug})
		if err != nil {
			return 0, fmt.Errorf("category %s: %w", slug, err)
		}
		categories[slug] = c.ID
	}
	variants := 0
	for _, p := range seedCatalog {
		product, err := q.CreateProduct(ctx, dbgen.CreateProductParams{
			CategoryID:  categories[p.Category],
			Name:        p.Name,
			Slug:        p.Slug,
			Description: p.Description,
			IsActive:    true,
		})
		if err != nil {
			return 0, fmt.Errorf("product %s: %w", p.Slug, err)
		}
		for _, v := range p.Variants {
			_, err := q.CreateVariant(ctx, dbgen.CreateVariantParams{
				ProductID:    product.ID,
				Sku:          v.SKU,
				Name:         v.Name,
				Price:        v.Price,
				ComparePrice: pgtype.Int8{Int64: v.ComparePrice, Valid: v.ComparePrice > 0},
				Stock:        v.Stock,
				IsActive:     true,
			})
			if err != nil {
				return 0, fmt.Errorf("variant %s: %w", v.SKU, err)
			}
			variants++
		}
	}
	return variants, nil
}

// VoucherCreator is the admin half of the voucher service.
type VoucherCreator interface {
	Create(ctx context.Context, in voucher.Input) (dbgen.Voucher, error)
}

func seedVouchers(ctx context.Context, vouchers VoucherCreator, now time.Time) (int, error) {
	maxDiscount := int64(2_500)
	globalCap := int32(500)
	inputs := []voucher.Input{
		{
			Code: "WELCOME10", Name: "10% off your first order",
			DiscountType: voucher.Percentage, DiscountValue: 1_000, MaxDiscount: &maxDiscount,
			ValidFrom: now, ValidUntil: now.AddDate(1, 0, 0), FirstTimeOnly: true,
		},
		{
			Code: "SAVE5", Name: "5.00 off orders over 40.00",
			DiscountType: voucher.Fixed, DiscountValue: 500, MinSpend: 4_000, MaxUses: &globalCap,
			ValidFrom: now, ValidUntil: now.AddDate(0, 3, 0),
		},
	}
	created := 0
	for _, in := range inputs {
		if _, err := vouchers.Create(ctx, in); err != nil {
			if errors.Is(err, voucher.ErrDuplicateCode) {
				continue
			}
			return created, fmt.Errorf("%s: %w", in.Code, err)
		}
		created++
	}
	return created, nil
}
