package wishlist

import (
	"fmt"

	"github.com/google/uuid"
)

// Target is what a wishlist entry points at: a whole product or one variant.
// The set of implementations is closed; switch on the concrete type.
type Target interface {
	isTarget()
}

// ProductTarget saves a product regardless of variant.
type ProductTarget struct {
	ProductID uuid.UUID
}

// VariantTarget saves one specific variant.
type VariantTarget struct {
	VariantID uuid.UUID
}

func (ProductTarget) isTarget() {}
func (VariantTarget) isTarget() {}

const (
	KindProduct = "product"
	KindVariant = "variant"
)

// TargetRequest is the wire form {"kind": "product"|"variant", "id": "..."}.
type TargetRequest struct {
	Kind string `json:"kind" validate:"required,oneof=product variant"`
	ID   string `json:"id" validate:"required,uuid"`
}

// Decode converts the wire form into a Target.
func (r TargetRequest) Decode() (Target, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("target id: %w", ErrInvalidTarget)
	}
	switch r.Kind {
	case KindProduct:
		return ProductTarget{ProductID: id}, nil
	case KindVariant:
		return VariantTarget{VariantID: id}, nil
	}
	return nil, fmt.Errorf("target kind %q: %w", r.Kind, ErrInvalidTarget)
}

// KindOf names the target's kind.
func KindOf(t Target) string {
	switch t.(type) {
	case ProductTarget:
		return KindProduct
	case VariantTarget:
		return KindVariant
	}
	panic(fmt.Sprintf("wishlist: unknown target %T", t))
}
