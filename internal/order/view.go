package order

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
)

// AddressSnapshot is the delivery address copied into the order at checkout.
type AddressSnapshot struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// SnapshotOf copies an address book entry.
func SnapshotOf(a dbgen.Address) AddressSnapshot {
	return AddressSnapshot{
		Recipient:  a.Recipient,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2.String,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type ItemView struct {
	ID          string `json:"id"`
	VariantID   string `json:"variant_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

type View struct {
	ID              string            `json:"id"`
	OrderNumber     string            `json:"order_number"`
	Status          dbgen.OrderStatus `json:"status"`
	PaymentMethod   string            `json:"payment_method"`
	ContactNumber   string            `json:"contact_number,omitempty"`
	Subtotal        int64             `json:"subtotal"`
	Discount        int64             `json:"discount"`
	Shipping        int64             `json:"shipping"`
	Tax             int64             `json:"tax"`
	Total           int64             `json:"total"`
	VoucherCode     *string           `json:"voucher_code"`
	Notes           string            `json:"notes,omitempty"`
	DeliveryAddress *AddressSnapshot  `json:"delivery_address"`
	Items           []ItemView        `json:"items,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
	ShippedAt       *time.Time        `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time        `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
}

// NewView renders an order row and, when loaded, its items.
func NewView(o dbgen.Order, items []dbgen.OrderItem) View {
	v := View{
		ID:            common.UUIDString(o.ID),
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		ContactNumber: o.ContactNumber,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		Shipping:      o.Shipping,
		Tax:           o.Tax,
		Total:         o.Total,
		VoucherCode:   common.TextPtr(o.VoucherCode),
		Notes:         o.CustomerNotes,
		CreatedAt:     o.CreatedAt.Time,
		PaidAt:        common.TimePtr(o.PaidAt),
		ShippedAt:     common.TimePtr(o.ShippedAt),
		DeliveredAt:   common.TimePtr(o.DeliveredAt),
		CancelledAt:   common.TimePtr(o.CancelledAt),
	}
	if len(o.DeliveryAddress) > 0 {
		var snap AddressSnapshot
		if err := json.Unmarshal(o.DeliveryAddress, &snap); err == nil {
			v.DeliveryAddress = &snap
		}
	}
	for _, it := range items {
		v.Items = append(v.Items, ItemView{
			ID:          common.UUIDString(it.ID),
			VariantID:   common.UUIDString(it.VariantID),
			ProductID:   common.UUIDString(it.ProductID),
			ProductName: it.ProductName,
			SKU:         it.Sku,
			Quantity:    int(it.Quantity),
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return v
}

// NewNumber returns a human-facing order number such as ORD-1A2B3C4D.
func NewNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
