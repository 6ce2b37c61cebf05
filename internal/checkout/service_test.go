package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/richardprab/auroramart/internal/cart"
	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/events"
	"github.com/richardprab/auroramart/internal/pricing"
	"github.com/richardprab/auroramart/internal/voucher"
)

type variant struct {
	dbgen.ProductVariant
	productName string
}

type state struct {
	carts      map[pgtype.UUID]dbgen.Cart
	items      map[pgtype.UUID]dbgen.CartItem
	variants   map[pgtype.UUID]variant
	vouchers   map[string]dbgen.Voucher
	addresses  map[pgtype.UUID]dbgen.Address
	usages     []dbgen.InsertVoucherUsageParams
	orders     []dbgen.Order
	orderItems []dbgen.CreateOrderItemParams
	events     []dbgen.DomainEvent
}

func (s state) clone() state {
	return state{
		carts:      maps.Clone(s.carts),
		items:      maps.Clone(s.items),
		variants:   maps.Clone(s.variants),
		vouchers:   maps.Clone(s.vouchers),
		addresses:  maps.Clone(s.addresses),
		usages:     slices.Clone(s.usages),
		orders:     slices.Clone(s.orders),
		orderItems: slices.Clone(s.orderItems),
		events:     slices.Clone(s.events),
	}
}

// shop is an in-memory database: InTx serializes transactions like the row
// locks do and restores the snapshot when fn fails.
type shop struct {
	dbgen.Querier
	txMu   sync.Mutex
	st     state
	failOn string
	failer error
}

func newShop() *shop {
	return &shop{st: state{
		carts:     map[pgtype.UUID]dbgen.Cart{},
		items:     map[pgtype.UUID]dbgen.CartItem{},
		variants:  map[pgtype.UUID]variant{},
		vouchers:  map[string]dbgen.Voucher{},
		addresses: map[pgtype.UUID]dbgen.Address{},
	}}
}

func newID() pgtype.UUID { return common.PgUUID(uuid.New()) }

func (m *shop) InTx(ctx context.Context, _ db.TxOptions, fn func(q dbgen.Querier) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	snapshot := m.st.clone()
	if err := fn(m); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

func (m *shop) fail(method string) error {
	if m.failOn == method {
		return m.failer
	}
	return nil
}

func (m *shop) addVariant(name string, price int64, stock int32) variant {
	v := variant{
		ProductVariant: dbgen.ProductVariant{ID: newID(), ProductID: newID(), Sku: name, Name: name, Price: price, Stock: stock, IsActive: true},
		productName:    "Aurora " + name,
	}
	m.st.variants[v.ID] = v
	return v
}

func (m *shop) addCart(customer uuid.UUID, lines map[variant]int32) dbgen.Cart {
	c := dbgen.Cart{ID: newID(), CustomerID: common.PgUUID(customer)}
	m.st.carts[c.ID] = c
	for v, qty := range lines {
		it := dbgen.CartItem{ID: newID(), CartID: c.ID, VariantID: v.ID, Quantity: qty}
		m.st.items[it.ID] = it
	}
	return c
}

func (m *shop) addAddress(customer uuid.UUID) dbgen.Address {
	a := dbgen.Address{ID: newID(), CustomerID: common.PgUUID(customer), Recipient: "Ada", Phone: "+65 8123 4567", Line1: "1 Marina Way", City: "Singapore", State: "SG", PostalCode: "018989", Country: "SG"}
	m.st.addresses[a.ID] = a
	return a
}

func (m *shop) addVoucher(code string, maxUses int32) dbgen.Voucher {
	v := dbgen.Voucher{
		ID: newID(), Code: code, DiscountType: dbgen.DiscountTypePercentage, DiscountValue: 1000,
		ValidFrom:  pgtype.Timestamptz{Time: testNow.Add(-time.Hour), Valid: true},
		ValidUntil: pgtype.Timestamptz{Time: testNow.Add(time.Hour), Valid: true},
		MaxUses:    pgtype.Int4{Int32: maxUses, Valid: true},
		IsActive:   true,
	}
	m.st.vouchers[code] = v
	return v
}

func (m *shop) cartLines(cartID pgtype.UUID) int {
	n := 0
	for _, it := range m.st.items {
		if it.CartID == cartID {
			n++
		}
	}
	return n
}

func (m *shop) GetCartByCustomer(_ context.Context, id pgtype.UUID) (dbgen.Cart, error) {
	for _, c := range m.st.carts {
		if c.CustomerID == id {
			return c, nil
		}
	}
	return dbgen.Cart{}, pgx.ErrNoRows
}

func (m *shop) LockCart(_ context.Context, id pgtype.UUID) (dbgen.Cart, error) {
	c, ok := m.st.carts[id]
	if !ok {
		return dbgen.Cart{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *shop) ListCartLinesForUpdate(_ context.Context, cartID pgtype.UUID) ([]dbgen.ListCartLinesForUpdateRow, error) {
	rows := []dbgen.ListCartLinesForUpdateRow{}
	for _, it := range m.st.items {
		if it.CartID != cartID {
			continue
		}
		v := m.st.variants[it.VariantID]
		rows = append(rows, dbgen.ListCartLinesForUpdateRow{
			ID: it.ID, CartID: it.CartID, VariantID: it.VariantID, Quantity: it.Quantity,
			ProductID: v.ProductID, ProductName: v.productName, Sku: v.Sku, VariantName: v.Name,
			Price: v.Price, ComparePrice: v.ComparePrice, Stock: v.Stock, VariantActive: v.IsActive, ProductActive: true,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sku < rows[j].Sku })
	return rows, nil
}

func (m *shop) GetVoucherByCode(_ context.Context, code string) (dbgen.Voucher, error) {
	v, ok := m.st.vouchers[code]
	if !ok {
		return dbgen.Voucher{}, pgx.ErrNoRows
	}
	return v, nil
}

func (m *shop) CountVoucherUsageByCustomer(_ context.Context, arg dbgen.CountVoucherUsageByCustomerParams) (int64, error) {
	var n int64
	for _, u := range m.st.usages {
		if u.VoucherID == arg.VoucherID && u.CustomerID == arg.CustomerID {
			n++
		}
	}
	return n, nil
}

func (m *shop) CountOrdersByCustomer(_ context.Context, id pgtype.UUID) (int64, error) {
	var n int64
	for _, o := range m.st.orders {
		if o.CustomerID == id {
			n++
		}
	}
	return n, nil
}

func (m *shop) ClaimVoucherUse(_ context.Context, id pgtype.UUID) (int32, error) {
	for code, v := range m.st.vouchers {
		if v.ID != id {
			continue
		}
		if v.MaxUses.Valid && v.UsedCount >= v.MaxUses.Int32 {
			return 0, pgx.ErrNoRows
		}
		v.UsedCount++
		m.st.vouchers[code] = v
		return v.UsedCount, nil
	}
	return 0, pgx.ErrNoRows
}

func (m *shop) DecrementVariantStock(_ context.Context, arg dbgen.DecrementVariantStockParams) (int64, error) {
	v, ok := m.st.variants[arg.ID]
	if !ok || v.Stock < arg.Quantity {
		return 0, nil
	}
	v.Stock -= arg.Quantity
	m.st.variants[arg.ID] = v
	return 1, nil
}

func (m *shop) GetAddress(_ context.Context, arg dbgen.GetAddressParams) (dbgen.Address, error) {
	a, ok := m.st.addresses[arg.ID]
	if !ok || a.CustomerID != arg.CustomerID {
		return dbgen.Address{}, pgx.ErrNoRows
	}
	return a, nil
}

func (m *shop) CreateOrder(_ context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error) {
	if err := m.fail("CreateOrder"); err != nil {
		return dbgen.Order{}, err
	}
	o := dbgen.Order{
		ID: newID(), OrderNumber: arg.OrderNumber, CustomerID: arg.CustomerID, AddressID: arg.AddressID,
		DeliveryAddress: arg.DeliveryAddress, Status: arg.Status, PaymentMethod: arg.PaymentMethod,
		ContactNumber: arg.ContactNumber, Subtotal: arg.Subtotal, Discount: arg.Discount, Shipping: arg.Shipping,
		Tax: arg.Tax, Total: arg.Total, VoucherID: arg.VoucherID, VoucherCode: arg.VoucherCode,
		CustomerNotes: arg.CustomerNotes, CreatedAt: pgtype.Timestamptz{Time: testNow, Valid: true},
	}
	m.st.orders = append(m.st.orders, o)
	return o, nil
}

func (m *shop) CreateOrderItem(_ context.Context, arg dbgen.CreateOrderItemParams) error {
	m.st.orderItems = append(m.st.orderItems, arg)
	return nil
}

func (m *shop) InsertVoucherUsage(_ context.Context, arg dbgen.InsertVoucherUsageParams) error {
	m.st.usages = append(m.st.usages, arg)
	return nil
}

func (m *shop) InsertDomainEvent(_ context.Context, arg dbgen.InsertDomainEventParams) (dbgen.DomainEvent, error) {
	ev := dbgen.DomainEvent{ID: newID(), Topic: arg.Topic, AggregateID: arg.AggregateID, Payload: arg.Payload}
	m.st.events = append(m.st.events, ev)
	return ev, nil
}

func (m *shop) ClearCartItems(_ context.Context, cartID pgtype.UUID) error {
	if err := m.fail("ClearCartItems"); err != nil {
		return err
	}
	for id, it := range m.st.items {
		if it.CartID == cartID {
			delete(m.st.items, id)
		}
	}
	return nil
}

func (m *shop) SetCartVoucher(_ context.Context, arg dbgen.SetCartVoucherParams) error {
	c := m.st.carts[arg.ID]
	c.VoucherCode = arg.VoucherCode
	m.st.carts[arg.ID] = c
	return nil
}

type captureInvalidator struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (c *captureInvalidator) InvalidateProducts(_ context.Context, ids ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, ids...)
	return nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(store *shop) *Service {
	now := func() time.Time { return testNow }
	return &Service{
		Store:    store,
		Vouchers: &voucher.Service{Now: now},
		Agg: cart.Aggregator{
			Pricing: pricing.NewEvaluator(pricing.DynamicRule{Enabled: true, LowStockThreshold: 10, DiscountBps: 1500}),
			Fees:    cart.Fees{ShippingFlat: 500},
		},
		Events: &events.Bus{Log: zerolog.Nop()},
		Now:    now,
		Log:    zerolog.Nop(),
	}
}

func input(customer uuid.UUID, addr dbgen.Address) Input {
	return Input{CustomerID: customer, AddressID: common.UUIDString(addr.ID), PaymentMethod: "card"}
}

func TestCreateOrderMaterializesCart(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 40)
	rug := store.addVariant("RUG", 2_500, 40)
	c := store.addCart(customer, map[variant]int32{lamp: 2, rug: 2})
	addr := store.addAddress(customer)
	store.addVoucher("TENOFF", 5)
	c.VoucherCode = common.Text("TENOFF")
	store.st.carts[c.ID] = c

	svc := newService(store)
	var dispatched []dbgen.DomainEvent
	svc.Events.Subscribe(events.NotifierFunc(func(_ context.Context, ev dbgen.DomainEvent) error {
		dispatched = append(dispatched, ev)
		return nil
	}))
	inval := &captureInvalidator{}
	svc.Catalog = inval

	view, err := svc.CreateOrder(context.Background(), input(customer, addr))
	require.NoError(t, err)

	require.Equal(t, dbgen.OrderStatusPending, view.Status)
	require.Regexp(t, `^ORD-[0-9A-F]{8}$`, view.OrderNumber)
	require.Equal(t, int64(15_000), view.Subtotal)
	require.Equal(t, int64(1_500), view.Discount)
	require.Equal(t, int64(500), view.Shipping)
	require.Equal(t, int64(14_000), view.Total)
	require.Equal(t, "TENOFF", *view.VoucherCode)
	require.Equal(t, "+65 8123 4567", view.ContactNumber)
	require.NotNil(t, view.DeliveryAddress)
	require.Equal(t, "1 Marina Way", view.DeliveryAddress.Line1)
	require.Len(t, view.Items, 2)

	require.Equal(t, int32(38), store.st.variants[lamp.ID].Stock)
	require.Equal(t, int32(38), store.st.variants[rug.ID].Stock)
	require.Zero(t, store.cartLines(c.ID))
	require.False(t, store.st.carts[c.ID].VoucherCode.Valid)
	require.Equal(t, int32(1), store.st.vouchers["TENOFF"].UsedCount)
	require.Len(t, store.st.usages, 1)
	require.Equal(t, int64(1_500), store.st.usages[0].DiscountAmount)

	require.Len(t, store.st.events, 1)
	require.Equal(t, events.TopicOrderCreated, store.st.events[0].Topic)
	require.Len(t, dispatched, 1)
	payload, err := events.Decode[events.OrderCreated](dispatched[0])
	require.NoError(t, err)
	require.Equal(t, view.OrderNumber, payload.OrderNumber)
	require.Equal(t, customer.String(), payload.CustomerID)
	require.ElementsMatch(t, []uuid.UUID{uuid.UUID(lamp.ProductID.Bytes), uuid.UUID(rug.ProductID.Bytes)}, inval.ids)
}

func TestCreateOrderRepricesAtCommit(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 10_000, 50)
	store.addCart(customer, map[variant]int32{lamp: 2})
	addr := store.addAddress(customer)

	// stock fell into the low-stock band after the item was carted
	v := store.st.variants[lamp.ID]
	v.Stock = 5
	store.st.variants[lamp.ID] = v

	view, err := newService(store).CreateOrder(context.Background(), input(customer, addr))
	require.NoError(t, err)
	require.Equal(t, int64(8_500), view.Items[0].UnitPrice)
	require.Equal(t, int64(17_000), view.Items[0].LineTotal)
	require.Equal(t, int64(17_000), view.Subtotal)
	require.Equal(t, int32(3), store.st.variants[lamp.ID].Stock)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	addr := store.addAddress(customer)
	svc := newService(store)

	_, err := svc.CreateOrder(context.Background(), input(customer, addr))
	require.ErrorIs(t, err, cart.ErrEmptyCart)

	store.addCart(customer, nil)
	_, err = svc.CreateOrder(context.Background(), input(customer, addr))
	require.ErrorIs(t, err, cart.ErrEmptyCart)
	require.Empty(t, store.st.orders)
}

func TestCreateOrderInsufficientStockLeavesCartIntact(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 1)
	rug := store.addVariant("RUG", 2_500, 10)
	c := store.addCart(customer, map[variant]int32{lamp: 2, rug: 1})
	addr := store.addAddress(customer)

	_, err := newService(store).CreateOrder(context.Background(), input(customer, addr))
	require.ErrorIs(t, err, cart.ErrInsufficientStock)
	var stockErr *cart.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, []cart.Shortage{{VariantID: common.UUIDString(lamp.ID), SKU: "LAMP", Requested: 2, Available: 1}}, stockErr.Lines)

	require.Equal(t, 2, store.cartLines(c.ID))
	require.Equal(t, int32(10), store.st.variants[rug.ID].Stock)
	require.Empty(t, store.st.orders)
}

func TestCreateOrderInactiveVariantIsShort(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 10)
	store.addCart(customer, map[variant]int32{lamp: 1})
	addr := store.addAddress(customer)
	v := store.st.variants[lamp.ID]
	v.IsActive = false
	store.st.variants[lamp.ID] = v

	_, err := newService(store).CreateOrder(context.Background(), input(customer, addr))
	var stockErr *cart.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Zero(t, stockErr.Lines[0].Available)
}

func TestCreateOrderExhaustedVoucherRollsBack(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 10)
	c := store.addCart(customer, map[variant]int32{lamp: 1})
	addr := store.addAddress(customer)
	v := store.addVoucher("ONCE", 1)
	v.UsedCount = 1
	store.st.vouchers["ONCE"] = v
	c.VoucherCode = common.Text("ONCE")
	store.st.carts[c.ID] = c

	_, err := newService(store).CreateOrder(context.Background(), input(customer, addr))
	require.ErrorIs(t, err, voucher.ErrExhaustedUses)
	require.ErrorIs(t, err, voucher.ErrInvalidVoucher)
	require.Equal(t, int32(10), store.st.variants[lamp.ID].Stock)
	require.Equal(t, 1, store.cartLines(c.ID))
}

func TestCreateOrderConflictRollsBackEverything(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 10)
	c := store.addCart(customer, map[variant]int32{lamp: 1})
	addr := store.addAddress(customer)
	store.addVoucher("TENOFF", 5)
	c.VoucherCode = common.Text("TENOFF")
	store.st.carts[c.ID] = c
	store.failOn = "CreateOrder"
	store.failer = &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}

	_, err := newService(store).CreateOrder(context.Background(), input(customer, addr))
	require.ErrorIs(t, err, ErrTransactionConflict)
	require.Equal(t, int32(10), store.st.variants[lamp.ID].Stock)
	require.Zero(t, store.st.vouchers["TENOFF"].UsedCount)
	require.Equal(t, 1, store.cartLines(c.ID))
	require.Empty(t, store.st.events)
}

func TestCreateOrderFirstTimeVoucherOnlyOnFirstOrder(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 40)
	addr := store.addAddress(customer)
	v := store.addVoucher("WELCOME", 100)
	v.FirstTimeOnly = true
	store.st.vouchers["WELCOME"] = v
	svc := newService(store)

	c := store.addCart(customer, map[variant]int32{lamp: 1})
	c.VoucherCode = common.Text("WELCOME")
	store.st.carts[c.ID] = c
	view, err := svc.CreateOrder(context.Background(), input(customer, addr))
	require.NoError(t, err)
	require.Equal(t, int64(500), view.Discount)

	again := dbgen.CartItem{ID: newID(), CartID: c.ID, VariantID: lamp.ID, Quantity: 1}
	store.st.items[again.ID] = again
	c = store.st.carts[c.ID]
	c.VoucherCode = common.Text("WELCOME")
	store.st.carts[c.ID] = c
	_, err = svc.CreateOrder(context.Background(), input(customer, addr))
	require.ErrorIs(t, err, voucher.ErrNotEligible)
	require.Equal(t, "NOT_ELIGIBLE", voucher.Reason(err))
	require.Len(t, store.st.orders, 1)
	require.Equal(t, int32(39), store.st.variants[lamp.ID].Stock)
	require.Equal(t, 1, store.cartLines(c.ID))
	require.Equal(t, int32(1), store.st.vouchers["WELCOME"].UsedCount)
}

func TestCreateOrderFreeShippingVoucherWaivesFee(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 40)
	c := store.addCart(customer, map[variant]int32{lamp: 1})
	addr := store.addAddress(customer)
	v := store.addVoucher("SHIPFREE", 10)
	v.DiscountType = dbgen.DiscountTypeFreeShipping
	v.DiscountValue = 0
	store.st.vouchers["SHIPFREE"] = v
	c.VoucherCode = common.Text("SHIPFREE")
	store.st.carts[c.ID] = c

	view, err := newService(store).CreateOrder(context.Background(), input(customer, addr))
	require.NoError(t, err)
	require.Equal(t, int64(5_000), view.Subtotal)
	require.Zero(t, view.Discount)
	require.Zero(t, view.Shipping)
	require.Equal(t, int64(5_000), view.Total)
	require.Len(t, store.st.usages, 1)
	require.Equal(t, int64(500), store.st.usages[0].DiscountAmount)
}

func TestCreateOrderUnknownAddress(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 10)
	store.addCart(customer, map[variant]int32{lamp: 1})
	other := store.addAddress(uuid.New())

	_, err := newService(store).CreateOrder(context.Background(), input(customer, other))
	require.ErrorIs(t, err, ErrAddressNotFound)
	require.Equal(t, int32(10), store.st.variants[lamp.ID].Stock)
}

func TestConcurrentCheckoutsForLastUnit(t *testing.T) {
	store := newShop()
	lamp := store.addVariant("LAMP", 5_000, 1)
	customers := []uuid.UUID{uuid.New(), uuid.New()}
	addrs := map[uuid.UUID]dbgen.Address{}
	for _, c := range customers {
		store.addCart(c, map[variant]int32{lamp: 1})
		addrs[c] = store.addAddress(c)
	}
	svc := newService(store)

	errs := make([]error, len(customers))
	var wg sync.WaitGroup
	for i, c := range customers {
		wg.Add(1)
		go func(i int, c uuid.UUID) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), input(c, addrs[c]))
		}(i, c)
	}
	wg.Wait()

	ok, short := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case cart.MapError(err) != nil && cart.MapError(err).Code == "INSUFFICIENT_STOCK":
			short++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, short)
	require.Zero(t, store.st.variants[lamp.ID].Stock)
}

func TestConcurrentCheckoutsShareSingleUseVoucher(t *testing.T) {
	store := newShop()
	lamp := store.addVariant("LAMP", 5_000, 100)
	store.addVoucher("ONCE", 1)
	const n = 10
	customers := make([]uuid.UUID, n)
	addrs := make([]dbgen.Address, n)
	for i := range customers {
		customers[i] = uuid.New()
		c := store.addCart(customers[i], map[variant]int32{lamp: 1})
		c.VoucherCode = common.Text("ONCE")
		store.st.carts[c.ID] = c
		addrs[i] = store.addAddress(customers[i])
	}
	svc := newService(store)

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range customers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), input(customers[i], addrs[i]))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, voucher.ErrExhaustedUses)
	}
	require.Equal(t, 1, wins)
	require.Equal(t, int32(1), store.st.vouchers["ONCE"].UsedCount)
	require.Len(t, store.st.orders, 1)
}

func TestCheckoutHandler(t *testing.T) {
	store := newShop()
	customer := uuid.New()
	lamp := store.addVariant("LAMP", 5_000, 25)
	store.addCart(customer, map[variant]int32{lamp: 1})
	addr := store.addAddress(customer)
	h := &Handler{Svc: newService(store)}

	body, _ := json.Marshal(map[string]string{"address_id": common.UUIDString(addr.ID), "payment_method": "card"})

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(body)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	store.failOn = "ClearCartItems"
	store.failer = &pgconn.PgError{Code: "55P03", Message: "lock not available"}
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(body))
	req = req.WithContext(common.WithIdentity(req.Context(), common.Identity{CustomerID: customer}))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "TRANSACTION_CONFLICT")

	store.failOn = ""
	req = httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(body))
	req = req.WithContext(common.WithIdentity(req.Context(), common.Identity{CustomerID: customer}))
	rec = httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data struct {
			Status string `json:"status"`
			Total  int64  `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "pending", resp.Data.Status)
	require.Equal(t, int64(5_500), resp.Data.Total)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(body))
	req = req.WithContext(common.WithIdentity(req.Context(), common.Identity{CustomerID: customer}))
	h.Create(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "EMPTY_CART")
}
