package application

import (
	"context"
	"sync"
	"time"

	addressdomain "github.com/aegisgear/commerce/internal/address/domain"
	cartdomain "github.com/aegisgear/commerce/internal/cart/domain"
	catalogdomain "github.com/aegisgear/commerce/internal/catalog/domain"
	"github.com/aegisgear/commerce/internal/order/domain"
	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// snapshotter 供 fakeTx 在失败时恢复状态，模拟事务回滚
type snapshotter interface {
	snapshot() func()
}

// fakeTx 串行执行事务体，失败时恢复所有参与者的状态
type fakeTx struct {
	mu           sync.Mutex
	participants []snapshotter
}

func newFakeTx(participants ...snapshotter) *fakeTx {
	return &fakeTx{participants: participants}
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), 0, len(t.participants))
	for _, p := range t.participants {
		restores = append(restores, p.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// fakeLedger 内存商品台账，条件扣减语义与真实仓储一致
type fakeLedger struct {
	mu       sync.Mutex
	products map[uint]*catalogdomain.Product
	// 指定商品的扣减强制失败，用于验证回滚
	failDecrementFor uint
}

func newFakeLedger(products ...*catalogdomain.Product) *fakeLedger {
	l := &fakeLedger{products: make(map[uint]*catalogdomain.Product)}
	for _, p := range products {
		cp := *p
		l.products[p.ID] = &cp
	}
	return l
}

func (l *fakeLedger) snapshot() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	saved := make(map[uint]*catalogdomain.Product, len(l.products))
	for id, p := range l.products {
		cp := *p
		saved[id] = &cp
	}
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.products = saved
	}
}

func (l *fakeLedger) stockOf(id uint) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.products[id].Stock
}

func (l *fakeLedger) totalSalesOf(id uint) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.products[id].TotalSales
}

func (l *fakeLedger) Save(ctx context.Context, product *catalogdomain.Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *product
	l.products[product.ID] = &cp
	return nil
}

func (l *fakeLedger) Update(ctx context.Context, product *catalogdomain.Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *product
	if existing, ok := l.products[product.ID]; ok {
		cp.Stock = existing.Stock
		cp.TotalSales = existing.TotalSales
	}
	l.products[product.ID] = &cp
	return nil
}

func (l *fakeLedger) SetStock(ctx context.Context, id uint, stock int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.products[id]
	if !ok {
		return catalogdomain.ErrProductNotFound
	}
	p.Stock = stock
	return nil
}

func (l *fakeLedger) GetByID(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (l *fakeLedger) GetBySlug(ctx context.Context, slug string) (*catalogdomain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (l *fakeLedger) List(ctx context.Context, filter catalogdomain.ListFilter, offset, limit int) ([]*catalogdomain.Product, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*catalogdomain.Product
	for _, p := range l.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (l *fakeLedger) DecrementStock(ctx context.Context, id uint, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.products[id]
	if !ok {
		return catalogdomain.ErrProductNotFound
	}
	if id == l.failDecrementFor || p.Stock < quantity {
		return &catalogdomain.InsufficientStockError{
			ProductID: id,
			Name:      p.Name,
			Requested: quantity,
			Available: p.Stock,
		}
	}
	p.Stock -= quantity
	p.TotalSales += quantity
	return nil
}

func (l *fakeLedger) RestoreStock(ctx context.Context, id uint, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.products[id]
	if !ok {
		return catalogdomain.ErrProductNotFound
	}
	p.Stock += quantity
	p.TotalSales -= quantity
	return nil
}

// fakeOrderRepo 内存订单仓储，MarkCancelled 与按日计数器语义与真实仓储一致
type fakeOrderRepo struct {
	mu       sync.Mutex
	orders   map[uint]*domain.Order
	counters map[string]int64
	nextID   uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*domain.Order), counters: make(map[string]int64)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp
}

func (r *fakeOrderRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	savedOrders := make(map[uint]*domain.Order, len(r.orders))
	for id, o := range r.orders {
		savedOrders[id] = cloneOrder(o)
	}
	savedCounters := make(map[string]int64, len(r.counters))
	for k, v := range r.counters {
		savedCounters[k] = v
	}
	savedNext := r.nextID
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.orders = savedOrders
		r.counters = savedCounters
		r.nextID = savedNext
	}
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) GetByIDForUser(ctx context.Context, id, userID uint) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			matched = append(matched, cloneOrder(o))
		}
	}
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

func (r *fakeOrderRepo) List(ctx context.Context, status domain.OrderStatus, offset, limit int) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Order
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			matched = append(matched, cloneOrder(o))
		}
	}
	return paginate(matched, offset, limit), int64(len(matched)), nil
}

func paginate(orders []*domain.Order, offset, limit int) []*domain.Order {
	if offset >= len(orders) {
		return nil
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end]
}

func (r *fakeOrderRepo) NextOrderNumber(ctx context.Context, prefix string, day time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := day.Format("20060102")
	r.counters[key]++
	return domain.FormatOrderNumber(prefix, day, r.counters[key]), nil
}

func (r *fakeOrderRepo) MarkCancelled(ctx context.Context, orderID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	if !o.CanBeCancelled() {
		return false, nil
	}
	o.Status = domain.OrderStatusCancelled
	o.PaymentStatus = domain.PaymentStatusRefunded
	return true, nil
}

// fakeCartRepo 内存购物车仓储
type fakeCartRepo struct {
	mu         sync.Mutex
	carts      map[uint]*cartdomain.Cart // 以用户 ID 为键
	nextCartID uint
	nextItemID uint
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uint]*cartdomain.Cart)}
}

func cloneCart(c *cartdomain.Cart) *cartdomain.Cart {
	cp := *c
	cp.Items = append([]cartdomain.CartItem(nil), c.Items...)
	return &cp
}

func (r *fakeCartRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uint]*cartdomain.Cart, len(r.carts))
	for userID, c := range r.carts {
		saved[userID] = cloneCart(c)
	}
	savedCartID, savedItemID := r.nextCartID, r.nextItemID
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.carts = saved
		r.nextCartID, r.nextItemID = savedCartID, savedItemID
	}
}

// seed 直接放入一条购物车行，用于构造测试前置状态
func (r *fakeCartRepo) seed(userID, productID uint, quantity int, price string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		r.nextCartID++
		cart = &cartdomain.Cart{UserID: userID}
		cart.ID = r.nextCartID
		r.carts[userID] = cart
	}
	r.nextItemID++
	item := cartdomain.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity, Price: mustDecimal(price)}
	item.ID = r.nextItemID
	cart.Items = append(cart.Items, item)
}

func (r *fakeCartRepo) itemCount(userID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return 0
	}
	return len(cart.Items)
}

func (r *fakeCartRepo) GetByUserID(ctx context.Context, userID uint) (*cartdomain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, cartdomain.ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (r *fakeCartRepo) GetOrCreateForUpdate(ctx context.Context, userID uint) (*cartdomain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		r.nextCartID++
		cart = &cartdomain.Cart{UserID: userID}
		cart.ID = r.nextCartID
		r.carts[userID] = cart
	}
	return cloneCart(cart), nil
}

func (r *fakeCartRepo) Save(ctx context.Context, cart *cartdomain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range cart.Items {
		if cart.Items[i].ID == 0 {
			r.nextItemID++
			cart.Items[i].ID = r.nextItemID
		}
	}
	r.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func (r *fakeCartRepo) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range r.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakeCartRepo) ClearItems(ctx context.Context, cartID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range r.carts {
		if cart.ID == cartID {
			cart.Items = nil
		}
	}
	return nil
}

// fakeAddressRepo 内存地址仓储
type fakeAddressRepo struct {
	mu        sync.Mutex
	addresses map[uint]*addressdomain.Address
}

func newFakeAddressRepo(addresses ...*addressdomain.Address) *fakeAddressRepo {
	r := &fakeAddressRepo{addresses: make(map[uint]*addressdomain.Address)}
	for _, a := range addresses {
		cp := *a
		r.addresses[a.ID] = &cp
	}
	return r
}

func (r *fakeAddressRepo) Save(ctx context.Context, address *addressdomain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if address.ID == 0 {
		address.ID = uint(len(r.addresses) + 1)
	}
	cp := *address
	r.addresses[address.ID] = &cp
	return nil
}

func (r *fakeAddressRepo) GetByIDForUser(ctx context.Context, id, userID uint) (*addressdomain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return nil, addressdomain.ErrAddressNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAddressRepo) ListByUser(ctx context.Context, userID uint) ([]*addressdomain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*addressdomain.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAddressRepo) Delete(ctx context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok || a.UserID != userID {
		return addressdomain.ErrAddressNotFound
	}
	delete(r.addresses, id)
	return nil
}

// capturePublisher 记录发布的事件
type capturePublisher struct {
	mu        sync.Mutex
	created   []string
	cancelled []string
}

func (p *capturePublisher) OrderCreated(ctx context.Context, order *domain.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, order.OrderNumber)
}

func (p *capturePublisher) OrderCancelled(ctx context.Context, order *domain.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, order.OrderNumber)
}

func (p *capturePublisher) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.created)
}

func (p *capturePublisher) cancelledCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cancelled)
}
