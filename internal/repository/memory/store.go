// Package memory is an in-process record store with the same contracts as the
// PostgreSQL repositories: unique names, foreign keys, restrict/cascade deletes
// and the guarded stock decrement. All state lives behind one mutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"catalog_service/internal/domain"
)

type Store struct {
	mu         sync.Mutex
	categories map[int]domain.Category
	products   map[int]domain.Product
	orders     map[int]domain.Order
	items      map[int]domain.OrderItem
	lastID     map[string]int
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		categories: make(map[int]domain.Category),
		products:   make(map[int]domain.Product),
		orders:     make(map[int]domain.Order),
		items:      make(map[int]domain.OrderItem),
		lastID:     make(map[string]int),
		now:        time.Now,
	}
}

func (s *Store) Categories() domain.CategoryRepository { return categoryRepo{s} }

func (s *Store) Products() domain.ProductRepository { return productRepo{s} }

func (s *Store) Orders() domain.OrderRepository { return orderRepo{s} }

func (s *Store) OrderItems() domain.OrderItemRepository { return orderItemRepo{s} }

func (s *Store) nextID(table string) int {
	s.lastID[table]++
	return s.lastID[table]
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func copyText(p *string) *string {
	if p == nil {
		return nil
	}
	return optionalText(*p)
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) nameTaken(name string, exceptID int) bool {
	for id, c := range r.s.categories {
		if id != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func (r categoryRepo) CreateCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(category.Name, 0) {
		return nil, fmt.Errorf("category with name '%s' %w", category.Name, domain.ErrAlreadyExists)
	}
	category.ID = r.s.nextID("categories")
	category.CreatedAt = r.s.now()
	category.Description = copyText(category.Description)
	r.s.categories[category.ID] = *category
	return category, nil
}

func (r categoryRepo) GetCategoryByID(_ context.Context, id int) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.NotFoundf("category with id %d", id)
	}
	return &c, nil
}

func (r categoryRepo) UpdateCategory(_ context.Context, id int, patch domain.CategoryPatch) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.NotFoundf("category with id %d", id)
	}
	if name, ok := patch.Name.Get(); ok {
		if r.nameTaken(name, id) {
			return nil, fmt.Errorf("category with name '%s' %w", name, domain.ErrAlreadyExists)
		}
		c.Name = name
	}
	if description, ok := patch.Description.Get(); ok {
		c.Description = optionalText(description)
	}
	r.s.categories[id] = c
	return &c, nil
}

func (r categoryRepo) DeleteCategory(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return domain.NotFoundf("category with id %d", id)
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return fmt.Errorf("category with id %d has products and is %w", id, domain.ErrInUse)
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r categoryRepo) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	categories := make([]domain.Category, 0, len(r.s.categories))
	for _, id := range sortedKeys(r.s.categories) {
		categories = append(categories, r.s.categories[id])
	}
	return categories, nil
}

type productRepo struct{ s *Store }

func (r productRepo) nameTaken(name string, exceptID int) bool {
	for id, p := range r.s.products {
		if id != exceptID && p.Name == name {
			return true
		}
	}
	return false
}

func (r productRepo) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return nil, domain.NotFoundf("category with id %d", product.CategoryID)
	}
	if r.nameTaken(product.Name, 0) {
		return nil, fmt.Errorf("product with name '%s' %w", product.Name, domain.ErrAlreadyExists)
	}
	if product.Stock < 0 || product.Price.IsNegative() {
		return nil, domain.InvalidArgumentf("product data constraint violation")
	}
	product.ID = r.s.nextID("products")
	product.CreatedAt = r.s.now()
	product.Description = copyText(product.Description)
	product.ImageURL = copyText(product.ImageURL)
	r.s.products[product.ID] = *product
	return product, nil
}

func (r productRepo) GetProductByID(_ context.Context, id int) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.NotFoundf("product with id %d", id)
	}
	return &p, nil
}

func (r productRepo) UpdateProduct(_ context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.NotFoundf("product with id %d", id)
	}
	if name, ok := patch.Name.Get(); ok {
		if r.nameTaken(name, id) {
			return nil, fmt.Errorf("product with name '%s' %w", name, domain.ErrAlreadyExists)
		}
		p.Name = name
	}
	if description, ok := patch.Description.Get(); ok {
		p.Description = optionalText(description)
	}
	if price, ok := patch.Price.Get(); ok {
		p.Price = price
	}
	if stock, ok := patch.Stock.Get(); ok {
		p.Stock = stock
	}
	if imageURL, ok := patch.ImageURL.Get(); ok {
		p.ImageURL = optionalText(imageURL)
	}
	if p.Stock < 0 || p.Price.IsNegative() {
		return nil, domain.InvalidArgumentf("product data constraint violation")
	}
	r.s.products[id] = p
	return &p, nil
}

func (r productRepo) DeleteProduct(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return domain.NotFoundf("product with id %d", id)
	}
	for _, item := range r.s.items {
		if item.ProductID == id {
			return fmt.Errorf("product with id %d has order items and is %w", id, domain.ErrInUse)
		}
	}
	delete(r.s.products, id)
	return nil
}

func (r productRepo) ListProducts(_ context.Context) ([]domain.Product, error) {
	return r.filter(func(domain.Product) bool { return true }), nil
}

func (r productRepo) ListProductsByCategory(_ context.Context, categoryID int) ([]domain.Product, error) {
	return r.filter(func(p domain.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r productRepo) filter(keep func(domain.Product) bool) []domain.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	products := []domain.Product{}
	for _, id := range sortedKeys(r.s.products) {
		if p := r.s.products[id]; keep(p) {
			products = append(products, p)
		}
	}
	return products
}

type orderRepo struct{ s *Store }

// withItems must be called with the lock held.
func (r orderRepo) withItems(o domain.Order) domain.Order {
	o.Items = []domain.OrderItem{}
	for _, id := range sortedKeys(r.s.items) {
		if item := r.s.items[id]; item.OrderID == o.ID {
			o.Items = append(o.Items, item)
		}
	}
	return o
}

func (r orderRepo) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order.ID = r.s.nextID("orders")
	order.CreatedAt = r.s.now()
	order.Items = []domain.OrderItem{}
	stored := *order
	stored.Items = nil
	r.s.orders[order.ID] = stored
	return order, nil
}

func (r orderRepo) GetOrderByID(_ context.Context, id int) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, domain.NotFoundf("order with id %d", id)
	}
	o = r.withItems(o)
	return &o, nil
}

func (r orderRepo) UpdateOrder(_ context.Context, id int, patch domain.OrderPatch) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, domain.NotFoundf("order with id %d", id)
	}
	if status, ok := patch.Status.Get(); ok {
		o.Status = status
	}
	r.s.orders[id] = o
	o = r.withItems(o)
	return &o, nil
}

func (r orderRepo) DeleteOrder(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[id]; !ok {
		return domain.NotFoundf("order with id %d", id)
	}
	for itemID, item := range r.s.items {
		if item.OrderID == id {
			delete(r.s.items, itemID)
		}
	}
	delete(r.s.orders, id)
	return nil
}

func (r orderRepo) ListOrders(_ context.Context) ([]domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orders := make([]domain.Order, 0, len(r.s.orders))
	for _, id := range sortedKeys(r.s.orders) {
		orders = append(orders, r.withItems(r.s.orders[id]))
	}
	return orders, nil
}

type orderItemRepo struct{ s *Store }

func (r orderItemRepo) PlaceOrderItem(_ context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[item.ProductID]
	if !ok {
		return nil, domain.NotFoundf("product with id %d", item.ProductID)
	}
	if product.Stock < item.Quantity {
		return nil, fmt.Errorf("product %d has %d in stock, requested %d: %w",
			item.ProductID, product.Stock, item.Quantity, domain.ErrInsufficientStock)
	}
	if _, ok := r.s.orders[item.OrderID]; !ok {
		return nil, domain.NotFoundf("order with id %d", item.OrderID)
	}

	product.Stock -= item.Quantity
	r.s.products[product.ID] = product

	item.ID = r.s.nextID("order_items")
	item.PriceAtPurchase = product.Price
	r.s.items[item.ID] = *item
	return item, nil
}

func (r orderItemRepo) GetOrderItemByID(_ context.Context, id int) (*domain.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[id]
	if !ok {
		return nil, domain.NotFoundf("order item with id %d", id)
	}
	return &item, nil
}

func (r orderItemRepo) ListOrderItems(_ context.Context) ([]domain.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := make([]domain.OrderItem, 0, len(r.s.items))
	for _, id := range sortedKeys(r.s.items) {
		items = append(items, r.s.items[id])
	}
	return items, nil
}
