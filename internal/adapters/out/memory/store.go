// Package memory is an in-process implementation of the unit of work and the
// repositories. Writes are staged per unit of work and applied on Commit; reads see
// committed data plus the unit's own staged writes. It backs the application tests
// and never takes row locks: callers serialize through the key locker as they do
// with the database adapter.
package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"

	"gorm.io/gorm"
)

// Store holds committed state.
type Store struct {
	mu        sync.Mutex
	orders    map[kernel.UUID]*order.Order
	tables    map[int]*table.Table
	products  map[kernel.UUID]*product.Product
	sequences map[order.Kind]int64
}

func NewStore() *Store {
	return &Store{
		orders:    make(map[kernel.UUID]*order.Order),
		tables:    make(map[int]*table.Table),
		products:  make(map[kernel.UUID]*product.Product),
		sequences: make(map[order.Kind]int64),
	}
}

// Create returns a new unit of work over the store.
func (s *Store) Create() ports.UnitOfWork {
	return s.NewUnitOfWork()
}

// NewUnitOfWork returns the concrete unit of work, which also satisfies the narrower
// unit of work interfaces of the application layer.
func (s *Store) NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{store: s}
}

type staged struct {
	orders        map[kernel.UUID]*order.Order
	tables        map[int]*table.Table
	deletedTables map[int]bool
	products      map[kernel.UUID]*product.Product
}

// UnitOfWork stages writes until Commit.
type UnitOfWork struct {
	store *Store
	tx    *staged
}

func (u *UnitOfWork) Begin(context.Context) error {
	if u.tx != nil {
		return nil
	}
	u.tx = &staged{
		orders:        make(map[kernel.UUID]*order.Order),
		tables:        make(map[int]*table.Table),
		deletedTables: make(map[int]bool),
		products:      make(map[kernel.UUID]*product.Product),
	}
	return nil
}

func (u *UnitOfWork) Commit(context.Context) error {
	if u.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range u.tx.orders {
		s.orders[id] = o
	}
	for number := range u.tx.deletedTables {
		delete(s.tables, number)
	}
	for number, t := range u.tx.tables {
		s.tables[number] = t
	}
	for id, p := range u.tx.products {
		s.products[id] = p
	}
	u.tx = nil
	return nil
}

func (u *UnitOfWork) Rollback(context.Context) error {
	if u.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	u.tx = nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository         { return orderRepository{u} }
func (u *UnitOfWork) TableRepository() ports.TableRepository         { return tableRepository{u} }
func (u *UnitOfWork) ProductRepository() ports.ProductRepository     { return productRepository{u} }
func (u *UnitOfWork) OrderNumberSequence() ports.OrderNumberSequence { return sequence{u.store} }

func (u *UnitOfWork) requireTx() error {
	if u.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return nil
}

type orderRepository struct{ u *UnitOfWork }

func (r orderRepository) Add(_ context.Context, o *order.Order) error {
	if err := errors.Join(r.u.requireTx(), o.Validate()); err != nil {
		return err
	}
	if _, err := r.lookup(o.ID()); err == nil {
		return errs.NewConflictError("order "+o.ID().String(), "already exists")
	}
	return r.stage(o)
}

func (r orderRepository) Update(_ context.Context, o *order.Order) error {
	if err := errors.Join(r.u.requireTx(), o.Validate()); err != nil {
		return err
	}
	if _, err := r.lookup(o.ID()); err != nil {
		return err
	}
	return r.stage(o)
}

func (r orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return cloneOrder(o)
}

func (r orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r orderRepository) GetActiveByPhone(_ context.Context, phone kernel.Phone) (*order.Order, error) {
	var found *order.Order
	for _, o := range r.all() {
		if !o.IsActive() || !o.Customer().Phone().IsEqual(phone) {
			continue
		}
		if found == nil || o.CreatedAt().After(found.CreatedAt()) {
			found = o
		}
	}
	if found == nil {
		return nil, errs.NewObjectNotFoundError("active order for phone", phone.String())
	}
	return cloneOrder(found)
}

func (r orderRepository) ListUnprinted(_ context.Context, kind order.TicketKind, limit int) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.all() {
		if !o.IsActive() || o.IsPrinted(kind) {
			continue
		}
		c, err := cloneOrder(o)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *order.Order) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r orderRepository) stage(o *order.Order) error {
	c, err := cloneOrder(o)
	if err != nil {
		return err
	}
	r.u.tx.orders[o.ID()] = c
	return nil
}

func (r orderRepository) lookup(id kernel.UUID) (*order.Order, error) {
	if r.u.tx != nil {
		if o, ok := r.u.tx.orders[id]; ok {
			return o, nil
		}
	}
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, errs.NewObjectNotFoundError("order", id.String())
}

func (r orderRepository) all() []*order.Order {
	s := r.u.store
	s.mu.Lock()
	merged := make(map[kernel.UUID]*order.Order, len(s.orders))
	for id, o := range s.orders {
		merged[id] = o
	}
	s.mu.Unlock()
	if r.u.tx != nil {
		for id, o := range r.u.tx.orders {
			merged[id] = o
		}
	}
	out := make([]*order.Order, 0, len(merged))
	for _, o := range merged {
		out = append(out, o)
	}
	return out
}

type tableRepository struct{ u *UnitOfWork }

func (r tableRepository) Add(_ context.Context, t *table.Table) error {
	if err := errors.Join(r.u.requireTx(), t.Validate()); err != nil {
		return err
	}
	if _, err := r.lookup(t.Number()); err == nil {
		return errs.NewConflictError(fmt.Sprintf("table %d", t.Number()), "already exists")
	}
	delete(r.u.tx.deletedTables, t.Number())
	return r.stage(t)
}

func (r tableRepository) Update(_ context.Context, t *table.Table) error {
	if err := errors.Join(r.u.requireTx(), t.Validate()); err != nil {
		return err
	}
	if _, err := r.lookup(t.Number()); err != nil {
		return err
	}
	return r.stage(t)
}

func (r tableRepository) stage(t *table.Table) error {
	c, err := cloneTable(t)
	if err != nil {
		return err
	}
	r.u.tx.tables[t.Number()] = c
	return nil
}

func (r tableRepository) GetByNumber(_ context.Context, number int) (*table.Table, error) {
	t, err := r.lookup(number)
	if err != nil {
		return nil, err
	}
	return cloneTable(t)
}

func (r tableRepository) GetByNumberForUpdate(ctx context.Context, number int) (*table.Table, error) {
	return r.GetByNumber(ctx, number)
}

func (r tableRepository) Delete(_ context.Context, id kernel.UUID) error {
	if err := r.u.requireTx(); err != nil {
		return err
	}
	s := r.u.store
	s.mu.Lock()
	numbers := make(map[int]*table.Table, len(s.tables))
	for n, t := range s.tables {
		numbers[n] = t
	}
	s.mu.Unlock()
	for n, t := range r.u.tx.tables {
		numbers[n] = t
	}
	for n, t := range numbers {
		if t.ID().IsEqual(id) && !r.u.tx.deletedTables[n] {
			delete(r.u.tx.tables, n)
			r.u.tx.deletedTables[n] = true
			return nil
		}
	}
	return errs.NewObjectNotFoundError("table", id.String())
}

func (r tableRepository) lookup(number int) (*table.Table, error) {
	if r.u.tx != nil {
		if t, ok := r.u.tx.tables[number]; ok {
			return t, nil
		}
		if r.u.tx.deletedTables[number] {
			return nil, errs.NewObjectNotFoundError("table", number)
		}
	}
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[number]; ok {
		return t, nil
	}
	return nil, errs.NewObjectNotFoundError("table", number)
}

type productRepository struct{ u *UnitOfWork }

func (r productRepository) Add(_ context.Context, p *product.Product) error {
	if err := errors.Join(r.u.requireTx(), p.Validate()); err != nil {
		return err
	}
	for _, existing := range r.all() {
		if existing.ID().IsEqual(p.ID()) {
			return errs.NewConflictError("product "+p.ID().String(), "already exists")
		}
		if p.Code() != "" && existing.Code() == p.Code() {
			return errs.NewConflictError("product code "+p.Code(), "already exists")
		}
	}
	return r.stage(p)
}

func (r productRepository) Update(ctx context.Context, p *product.Product) error {
	if err := errors.Join(r.u.requireTx(), p.Validate()); err != nil {
		return err
	}
	if _, err := r.Get(ctx, p.ID()); err != nil {
		return err
	}
	return r.stage(p)
}

func (r productRepository) Get(_ context.Context, id kernel.UUID) (*product.Product, error) {
	for _, p := range r.all() {
		if p.ID().IsEqual(id) {
			return cloneProduct(p)
		}
	}
	return nil, errs.NewObjectNotFoundError("product", id.String())
}

func (r productRepository) stage(p *product.Product) error {
	c, err := cloneProduct(p)
	if err != nil {
		return err
	}
	r.u.tx.products[p.ID()] = c
	return nil
}

func (r productRepository) all() []*product.Product {
	s := r.u.store
	s.mu.Lock()
	merged := make(map[kernel.UUID]*product.Product, len(s.products))
	for id, p := range s.products {
		merged[id] = p
	}
	s.mu.Unlock()
	if r.u.tx != nil {
		for id, p := range r.u.tx.products {
			merged[id] = p
		}
	}
	out := make([]*product.Product, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *product.Product) int { return cmp.Compare(a.Name(), b.Name()) })
	return out
}

// sequence increments immediately; values consumed by a rolled back unit are skipped.
type sequence struct{ store *Store }

func (q sequence) Next(_ context.Context, kind order.Kind) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	q.store.sequences[kind]++
	return q.store.sequences[kind], nil
}

func cloneOrder(o *order.Order) (*order.Order, error) {
	return order.RestoreOrder(o.Snapshot())
}

func cloneTable(t *table.Table) (*table.Table, error) {
	var current *kernel.UUID
	if id, ok := t.CurrentOrder(); ok {
		current = &id
	}
	return table.RestoreTable(t.ID(), t.Number(), t.Capacity(), t.Status(), current,
		t.AssignedStaff(), t.Notes(), t.CreatedAt(), t.UpdatedAt())
}

func cloneProduct(p *product.Product) (*product.Product, error) {
	return product.RestoreProduct(p.ID(), p.Code(), p.Name(), p.Category(), p.Price(), p.Description(), p.IsAvailable())
}
