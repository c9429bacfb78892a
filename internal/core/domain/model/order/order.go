package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

const (
	// DefaultPrepMinutes is the preparation time assumed for new orders.
	DefaultPrepMinutes = 30
	// MaxPrepMinutes bounds the preparation time estimate.
	MaxPrepMinutes = 240
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Fees are the order-level amounts added to and subtracted from the item subtotal.
type Fees struct {
	DeliveryFee kernel.Money
	Discount    kernel.Money
}

// Order is the aggregate root of a customer's request. It exclusively owns its item
// list and monetary totals; the table binding of dine-in orders is written only by the
// table coordinator through the table number fixed at creation.
//
// Order follows these invariants:
//   - items are never empty
//   - subtotal and total are recomputed on every mutation and never stale
//   - the kind never changes, the table number is present iff the kind is DineIn
//   - the order number is assigned once
//   - print flags are monotonic
//   - updatedAt moves on every mutation
//
// Order is not safe for concurrent use. Callers serialize mutations per order.
type Order struct {
	id          kernel.UUID
	number      string
	kind        Kind
	customer    Customer
	tableNumber *int

	items    []Item
	fees     Fees
	subtotal kernel.Money
	total    kernel.Money

	paymentMethod PaymentMethod
	status        Status
	printFlags    PrintFlags
	notes         string
	prepMinutes   int

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a pending order with validated contents and computed totals.
//
// Parameters:
//   - id: unique identifier of the order
//   - kind: fulfillment channel, fixed for the lifetime of the order
//   - customer: customer data, only the phone is mandatory
//   - tableNumber: required for DineIn orders, must be nil otherwise
//   - items: at least one line
//   - fees: delivery fee (only for Delivery orders) and discount, both non-negative;
//     the discount may not exceed subtotal + delivery fee
//   - payment: payment method, UnknownPaymentMethod defaults to Cash
//   - notes: free text printed on kitchen and delivery tickets
//   - now: creation timestamp
//
// Returns:
//   - *Order: the created order, without a number yet (see AssignNumber)
//   - error: every validation failure joined together
//
// Example:
//
//	burger, _ := order.NewItem(kernel.NewUUID(), productID, "X-Burger", 2, kernel.Cents(1000), "sem cebola")
//	o, err := order.NewOrder(kernel.NewUUID(), order.DineIn, customer, &tableNumber,
//	    []order.Item{burger}, order.Fees{}, order.Cash, "", time.Now())
func NewOrder(
	id kernel.UUID,
	kind Kind,
	customer Customer,
	tableNumber *int,
	items []Item,
	fees Fees,
	payment PaymentMethod,
	notes string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		notes:         strings.TrimSpace(notes),
		prepMinutes:   DefaultPrepMinutes,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setKind(kind),
		o.setCustomer(customer),
		o.setTableNumber(tableNumber),
		o.setItems(items),
		o.setPaymentMethod(payment),
	); err != nil {
		return nil, err
	}

	if err := o.setFees(fees); err != nil {
		return nil, err
	}

	o.recompute()
	return o, nil
}

// Snapshot carries the persisted state of an order. It is used by repositories only.
type Snapshot struct {
	ID            kernel.UUID
	Number        string
	Kind          Kind
	Customer      Customer
	TableNumber   *int
	Items         []Item
	Fees          Fees
	PaymentMethod PaymentMethod
	Status        Status
	PrintFlags    PrintFlags
	Notes         string
	PrepMinutes   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RestoreOrder rebuilds an order loaded from storage. Totals are recomputed from the
// items rather than trusted from the stored row.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		number:        s.Number,
		status:        s.Status,
		printFlags:    s.PrintFlags,
		notes:         s.Notes,
		prepMinutes:   s.PrepMinutes,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		isConstructed: true,
		fees:          s.Fees,
	}

	var numberErr error
	if s.Number != "" {
		numberErr = validateNumber(s.Kind, s.Number)
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setKind(s.Kind),
		o.setCustomer(s.Customer),
		o.setTableNumber(s.TableNumber),
		o.setItems(s.Items),
		o.setPaymentMethod(s.PaymentMethod),
		s.Status.Validate(),
		numberErr,
	); err != nil {
		return nil, err
	}

	o.recompute()
	return o, nil
}

// Snapshot returns the order state in the form RestoreOrder accepts.
func (o *Order) Snapshot() Snapshot {
	var tableNumber *int
	if o.tableNumber != nil {
		n := *o.tableNumber
		tableNumber = &n
	}
	return Snapshot{
		ID:            o.id,
		Number:        o.number,
		Kind:          o.kind,
		Customer:      o.customer,
		TableNumber:   tableNumber,
		Items:         slices.Clone(o.items),
		Fees:          o.fees,
		PaymentMethod: o.paymentMethod,
		Status:        o.status,
		PrintFlags:    o.printFlags,
		Notes:         o.notes,
		PrepMinutes:   o.prepMinutes,
		CreatedAt:     o.createdAt,
		UpdatedAt:     o.updatedAt,
	}
}

// Validate ensures the Order instance was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) Number() string               { return o.number }
func (o *Order) Kind() Kind                   { return o.kind }
func (o *Order) Customer() Customer           { return o.customer }
func (o *Order) Subtotal() kernel.Money       { return o.subtotal }
func (o *Order) DeliveryFee() kernel.Money    { return o.fees.DeliveryFee }
func (o *Order) Discount() kernel.Money       { return o.fees.Discount }
func (o *Order) Total() kernel.Money          { return o.total }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PrintFlags() PrintFlags       { return o.printFlags }
func (o *Order) Notes() string                { return o.notes }
func (o *Order) PrepMinutes() int             { return o.prepMinutes }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// HasNumber reports whether AssignNumber already ran.
func (o *Order) HasNumber() bool {
	return o.number != ""
}

// TableNumber returns the table of a dine-in order. ok is false for other kinds.
func (o *Order) TableNumber() (number int, ok bool) {
	if o.tableNumber == nil {
		return 0, false
	}
	return *o.tableNumber, true
}

// Items returns a copy of the order lines in insertion order.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

// IsActive reports whether the order has not reached a terminal status.
func (o *Order) IsActive() bool {
	return !o.status.IsTerminal()
}

// IsPrinted reports whether the ticket of kind was already sent to the printer.
func (o *Order) IsPrinted(kind TicketKind) bool {
	return o.printFlags.Has(kind)
}

// ComputeTotal returns subtotal + delivery fee − discount computed from the current
// items. It has no side effects and always equals Total().
func (o *Order) ComputeTotal() kernel.Money {
	return computeSubtotal(o.items).Add(o.fees.DeliveryFee).Sub(o.fees.Discount)
}

// AddItem appends a line and recomputes the totals.
//
// Returns:
//   - InvalidStateError if the status no longer allows item changes
//   - ValueIsInvalidError if the item is not constructed or its id is already used
func (o *Order) AddItem(item Item, now time.Time) error {
	if !o.status.AllowsItemChanges() {
		return errs.NewInvalidStateError("order", o.status.String(), "add item")
	}
	if err := item.Validate(); err != nil {
		return err
	}
	if o.indexOf(item.ID()) >= 0 {
		return errs.NewValueIsInvalidErrorWithCause("item", fmt.Errorf("item %s already exists", item.ID()))
	}

	o.items = append(o.items, item)
	o.recompute()
	o.touch(now)
	return nil
}

// RemoveItem deletes the line with itemID and recomputes the totals.
//
// Returns:
//   - InvalidStateError if the status no longer allows item changes
//   - ObjectNotFoundError if no line has itemID
//   - ValueIsInvalidError if the line is the last one, or if the remaining subtotal
//     plus delivery fee would fall below the discount
func (o *Order) RemoveItem(itemID kernel.UUID, now time.Time) error {
	if !o.status.AllowsItemChanges() {
		return errs.NewInvalidStateError("order", o.status.String(), "remove item")
	}

	idx := o.indexOf(itemID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("item", itemID.String())
	}
	if len(o.items) == 1 {
		return errs.NewValueIsInvalidErrorWithCause("items", errors.New("an order must keep at least one item"))
	}

	remaining := slices.Delete(slices.Clone(o.items), idx, idx+1)
	if o.fees.Discount > computeSubtotal(remaining).Add(o.fees.DeliveryFee) {
		return errs.NewValueIsInvalidErrorWithCause(
			"discount",
			fmt.Errorf("removing the item would leave a discount of %s above the order amount", o.fees.Discount),
		)
	}

	o.items = remaining
	o.recompute()
	o.touch(now)
	return nil
}

// TransitionStatus moves the order to next following the Status state machine.
// Releasing the table of a dine-in order is the caller's responsibility.
func (o *Order) TransitionStatus(next Status, now time.Time) error {
	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.recompute()
	o.touch(now)
	return nil
}

// Cancel moves a non-terminal order to Canceled.
func (o *Order) Cancel(now time.Time) error {
	return o.TransitionStatus(Canceled, now)
}

// AssignNumber sets the order number. It fails with InvalidStateError when a number
// is already assigned and with ValueIsInvalidError when the number does not match the
// kind prefix and format (see FormatNumber).
func (o *Order) AssignNumber(number string) error {
	if o.HasNumber() {
		return errs.NewInvalidStateError("order", "numbered "+o.number, "assign number")
	}
	if err := validateNumber(o.kind, number); err != nil {
		return err
	}
	o.number = number
	return nil
}

// MarkPrinted sets the print flag of kind. Marking an already printed kind keeps it set.
func (o *Order) MarkPrinted(kind TicketKind, now time.Time) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.printFlags = o.printFlags.with(kind)
	o.touch(now)
	return nil
}

// SetPrepMinutes updates the preparation estimate of an active order.
func (o *Order) SetPrepMinutes(minutes int, now time.Time) error {
	if o.status.IsTerminal() {
		return errs.NewInvalidStateError("order", o.status.String(), "change preparation time")
	}
	if minutes < 1 || minutes > MaxPrepMinutes {
		return errs.NewValueIsOutOfRangeError("preparation minutes", minutes, 1, MaxPrepMinutes)
	}
	o.prepMinutes = minutes
	o.touch(now)
	return nil
}

func (o *Order) indexOf(itemID kernel.UUID) int {
	return slices.IndexFunc(o.items, func(i Item) bool { return i.ID().IsEqual(itemID) })
}

func (o *Order) recompute() {
	o.subtotal = computeSubtotal(o.items)
	o.total = o.subtotal.Add(o.fees.DeliveryFee).Sub(o.fees.Discount)
}

func (o *Order) touch(now time.Time) {
	if now.After(o.updatedAt) {
		o.updatedAt = now
	}
}

func computeSubtotal(items []Item) kernel.Money {
	var sum kernel.Money
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.kind = kind
	return nil
}

func (o *Order) setCustomer(customer Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	o.customer = customer
	return nil
}

// setTableNumber must run after setKind.
func (o *Order) setTableNumber(tableNumber *int) error {
	if o.kind != DineIn {
		if tableNumber != nil {
			return errs.NewValueIsInvalidErrorWithCause(
				"table number",
				fmt.Errorf("%s orders are not served at a table", o.kind),
			)
		}
		return nil
	}
	if tableNumber == nil {
		return errs.NewValueIsRequiredError("table number")
	}
	if *tableNumber < 1 {
		return errs.NewValueIsInvalidErrorWithCause("table number", fmt.Errorf("%d is not positive", *tableNumber))
	}
	n := *tableNumber
	o.tableNumber = &n
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.ID()]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %s appears twice", item.ID()))
		}
		seen[item.ID()] = struct{}{}
	}

	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if method == UnknownPaymentMethod {
		method = Cash
	}
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

// setFees must run after setKind and setItems.
func (o *Order) setFees(fees Fees) error {
	var feeErr, discountErr error
	switch {
	case fees.DeliveryFee.IsNegative():
		feeErr = errs.NewValueIsInvalidErrorWithCause("delivery fee", fmt.Errorf("%s is negative", fees.DeliveryFee))
	case fees.DeliveryFee.IsPositive() && o.kind != Delivery:
		feeErr = errs.NewValueIsInvalidErrorWithCause(
			"delivery fee",
			fmt.Errorf("%s orders cannot carry a delivery fee", o.kind),
		)
	}

	ceiling := computeSubtotal(o.items).Add(fees.DeliveryFee)
	switch {
	case fees.Discount.IsNegative():
		discountErr = errs.NewValueIsInvalidErrorWithCause("discount", fmt.Errorf("%s is negative", fees.Discount))
	case fees.Discount > ceiling:
		discountErr = errs.NewValueIsOutOfRangeError("discount", fees.Discount, kernel.Zero, ceiling)
	}

	if err := errors.Join(feeErr, discountErr); err != nil {
		return err
	}
	o.fees = fees
	return nil
}
