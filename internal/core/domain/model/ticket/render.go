package ticket

import (
	"fmt"
	"strings"
	"time"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/pkg/errs"
)

const (
	ruleWide   = "=================="
	ruleNarrow = "------"
)

// Options carry the values a ticket prints besides the order itself.
type Options struct {
	// Header is an optional first line, usually the restaurant name.
	Header string
	// PrintedAt is the date and time printed on the ticket.
	PrintedAt time.Time
}

// Render builds the layout of kind for o.
//
// Layouts:
//   - kitchen: number, kind, time, items with quantities and notes, order notes. No prices.
//   - delivery: customer, address, items with unit and line prices, subtotal, fee,
//     discount when positive, total, payment method, status and notes.
//   - dine-in: table number, customer, items with prices, total, payment method and status.
//
// A delivery ticket requires a delivery order. A dine-in ticket requires a dine-in order
// and its table; tbl must be the table the order references. Violations are
// validation errors.
func Render(o *order.Order, kind order.TicketKind, tbl *table.Table, opts Options) (Layout, error) {
	if err := o.Validate(); err != nil {
		return Layout{}, err
	}

	switch kind {
	case order.KitchenTicket:
		return renderKitchen(o, opts), nil
	case order.DeliveryTicket:
		if o.Kind() != order.Delivery {
			return Layout{}, errs.NewValueIsInvalidErrorWithCause(
				"ticket kind",
				fmt.Errorf("order %s is a %s order, not a delivery", o.Number(), o.Kind()),
			)
		}
		return renderDelivery(o, opts), nil
	case order.DineInTicket:
		number, ok := o.TableNumber()
		if !ok {
			return Layout{}, errs.NewValueIsInvalidErrorWithCause(
				"ticket kind",
				fmt.Errorf("order %s is a %s order, not a dine-in", o.Number(), o.Kind()),
			)
		}
		if tbl == nil {
			return Layout{}, errs.NewValueIsRequiredError("table")
		}
		if tbl.Number() != number {
			return Layout{}, errs.NewValueIsInvalidErrorWithCause(
				"table",
				fmt.Errorf("order %s is served at table %d, not %d", o.Number(), number, tbl.Number()),
			)
		}
		return renderDineIn(o, tbl, opts), nil
	case order.UnknownTicketKind:
	}
	return Layout{}, kind.Validate()
}

// TestPage is the layout printed to check a freshly connected printer.
func TestPage(opts Options) Layout {
	b := &builder{}
	b.setAlign(Center)
	header(b, opts)
	b.bold("TESTE DE IMPRESSÃO").
		text(ruleWide).
		text(opts.PrintedAt.Format("02/01/2006 15:04")).
		text("Acentuação: ÁÉÍÓÚ ÃÕ Ç áéíóú ãõ ç").
		blank()
	return b.layout()
}

func renderKitchen(o *order.Order, opts Options) Layout {
	b := &builder{}
	b.setAlign(Center)
	header(b, opts)
	b.bold("COZINHA").
		text(ruleWide).
		blank().
		bold("PEDIDO: " + o.Number()).
		text("TIPO: " + o.Kind().Label())
	if n, ok := o.TableNumber(); ok {
		b.text(fmt.Sprintf("MESA: %d", n))
	}
	b.text("HORA: " + opts.PrintedAt.Format("15:04")).
		blank()

	b.setAlign(Left).
		text("ITENS PARA PREPARAR:").
		text(ruleWide + "==").
		blank()
	for i, item := range o.Items() {
		b.bold(fmt.Sprintf("%d. %s", i+1, item.Name())).
			text(fmt.Sprintf("   Qtd: %d", item.Quantity()))
		if item.Note() != "" {
			b.text("   Obs: " + item.Note())
		}
		b.blank()
	}

	if o.Notes() != "" {
		b.text("OBSERVAÇÕES:").
			text("------------").
			text(o.Notes()).
			blank()
	}

	b.text(ruleWide).
		setAlign(Center).
		text(fmt.Sprintf("PREPARO ESTIMADO: %d MIN", o.PrepMinutes())).
		text("PREPARAR COM CARINHO!").
		blank()
	return b.layout()
}

func renderDelivery(o *order.Order, opts Options) Layout {
	b := &builder{}
	b.setAlign(Center)
	header(b, opts)
	b.bold("ENTREGA").
		text(ruleWide).
		blank().
		bold("PEDIDO: " + o.Number()).
		text("DATA: " + opts.PrintedAt.Format("02/01/2006")).
		text("HORA: " + opts.PrintedAt.Format("15:04")).
		blank()

	b.setAlign(Left)
	customer(b, o.Customer())

	addressText := "Não informado"
	if addr := o.Customer().Address(); addr != nil && addr.IsValid() {
		addressText = addr.Format()
	}
	b.text("ENDEREÇO:")
	for _, line := range strings.Split(addressText, "\n") {
		b.text(line)
	}
	b.blank()

	pricedItems(b, o)

	b.text(ruleWide).
		setAlign(Right).
		text("Subtotal: " + o.Subtotal().String()).
		text("Taxa Entrega: " + o.DeliveryFee().String())
	if o.Discount().IsPositive() {
		b.text("Desconto: " + o.Discount().String())
	}
	b.bold("TOTAL: " + o.Total().String()).
		blank()

	footer(b, o)
	return b.layout()
}

func renderDineIn(o *order.Order, tbl *table.Table, opts Options) Layout {
	b := &builder{}
	b.setAlign(Center)
	header(b, opts)
	b.bold("MESA").
		text(ruleWide).
		blank().
		bold("PEDIDO: " + o.Number()).
		bold(fmt.Sprintf("MESA: %d", tbl.Number())).
		text("DATA: " + opts.PrintedAt.Format("02/01/2006")).
		text("HORA: " + opts.PrintedAt.Format("15:04")).
		blank()

	b.setAlign(Left)
	customer(b, o.Customer())
	pricedItems(b, o)

	b.text(ruleWide).
		setAlign(Right).
		bold("TOTAL: " + o.Total().String()).
		blank()

	footer(b, o)
	return b.layout()
}

func header(b *builder, opts Options) {
	if opts.Header != "" {
		b.bold(strings.ToUpper(opts.Header)).blank()
	}
}

func customer(b *builder, c order.Customer) {
	b.text("CLIENTE:").
		text("Nome: " + valueOr(c.Name(), "-")).
		text("Telefone: " + c.Phone().String()).
		blank()
}

func pricedItems(b *builder, o *order.Order) {
	b.text("ITENS:").
		text(ruleNarrow).
		blank()
	for i, item := range o.Items() {
		b.text(fmt.Sprintf("%d. %s", i+1, item.Name())).
			text(fmt.Sprintf("   Qtd: %d x %s", item.Quantity(), item.UnitPrice())).
			text("   Subtotal: " + item.LineTotal().String())
		if item.Note() != "" {
			b.text("   Obs: " + item.Note())
		}
		b.blank()
	}
}

func footer(b *builder, o *order.Order) {
	b.setAlign(Left).
		text("Pagamento: " + strings.ToUpper(o.PaymentMethod().Label())).
		text("Status: " + strings.ToUpper(o.Status().Label()))
	if o.Notes() != "" {
		b.blank().
			text("OBSERVAÇÕES:").
			text(o.Notes())
	}
	b.blank().
		text(ruleWide).
		setAlign(Center).
		text("OBRIGADO PELA PREFERÊNCIA!").
		blank()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
