package ticket_test

import (
	"testing"
	"time"

	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/domain/model/ticket"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	printedAt = time.Date(2024, 6, 7, 20, 15, 0, 0, time.UTC)
	opts      = ticket.Options{Header: "Cantina da Praça", PrintedAt: printedAt}
)

func item(t *testing.T, name string, qty int, cents int64, note string) order.Item {
	t.Helper()
	i, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), name, qty, kernel.Cents(cents), note)
	require.NoError(t, err)
	return i
}

func deliveryOrder(t *testing.T, addr *address.ExtractedAddress, discount int64) *order.Order {
	t.Helper()
	c, err := order.NewCustomer("Marina", "11988887777", addr)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.Delivery, c, nil,
		[]order.Item{item(t, "Pizza Calabresa", 1, 4500, "bem passada"), item(t, "Guaraná 2L", 2, 1200, "")},
		order.Fees{DeliveryFee: kernel.Cents(800), Discount: kernel.Cents(discount)}, order.Pix, "troco para 100", printedAt)
	require.NoError(t, err)
	require.NoError(t, o.AssignNumber("D000007"))
	return o
}

func dineInOrder(t *testing.T, number int) *order.Order {
	t.Helper()
	c, err := order.NewCustomer("", "11988887777", nil)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.DineIn, c, &number,
		[]order.Item{item(t, "Feijoada", 2, 1000, ""), item(t, "Limonada", 1, 500, "sem gelo")},
		order.Fees{}, order.Cash, "", printedAt)
	require.NoError(t, err)
	require.NoError(t, o.AssignNumber("M000003"))
	return o
}

func TestRender_Kitchen(t *testing.T) {
	o := dineInOrder(t, 5)

	layout, err := ticket.Render(o, order.KitchenTicket, nil, opts)
	require.NoError(t, err)

	text := layout.Text()
	assert.True(t, layout.Cut)
	assert.Contains(t, text, "CANTINA DA PRAÇA\n")
	assert.Contains(t, text, "COZINHA\n")
	assert.Contains(t, text, "PEDIDO: M000003\n")
	assert.Contains(t, text, "TIPO: MESA\n")
	assert.Contains(t, text, "MESA: 5\n")
	assert.Contains(t, text, "HORA: 20:15\n")
	assert.Contains(t, text, "1. Feijoada\n   Qtd: 2\n")
	assert.Contains(t, text, "2. Limonada\n   Qtd: 1\n   Obs: sem gelo\n")
	assert.NotContains(t, text, "R$", "kitchen tickets carry no prices")
}

func TestRender_Delivery(t *testing.T) {
	addr := &address.ExtractedAddress{Street: "Rua das Flores", Number: "123", District: "Centro", Landmark: "portão azul"}
	o := deliveryOrder(t, addr, 300)

	layout, err := ticket.Render(o, order.DeliveryTicket, nil, opts)
	require.NoError(t, err)

	text := layout.Text()
	assert.Contains(t, text, "ENTREGA\n")
	assert.Contains(t, text, "DATA: 07/06/2024\n")
	assert.Contains(t, text, "Nome: Marina\n")
	assert.Contains(t, text, "Telefone: 11988887777\n")
	assert.Contains(t, text, "ENDEREÇO:\nRua das Flores, 123 - Centro\nReferência: portão azul\n")
	assert.Contains(t, text, "   Qtd: 2 x R$ 12,00\n   Subtotal: R$ 24,00\n")
	assert.Contains(t, text, "Subtotal: R$ 69,00\n")
	assert.Contains(t, text, "Taxa Entrega: R$ 8,00\n")
	assert.Contains(t, text, "Desconto: R$ 3,00\n")
	assert.Contains(t, text, "TOTAL: R$ 74,00\n")
	assert.Contains(t, text, "Pagamento: PIX\n")
	assert.Contains(t, text, "Status: PENDENTE\n")
	assert.Contains(t, text, "OBSERVAÇÕES:\ntroco para 100\n")
	assert.Contains(t, text, "OBRIGADO PELA PREFERÊNCIA!\n")

	for _, line := range layout.Lines {
		if line.Text == "TOTAL: R$ 74,00" {
			assert.Equal(t, ticket.Right, line.Align)
			assert.True(t, line.Bold)
		}
	}
}

func TestRender_DeliveryWithoutAddressOrDiscount(t *testing.T) {
	o := deliveryOrder(t, nil, 0)

	layout, err := ticket.Render(o, order.DeliveryTicket, nil, opts)
	require.NoError(t, err)

	assert.Contains(t, layout.Text(), "ENDEREÇO:\nNão informado\n")
	assert.NotContains(t, layout.Text(), "Desconto")
}

func TestRender_DineIn(t *testing.T) {
	o := dineInOrder(t, 5)
	tbl, err := table.NewTable(kernel.NewUUID(), 5, 4, "", printedAt)
	require.NoError(t, err)

	layout, err := ticket.Render(o, order.DineInTicket, tbl, opts)
	require.NoError(t, err)

	text := layout.Text()
	assert.Contains(t, text, "MESA\n")
	assert.Contains(t, text, "MESA: 5\n")
	assert.Contains(t, text, "Nome: -\n")
	assert.Contains(t, text, "TOTAL: R$ 25,00\n")
	assert.Contains(t, text, "Pagamento: DINHEIRO\n")
	assert.NotContains(t, text, "Taxa Entrega")
}

func TestRender_Rejections(t *testing.T) {
	dineIn := dineInOrder(t, 5)
	delivery := deliveryOrder(t, nil, 0)
	otherTable, err := table.NewTable(kernel.NewUUID(), 6, 4, "", printedAt)
	require.NoError(t, err)

	_, err = ticket.Render(dineIn, order.DeliveryTicket, nil, opts)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = ticket.Render(delivery, order.DineInTicket, otherTable, opts)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = ticket.Render(dineIn, order.DineInTicket, nil, opts)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = ticket.Render(dineIn, order.DineInTicket, otherTable, opts)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = ticket.Render(dineIn, order.UnknownTicketKind, nil, opts)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = ticket.Render(&order.Order{}, order.KitchenTicket, nil, opts)
	require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
}

func TestRender_IsPure(t *testing.T) {
	o := dineInOrder(t, 5)
	before := o.UpdatedAt()

	first, err := ticket.Render(o, order.KitchenTicket, nil, opts)
	require.NoError(t, err)
	second, err := ticket.Render(o, order.KitchenTicket, nil, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, o.IsPrinted(order.KitchenTicket))
	assert.Equal(t, before, o.UpdatedAt())
}

func TestTestPage(t *testing.T) {
	layout := ticket.TestPage(ticket.Options{PrintedAt: printedAt})

	assert.True(t, layout.Cut)
	assert.Contains(t, layout.Text(), "TESTE DE IMPRESSÃO\n")
	assert.Contains(t, layout.Text(), "07/06/2024 20:15\n")
}
