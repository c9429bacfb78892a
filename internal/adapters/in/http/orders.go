package http

import (
	"errors"
	"net/http"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

type StatusChangeDTO struct {
	Order         OrderDTO  `json:"order"`
	Table         *TableDTO `json:"table,omitempty"`
	TableReleased bool      `json:"table_released"`
}

// ListOrders handles GET /api/v1/orders?status=&kind=&limit=.
func (s *Server) ListOrders(c echo.Context) error {
	var (
		status *order.Status
		kind   *order.Kind
	)
	rawStatus, err := queryString(c, "status")
	if err != nil {
		return err
	}
	if rawStatus != "" {
		st, err := order.ParseStatus(rawStatus)
		if err != nil {
			return err
		}
		status = &st
	}
	rawKind, err := queryString(c, "kind")
	if err != nil {
		return err
	}
	if rawKind != "" {
		k, err := order.ParseKind(rawKind)
		if err != nil {
			return err
		}
		kind = &k
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(status, kind, limit)
	if err != nil {
		return err
	}
	orders, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]OrderSummaryDTO, 0, len(orders))
	for _, o := range orders {
		response = append(response, orderSummaryFromView(o))
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}
	details, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderFromView(details))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	params, err := s.createOrderParams(req)
	if err != nil {
		return err
	}
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), params)
	if err != nil {
		return err
	}

	created, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderFromDomain(created))
}

func (s *Server) createOrderParams(req CreateOrderRequest) (commands.CreateOrderParams, error) {
	kind, kindErr := order.ParseKind(req.Kind)
	payment, paymentErr := order.ParsePaymentMethod(req.PaymentMethod)
	deliveryFee, feeErr := kernel.MoneyFromFloat(req.DeliveryFee)
	discount, discountErr := kernel.MoneyFromFloat(req.Discount)

	items := make([]commands.ItemRequest, 0, len(req.Items))
	var itemErrs []error
	for _, item := range req.Items {
		r, err := itemRequest(item)
		if err != nil {
			itemErrs = append(itemErrs, err)
			continue
		}
		items = append(items, r)
	}

	if err := errors.Join(kindErr, paymentErr, feeErr, discountErr, errors.Join(itemErrs...)); err != nil {
		return commands.CreateOrderParams{}, err
	}

	return commands.CreateOrderParams{
		Kind:          kind,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address.toDomain(s.now()),
		TableNumber:   req.TableNumber,
		Staff:         req.Staff,
		Items:         items,
		Fees:          order.Fees{DeliveryFee: deliveryFee, Discount: discount},
		PaymentMethod: payment,
		Notes:         req.Notes,
	}, nil
}

func itemRequest(dto ItemRequestDTO) (commands.ItemRequest, error) {
	productID, err := kernel.UUIDFromString(dto.ProductID)
	if err != nil {
		return commands.ItemRequest{}, err
	}
	return commands.ItemRequest{ProductID: productID, Quantity: dto.Quantity, Note: dto.Note}, nil
}

// AddOrderItem handles POST /api/v1/orders/:id/items.
func (s *Server) AddOrderItem(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req ItemRequestDTO
	if err = bind(c, &req); err != nil {
		return err
	}
	item, err := itemRequest(req)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddOrderItemCommand(id, item)
	if err != nil {
		return err
	}
	updated, err := s.h.OrderItems.HandleAdd(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderFromDomain(updated))
}

// RemoveOrderItem handles DELETE /api/v1/orders/:id/items/:itemId.
func (s *Server) RemoveOrderItem(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewRemoveOrderItemCommand(id, itemID)
	if err != nil {
		return err
	}
	updated, err := s.h.OrderItems.HandleRemove(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderFromDomain(updated))
}

// ChangeOrderStatus handles PUT /api/v1/orders/:id/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req ChangeStatusRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeOrderStatusCommand(id, status)
	if err != nil {
		return err
	}
	return s.changeStatus(c, cmd)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return err
	}
	return s.changeStatus(c, cmd)
}

func (s *Server) changeStatus(c echo.Context, cmd commands.ChangeOrderStatusCommand) error {
	result, err := s.h.ChangeOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	response := StatusChangeDTO{
		Order:         orderFromDomain(result.Order),
		TableReleased: result.TableReleased,
	}
	if result.Table != nil {
		t := tableFromDomain(result.Table)
		response.Table = &t
	}
	return c.JSON(http.StatusOK, response)
}
