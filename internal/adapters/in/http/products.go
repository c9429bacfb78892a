package http

import (
	"net/http"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/product"

	"github.com/labstack/echo/v4"
)

// ListProducts handles GET /api/v1/products?available=true.
func (s *Server) ListProducts(c echo.Context) error {
	availableOnly, err := queryBool(c, "available")
	if err != nil {
		return err
	}
	query := queries.NewListProductsQuery(availableOnly)
	products, err := s.h.ListProducts.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		response = append(response, productFromView(p))
	}
	return c.JSON(http.StatusOK, response)
}

// CreateProduct handles POST /api/v1/products.
func (s *Server) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := product.ParseCategory(req.Category)
	if err != nil {
		return err
	}
	price, err := kernel.MoneyFromFloat(req.Price)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateProductCommand(kernel.NewUUID(), req.Code, req.Name, category, price, req.Description)
	if err != nil {
		return err
	}
	created, err := s.h.Products.HandleCreate(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productFromDomain(created))
}

// SetProductAvailability handles PUT /api/v1/products/:id/availability.
func (s *Server) SetProductAvailability(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req SetAvailabilityRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSetProductAvailabilityCommand(id, *req.Available)
	if err != nil {
		return err
	}
	updated, err := s.h.Products.HandleSetAvailability(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productFromDomain(updated))
}
