package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"restaurant/internal/core/application/printing"
	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/core/domain/model/table"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handler is any use case that takes one command or query and returns one result.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

type (
	OrderItemsHandler interface {
		HandleAdd(ctx context.Context, cmd commands.AddOrderItemCommand) (*order.Order, error)
		HandleRemove(ctx context.Context, cmd commands.RemoveOrderItemCommand) (*order.Order, error)
	}

	ProductHandler interface {
		HandleCreate(ctx context.Context, cmd commands.CreateProductCommand) (*product.Product, error)
		HandleSetAvailability(ctx context.Context, cmd commands.SetProductAvailabilityCommand) (*product.Product, error)
	}

	PrinterHandler interface {
		HandleConnect(ctx context.Context, cmd commands.ConnectPrinterCommand) error
		HandleDisconnect(ctx context.Context) error
		HandleTestPrint(ctx context.Context) error
	}

	PrinterStatusSource interface {
		Status() printing.Status
	}
)

// Handlers are the use cases the API exposes.
type Handlers struct {
	ListOrders   Handler[queries.ListOrdersQuery, []queries.OrderSummary]
	GetOrder     Handler[queries.GetOrderQuery, queries.OrderDetails]
	ListTables   Handler[queries.ListTablesQuery, []queries.TableView]
	GetTable     Handler[queries.GetTableQuery, queries.TableView]
	ListProducts Handler[queries.ListProductsQuery, []queries.ProductView]

	CreateOrder Handler[commands.CreateOrderCommand, *order.Order]
	OrderItems  OrderItemsHandler
	ChangeOrder Handler[commands.ChangeOrderStatusCommand, commands.ChangeOrderStatusResult]
	CreateTable Handler[commands.CreateTableCommand, *table.Table]
	OccupyTable Handler[commands.OccupyTableCommand, *table.Table]
	TableAction Handler[commands.TableActionCommand, *table.Table]
	Products    ProductHandler
	PrintTicket Handler[commands.PrintTicketCommand, commands.PrintTicketResult]
	Printer     PrinterHandler
	PrinterInfo PrinterStatusSource
}

// Server exposes the order, table, product and printer use cases over HTTP.
// Handlers translate JSON into commands and queries and return typed errors to
// the echo error handler, which maps them to status codes.
type Server struct {
	h      Handlers
	logger *slog.Logger
	now    func() time.Time
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{h: h, logger: logger.With("component", "http"), now: time.Now}
}

// Register installs the validator, the error handler, request logging, validation
// against the OpenAPI document and all routes. The document is served at
// /openapi.yaml and browsable under /swagger/.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := LoadOpenAPI(context.Background())
	if err != nil {
		return err
	}
	validateRequest, err := OpenAPIRequestValidator(doc)
	if err != nil {
		return err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return err
	}

	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(s.logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(validateRequest)

	e.GET("/health", s.Health)
	e.GET("/openapi.yaml", s.OpenAPIDocument)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	tables := api.Group("/tables")
	tables.GET("", s.ListTables)
	tables.POST("", s.CreateTable)
	tables.GET("/:number", s.GetTable)
	tables.DELETE("/:number", s.DeleteTable)
	tables.POST("/:number/occupy", s.OccupyTable)
	tables.POST("/:number/release", s.tableAction(commands.ReleaseTable))
	tables.POST("/:number/reserve", s.tableAction(commands.ReserveTable))
	tables.POST("/:number/maintenance", s.tableAction(commands.MaintainTable))

	orders := api.Group("/orders")
	orders.GET("", s.ListOrders)
	orders.POST("", s.CreateOrder)
	orders.GET("/:id", s.GetOrder)
	orders.POST("/:id/items", s.AddOrderItem)
	orders.DELETE("/:id/items/:itemId", s.RemoveOrderItem)
	orders.PUT("/:id/status", s.ChangeOrderStatus)
	orders.POST("/:id/cancel", s.CancelOrder)

	products := api.Group("/products")
	products.GET("", s.ListProducts)
	products.POST("", s.CreateProduct)
	products.PUT("/:id/availability", s.SetProductAvailability)

	printer := api.Group("/printer")
	printer.POST("/connect", s.ConnectPrinter)
	printer.POST("/disconnect", s.DisconnectPrinter)
	printer.GET("/status", s.PrinterStatus)
	printer.POST("/test", s.TestPrint)
	printer.POST("/orders/:id/:kind", s.PrintTicket)
	return nil
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
