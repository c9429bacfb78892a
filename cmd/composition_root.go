package cmd

import (
	"context"
	"errors"
	"log/slog"

	"restaurant/internal/adapters/in/chat"
	httpin "restaurant/internal/adapters/in/http"
	"restaurant/internal/adapters/out/escpos"
	"restaurant/internal/adapters/out/postgres"
	"restaurant/internal/adapters/out/responder"
	"restaurant/internal/core/application/conversation"
	"restaurant/internal/core/application/printing"
	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/ports"
	"restaurant/internal/jobs"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/keylock"

	"gorm.io/gorm"
)

// CompositionRoot owns the process-wide singletons: the key locker, the printer
// dispatcher and the chat hub. Handlers are created on demand around them.
type CompositionRoot struct {
	cfg           Config
	gormDB        *gorm.DB
	uowFactory    *postgres.GormUnitOfWorkFactory
	conversations ports.ConversationRepository
	publisher     ports.OrderEventPublisher
	device        printer.Device
	logger        *slog.Logger

	locker     *keylock.Locker
	dispatcher *printing.Dispatcher
	hub        *chat.Hub
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	conversations ports.ConversationRepository,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	device, err := cfg.PrinterDevice()
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:           cfg,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		conversations: conversations,
		publisher:     publisher,
		device:        device,
		logger:        logger,
		locker:        keylock.New(),
		hub:           chat.NewHub(logger),
	}

	var printUoW printing.OrderUoWFactory = FuncPrintingUoWFactory(func() printing.OrderUoW {
		return c.uowFactory.NewUnitOfWork()
	})
	c.dispatcher = printing.NewDispatcher(printUoW, c.locker, printing.Config{
		ConnectTimeout: cfg.PrinterConnectTimeout,
		WriteTimeout:   cfg.PrinterWriteTimeout,
		Header:         cfg.RestaurantName,
	}, logger)

	return c, nil
}

func (c *CompositionRoot) Dispatcher() *printing.Dispatcher { return c.dispatcher }

func (c *CompositionRoot) Hub() *chat.Hub { return c.hub }

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.locker, c.dispatcher, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.uow(), c.locker, c.dispatcher, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateOrderItemsCommandHandler() commands.OrderItemsCommandHandler {
	return commands.NewOrderItemsCommandHandler(c.orderUoW(), c.locker)
}

func (c *CompositionRoot) CreateCreateTableCommandHandler() commands.CreateTableCommandHandler {
	return commands.NewCreateTableCommandHandler(c.tableUoW(), c.locker)
}

func (c *CompositionRoot) CreateOccupyTableCommandHandler() commands.OccupyTableCommandHandler {
	return commands.NewOccupyTableCommandHandler(c.uow(), c.locker)
}

func (c *CompositionRoot) CreateTableActionCommandHandler() commands.TableActionCommandHandler {
	return commands.NewTableActionCommandHandler(c.tableUoW(), c.locker)
}

func (c *CompositionRoot) CreateProductCommandHandler() commands.ProductCommandHandler {
	var f commands.ProductUoWFactory = FuncProductUoWFactory(func() commands.ProductUoW {
		return c.uowFactory.NewUnitOfWork()
	})
	return commands.NewProductCommandHandler(f)
}

func (c *CompositionRoot) CreatePrintTicketCommandHandler() commands.PrintTicketCommandHandler {
	return commands.NewPrintTicketCommandHandler(c.uow(), c.dispatcher)
}

func (c *CompositionRoot) CreatePrinterCommandHandler() commands.PrinterCommandHandler {
	return commands.NewPrinterCommandHandler(c.dispatcher, escpos.NewConnector, c.device)
}

func (c *CompositionRoot) CreateBackfillKitchenTicketsCommandHandler() commands.BackfillKitchenTicketsCommandHandler {
	return commands.NewBackfillKitchenTicketsCommandHandler(c.orderUoW(), c.dispatcher)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrderQueryHandler() queries.GetActiveOrderQueryHandler {
	return queries.NewGetActiveOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListTablesQueryHandler() queries.ListTablesQueryHandler {
	return queries.NewListTablesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTableQueryHandler() queries.GetTableQueryHandler {
	return queries.NewGetTableQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListProductsQueryHandler() queries.ListProductsQueryHandler {
	return queries.NewListProductsQueryHandler(c.gormDB)
}

// CreateServer wires the HTTP API.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		ListOrders:   c.CreateListOrdersQueryHandler(),
		GetOrder:     c.CreateGetOrderQueryHandler(),
		ListTables:   c.CreateListTablesQueryHandler(),
		GetTable:     c.CreateGetTableQueryHandler(),
		ListProducts: c.CreateListProductsQueryHandler(),
		CreateOrder:  c.CreateCreateOrderCommandHandler(),
		OrderItems:   c.CreateOrderItemsCommandHandler(),
		ChangeOrder:  c.CreateChangeOrderStatusCommandHandler(),
		CreateTable:  c.CreateCreateTableCommandHandler(),
		OccupyTable:  c.CreateOccupyTableCommandHandler(),
		TableAction:  c.CreateTableActionCommandHandler(),
		Products:     c.CreateProductCommandHandler(),
		PrintTicket:  c.CreatePrintTicketCommandHandler(),
		Printer:      c.CreatePrinterCommandHandler(),
		PrinterInfo:  c.dispatcher,
	}, c.logger)
}

// CreateRouter wires the chat engine. Replies go out through the hub.
func (c *CompositionRoot) CreateRouter() *conversation.Router {
	sources := conversation.Sources{
		Menu:   menuSource{handler: c.CreateListProductsQueryHandler()},
		Tables: tableSource{handler: c.CreateListTablesQueryHandler()},
		Orders: orderSource{handler: c.CreateGetActiveOrderQueryHandler()},
	}
	return conversation.NewRouter(
		conversation.NewFlowStore(c.locker),
		c.conversations,
		sources,
		c.createResponder(),
		c.hub,
		c.logger,
	)
}

func (c *CompositionRoot) createResponder() ports.Responder {
	if c.cfg.ResponderURL == "" {
		return responder.Disabled{}
	}
	return responder.NewClient(responder.Config{
		URL:    c.cfg.ResponderURL,
		APIKey: c.cfg.ResponderAPIKey,
		Model:  c.cfg.ResponderModel,
	})
}

// CreateJobManager wires the scheduled jobs. An empty schedule disables a job;
// the reconnect job is also left out when no printer is configured.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var (
		backfill  *jobs.KitchenBackfillJob
		reconnect *jobs.PrinterReconnectJob
	)
	if c.cfg.KitchenBackfillSchedule != "" {
		backfill = jobs.NewKitchenBackfillJob(
			c.CreateBackfillKitchenTicketsCommandHandler(), c.cfg.KitchenBackfillSchedule, c.logger)
	}
	if c.cfg.PrinterReconnectSchedule != "" && c.device.Method() != printer.UnknownMethod {
		reconnect = jobs.NewPrinterReconnectJob(
			c.CreatePrinterCommandHandler(), c.dispatcher, c.cfg.PrinterReconnectSchedule, c.logger)
	}
	return jobs.NewJobManager(backfill, reconnect)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.NewUnitOfWork()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.NewUnitOfWork()
	})
}

func (c *CompositionRoot) tableUoW() commands.TableUoWFactory {
	return FuncTableUoWFactory(func() commands.TableUoW {
		return c.uowFactory.NewUnitOfWork()
	})
}

type menuSource struct{ handler queries.ListProductsQueryHandler }

func (s menuSource) AvailableProducts(ctx context.Context) ([]queries.ProductView, error) {
	query := queries.NewListProductsQuery(true)
	return s.handler.Handle(ctx, query)
}

type tableSource struct{ handler queries.ListTablesQueryHandler }

func (s tableSource) FreeTables(ctx context.Context) ([]queries.TableView, error) {
	query := queries.NewListTablesQuery(true)
	return s.handler.Handle(ctx, query)
}

// orderSource looks up orders by the sender id used as phone. Senders that are
// not phone numbers have no orders.
type orderSource struct{ handler queries.GetActiveOrderQueryHandler }

func (s orderSource) ActiveOrder(ctx context.Context, sender string) (queries.OrderDetails, bool, error) {
	query, err := queries.NewGetActiveOrderQuery(sender)
	if err != nil {
		return queries.OrderDetails{}, false, nil //nolint:nilerr // not a phone number
	}
	details, err := s.handler.Handle(ctx, query)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return queries.OrderDetails{}, false, nil
	case err != nil:
		return queries.OrderDetails{}, false, err
	}
	return details, true, nil
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncTableUoWFactory func() commands.TableUoW

func (f FuncTableUoWFactory) Create() commands.TableUoW {
	return f()
}

type FuncProductUoWFactory func() commands.ProductUoW

func (f FuncProductUoWFactory) Create() commands.ProductUoW {
	return f()
}

type FuncPrintingUoWFactory func() printing.OrderUoW

func (f FuncPrintingUoWFactory) Create() printing.OrderUoW {
	return f()
}
