// Package conversation routes chat messages to the restaurant's operations.
//
// The router recognizes a fixed command vocabulary and keeps a small dialog state
// per sender (choosing the order kind, giving an address). Everything it does not
// recognize goes to the external responder.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/chat"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"
)

// ResponderHistory is the number of recent messages handed to the responder.
const ResponderHistory = 10

type (
	// Menu lists the products currently on sale, by category and name.
	Menu interface {
		AvailableProducts(ctx context.Context) ([]queries.ProductView, error)
	}

	// TableDirectory lists the free tables by number.
	TableDirectory interface {
		FreeTables(ctx context.Context) ([]queries.TableView, error)
	}

	// OrderLookup finds the active order placed by a sender. ok is false when
	// there is none.
	OrderLookup interface {
		ActiveOrder(ctx context.Context, sender string) (details queries.OrderDetails, ok bool, err error)
	}
)

// Sources are the read models the router answers from.
type Sources struct {
	Menu   Menu
	Tables TableDirectory
	Orders OrderLookup
}

// Router answers one inbound message at a time per sender.
//
// Every user message is stored in the conversation history and run through the
// address extractor; a valid address replaces the stored snapshot. Commands always
// win over an open flow. Storage failures of the history are logged and do not
// stop the reply.
type Router struct {
	flows         *FlowStore
	conversations ports.ConversationRepository
	sources       Sources
	responder     ports.Responder
	outbox        ports.MessageSender
	logger        *slog.Logger
	now           func() time.Time
}

func NewRouter(
	flows *FlowStore,
	conversations ports.ConversationRepository,
	sources Sources,
	responder ports.Responder,
	outbox ports.MessageSender,
	logger *slog.Logger,
) *Router {
	return &Router{
		flows:         flows,
		conversations: conversations,
		sources:       sources,
		responder:     responder,
		outbox:        outbox,
		logger:        logger.With("component", "conversation_router"),
		now:           time.Now,
	}
}

// Handle processes one message from sender and sends the reply through the outbox.
// Blank messages are ignored.
func (r *Router) Handle(ctx context.Context, sender, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	unlock, err := r.flows.Lock(ctx, sender)
	if err != nil {
		return err
	}
	defer unlock()

	now := r.now()
	r.record(ctx, sender, chat.NewUserMessage(text, now))

	addr, found := address.Extract(text, now)
	if found {
		if err := r.conversations.SaveAddress(ctx, sender, addr); err != nil {
			r.logger.ErrorContext(ctx, "failed to save extracted address", "sender", sender, "error", err)
		}
	}

	reply := r.reply(ctx, sender, text, addr, found)

	r.record(ctx, sender, chat.NewBotMessage(reply, r.now()))
	return r.outbox.Send(ctx, sender, reply)
}

func (r *Router) reply(ctx context.Context, sender, text string, addr address.ExtractedAddress, found bool) string {
	if cmd := ParseCommand(text); cmd != NoCommand {
		return r.runCommand(ctx, sender, cmd)
	}

	flow := r.flows.Get(sender)
	switch flow.State {
	case AwaitingOrderKind:
		return r.chooseKind(sender, text)
	case AwaitingAddress:
		if !found {
			return addressRetryReply
		}
		r.flows.Set(sender, Flow{State: None})
		return addressSavedReply(addr)
	case None:
	}

	return r.respond(ctx, sender, text)
}

func (r *Router) runCommand(ctx context.Context, sender string, cmd Command) string {
	switch cmd {
	case ShowMenu:
		products, err := r.sources.Menu.AvailableProducts(ctx)
		if err != nil {
			return r.lookupFailed(ctx, "menu", sender, err)
		}
		return menuReply(products)

	case StartOrder:
		active, ok, err := r.sources.Orders.ActiveOrder(ctx, sender)
		if err != nil {
			return r.lookupFailed(ctx, "active order", sender, err)
		}
		if ok {
			r.flows.Set(sender, Flow{State: None})
			return activeOrderReply(active)
		}
		r.flows.Set(sender, Flow{State: AwaitingOrderKind})
		return orderKindPrompt

	case ListFreeTables:
		tables, err := r.sources.Tables.FreeTables(ctx)
		if err != nil {
			return r.lookupFailed(ctx, "free tables", sender, err)
		}
		return freeTablesReply(tables)

	case RequestAddress:
		flow := r.flows.Get(sender)
		r.flows.Set(sender, Flow{State: AwaitingAddress, Kind: flow.Kind})
		return addressPrompt

	case ShowOrderStatus:
		active, ok, err := r.sources.Orders.ActiveOrder(ctx, sender)
		if err != nil {
			return r.lookupFailed(ctx, "order status", sender, err)
		}
		if !ok {
			return noActiveOrderReply
		}
		return orderStatusReply(active)

	case ShowHelp, NoCommand:
	}
	return helpReply
}

func (r *Router) chooseKind(sender, text string) string {
	switch parseKindChoice(text) {
	case chooseDelivery:
		r.flows.Set(sender, Flow{State: AwaitingAddress, Kind: order.Delivery})
		return deliveryChosenReply + "\n\n" + addressPrompt
	case chooseTable:
		r.flows.Set(sender, Flow{State: None})
		return tableChosenReply
	case choosePickup:
		r.flows.Set(sender, Flow{State: None})
		return pickupChosenReply
	case noChoice:
	}
	return orderKindPrompt
}

func (r *Router) respond(ctx context.Context, sender, text string) string {
	history, err := r.conversations.History(ctx, sender, ResponderHistory+1)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to load history", "sender", sender, "error", err)
		history = nil
	}
	// The message being answered was recorded already and is passed separately.
	if n := len(history); n > 0 && history[n-1].Author == chat.User {
		history = history[:n-1]
	}
	history = chat.Trim(history, ResponderHistory)

	reply, err := r.responder.Respond(ctx, history, strings.TrimSpace(text))
	if err != nil {
		r.logger.WarnContext(ctx, "responder failed", "sender", sender, "error", err)
		return FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackReply
	}
	return reply
}

func (r *Router) lookupFailed(ctx context.Context, what, sender string, err error) string {
	r.logger.ErrorContext(ctx, "lookup failed", "lookup", what, "sender", sender, "error", err)
	return lookupFailedReply
}

func (r *Router) record(ctx context.Context, sender string, msg chat.Message) {
	if err := r.conversations.Append(ctx, sender, msg); err != nil {
		r.logger.ErrorContext(ctx, "failed to append message", "sender", sender, "error", err)
	}
}
