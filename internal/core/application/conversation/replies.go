package conversation

import (
	"fmt"
	"strings"

	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/order"
)

// FallbackReply is sent when the responder fails or returns nothing.
const FallbackReply = "Desculpe, não entendi. Como posso ajudar?"

const (
	helpReply = "🍽️ *Olá! Bem-vindo ao nosso restaurante!*\n\n" +
		"Como posso ajudar?\n\n" +
		"📋 *Comandos disponíveis:*\n" +
		"- *cardapio* - Ver nosso cardápio\n" +
		"- *pedido* - Fazer um pedido\n" +
		"- *mesa* - Verificar disponibilidade de mesas\n" +
		"- *endereco* - Informar endereço para entrega\n" +
		"- *status* - Ver status do seu pedido\n" +
		"- *ajuda* - Ver este menu novamente"

	orderKindPrompt = "🍽️ *NOVO PEDIDO*\n\n" +
		"Qual tipo de pedido você deseja?\n\n" +
		"1️⃣ *Delivery* - Entrega em casa\n" +
		"2️⃣ *Mesa* - Comer no restaurante\n" +
		"3️⃣ *Retirada* - Buscar no balcão\n\n" +
		"Digite o número ou o nome da opção:"

	addressPrompt = "📍 *INFORME SEU ENDEREÇO*\n\n" +
		"Por favor, envie seu endereço completo no seguinte formato:\n\n" +
		"Rua/Avenida, Número\n" +
		"Complemento (opcional)\n" +
		"Bairro\n" +
		"Cidade - Estado\n" +
		"CEP (opcional)\n" +
		"Referência (opcional)\n\n" +
		"*Exemplo:*\n" +
		"Rua das Flores, 123\n" +
		"Apto 45\n" +
		"Centro\n" +
		"São Paulo - SP\n" +
		"01234-567\n" +
		"Próximo ao mercado"

	addressRetryReply = "Não consegui identificar rua e número no seu endereço. " +
		"Tente novamente, por exemplo: *Rua das Flores, 123*"

	deliveryChosenReply = "🛵 Pedido para *entrega*."
	tableChosenReply    = "🪑 Pedido para *consumo no restaurante*. Digite *mesa* para ver as mesas disponíveis."
	pickupChosenReply   = "🛍️ Pedido para *retirada no balcão*. Avisaremos quando estiver pronto."

	noActiveOrderReply = "Você não tem pedidos ativos no momento."
	emptyMenuReply     = "📋 Desculpe, nosso cardápio está temporariamente indisponível."
	noFreeTablesReply  = "😔 Desculpe, não temos mesas disponíveis no momento."
	lookupFailedReply  = "Desculpe, ocorreu um erro. Como posso ajudar?"
)

func menuReply(products []queries.ProductView) string {
	if len(products) == 0 {
		return emptyMenuReply
	}

	var b strings.Builder
	b.WriteString("🍽️ *NOSSO CARDÁPIO*\n")

	for i, p := range products {
		if i == 0 || products[i-1].Category != p.Category {
			fmt.Fprintf(&b, "\n*%s*\n%s\n", strings.ToUpper(p.Category.Label()), strings.Repeat("─", 20))
		}
		fmt.Fprintf(&b, "• *%s* - %s\n", p.Name, p.Price)
		if p.Description != "" {
			fmt.Fprintf(&b, "   %s\n", p.Description)
		}
	}

	b.WriteString("\n📝 Para fazer um pedido, digite *pedido*.")
	return b.String()
}

func freeTablesReply(tables []queries.TableView) string {
	if len(tables) == 0 {
		return noFreeTablesReply
	}

	var b strings.Builder
	b.WriteString("🪑 *MESAS DISPONÍVEIS*\n\n")
	for _, t := range tables {
		fmt.Fprintf(&b, "Mesa %d - Capacidade: %d pessoas\n", t.Number, t.Capacity)
	}
	return strings.TrimRight(b.String(), "\n")
}

func activeOrderReply(o queries.OrderDetails) string {
	return fmt.Sprintf("Você já tem um pedido ativo: *%s*\n\nDigite *status* para ver os detalhes.", o.Number)
}

func orderStatusReply(o queries.OrderDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 *PEDIDO %s*\n\n", o.Number)
	fmt.Fprintf(&b, "Status: %s\n", o.Status.Label())
	fmt.Fprintf(&b, "Tipo: %s\n", o.Kind.Label())
	if o.TableNumber != nil {
		fmt.Fprintf(&b, "Mesa: %d\n", *o.TableNumber)
	}

	b.WriteString("\n*ITENS:*\n")
	for i, item := range o.Items {
		fmt.Fprintf(&b, "%d. %s - %dx\n", i+1, item.Name, item.Quantity)
	}

	fmt.Fprintf(&b, "\n💰 *Total: %s*\n", o.Total)
	fmt.Fprintf(&b, "💳 Pagamento: %s", o.PaymentMethod.Label())

	if o.Kind == order.Delivery && o.Address != nil {
		fmt.Fprintf(&b, "\n\n📍 *Endereço:*\n%s", o.Address.Format())
	}
	return b.String()
}

func addressSavedReply(addr address.ExtractedAddress) string {
	return "✅ Endereço registrado:\n" + addr.Format()
}
