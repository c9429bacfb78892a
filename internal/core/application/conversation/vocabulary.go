package conversation

import "strings"

// Command is an operation the customer can ask for by keyword.
type Command int

const (
	NoCommand Command = iota
	ShowMenu
	StartOrder
	ListFreeTables
	RequestAddress
	ShowOrderStatus
	ShowHelp
)

var vocabulary = map[string]Command{
	"cardapio": ShowMenu,
	"cardápio": ShowMenu,
	"menu":     ShowMenu,

	"pedido":       StartOrder,
	"fazer pedido": StartOrder,
	"novo pedido":  StartOrder,

	"mesa":           ListFreeTables,
	"mesas":          ListFreeTables,
	"verificar mesa": ListFreeTables,

	"endereco":          RequestAddress,
	"endereço":          RequestAddress,
	"informar endereco": RequestAddress,

	"status":       ShowOrderStatus,
	"meu pedido":   ShowOrderStatus,
	"pedido atual": ShowOrderStatus,

	"ajuda":    ShowHelp,
	"help":     ShowHelp,
	"comandos": ShowHelp,
}

// ParseCommand matches the whole trimmed, lowercased text against the vocabulary.
func ParseCommand(text string) Command {
	return vocabulary[normalize(text)]
}

var kindChoices = map[string]kindChoice{
	"1":        chooseDelivery,
	"delivery": chooseDelivery,
	"2":        chooseTable,
	"mesa":     chooseTable,
	"3":        choosePickup,
	"retirada": choosePickup,
	"balcao":   choosePickup,
	"balcão":   choosePickup,
}

type kindChoice int

const (
	noChoice kindChoice = iota
	chooseDelivery
	chooseTable
	choosePickup
)

func parseKindChoice(text string) kindChoice {
	return kindChoices[normalize(text)]
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
