package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rookgm/pointsclub/internal/models"
)

const whatsAppBaseURL = "https://wa.me/"

// uriComponent undoes query escaping of the characters a browser leaves as is in a URI component
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// WhatsAppMessage renders order as the text sent to the shop over WhatsApp
func WhatsAppMessage(order *models.Order) string {
	var b strings.Builder

	b.WriteString("Olá! Gostaria de fazer um pedido:\n\n")
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "📱 *Telefone:* %s\n\n", order.CustomerPhone)

	b.WriteString("🛒 *Produtos:*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s (%dx) - %s\n", item.ProductName, item.Quantity, brl(item.TotalPrice))
	}

	if order.DeliveryOption == models.DeliveryDelivery {
		b.WriteString("\n📍 *Entrega:*\n")
		fmt.Fprintf(&b, "CEP: %s\n", order.DeliveryCEP)
		fmt.Fprintf(&b, "Endereço: %s\n", order.DeliveryAddress)
		fmt.Fprintf(&b, "Bairro: %s\n", order.DeliveryNeighborhood)
		fmt.Fprintf(&b, "Frete: %s\n", brl(order.DeliveryFee))
	} else {
		b.WriteString("\n📍 *Retirada Sem Custo*\n")
	}

	fmt.Fprintf(&b, "\n💰 *Subtotal:* %s\n", brl(order.Subtotal))
	fmt.Fprintf(&b, "💰 *Total:* %s", brl(order.Total))

	if order.Notes != "" {
		fmt.Fprintf(&b, "\n\n📝 *Observações:* %s", order.Notes)
	}

	b.WriteString("\n\nObrigado!")

	return b.String()
}

// WhatsAppURL returns click-to-chat link to number with message prefilled
func WhatsAppURL(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	return whatsAppBaseURL + digits + "?text=" + uriComponent.Replace(url.QueryEscape(message))
}

func brl(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
