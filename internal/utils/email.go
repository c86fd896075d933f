package utils

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"

	"github.com/wneessen/go-mail"

	"mfhome_back_end/internal/models"
)

// SendOrderConfirmation envoie le récapitulatif de commande au client.
// Appelé en goroutine après le commit : un échec d'envoi est loggé et
// n'affecte jamais la commande déjà persistée.
func SendOrderConfirmation(order models.Order) error {
	if order.CustomerEmail == nil || *order.CustomerEmail == "" {
		return nil
	}
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil // pas de SMTP configuré, on n'envoie rien
	}

	msg := mail.NewMsg()
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@mfhome.example"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(*order.CustomerEmail); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Confirmation de commande %s", order.OrderNumber))
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(order))

	client, err := mail.NewClient(host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de la confirmation de commande à", *order.CustomerEmail)
	return client.DialAndSend(msg)
}

func orderConfirmationHTML(order models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%s</td>
				<td>%s</td>
			</tr>`,
			html.EscapeString(item.ProductName), item.Quantity,
			item.UnitPrice.StringFixed(2), item.TotalPrice.StringFixed(2)))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body>
	<h2>Merci pour votre commande, %s !</h2>
	<p>Votre commande <strong>%s</strong> a bien été enregistrée.</p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr><th>Produit</th><th>Qté</th><th>Prix unitaire</th><th>Total</th></tr>
		%s
	</table>
	<p>Sous-total : %s<br>
	Livraison : %s<br>
	TVA : %s<br>
	<strong>Total : %s</strong></p>
</body>
</html>`,
		html.EscapeString(order.CustomerName), html.EscapeString(order.OrderNumber), rows.String(),
		order.Subtotal.StringFixed(2), order.ShippingFee.StringFixed(2),
		order.TaxAmount.StringFixed(2), order.TotalAmount.StringFixed(2))
}
