package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/nexflow/nexflow-server/internal/orders"
)

// esc guards customer-supplied fields interpolated into mail bodies.
func esc(s string) string { return html.EscapeString(s) }

// Human-readable labels for the notification copy. The site serves a
// Georgian audience, so outbound mail keeps the Georgian wording.
var automationTypeLabels = map[string]string{
	orders.TypeWhatsappChatbot: "WhatsApp/Messenger ჩატბოტი",
	orders.TypeCRMIntegration:  "CRM ინტეგრაცია",
	orders.TypeEmailAutomation: "ელექტრონული ფოსტის ავტომატიზაცია",
	orders.TypeFileSync:        "ფაილების სინქრონიზაცია / ETL",
	orders.TypeCustomWorkflow:  "მორგებული Workflow",
}

var deliverySpeedLabels = map[string]string{
	orders.DeliveryStandard: "სტანდარტული (7-14 დღე)",
	orders.DeliveryFast:     "სწრაფი (3-5 დღე)",
}

func automationTypeLabel(t string) string {
	if label, ok := automationTypeLabels[t]; ok {
		return label
	}
	return t
}

func deliverySpeedLabel(s string) string {
	if label, ok := deliverySpeedLabels[s]; ok {
		return label
	}
	return s
}

// confirmationSubject and confirmationHTML build the customer-facing
// confirmation message.
func confirmationSubject(o *orders.Order) string {
	return fmt.Sprintf("შეკვეთის დადასტურება - %s", o.OrderID)
}

func confirmationHTML(o *orders.Order) string {
	var b strings.Builder
	b.WriteString("<h2>მადლობა შეკვეთისთვის!</h2>\n")
	fmt.Fprintf(&b, "<p>ძვირფასო %s,</p>\n", esc(o.FullName))
	b.WriteString("<p>თქვენი შეკვეთა წარმატებით მიიღეს.</p>\n")
	fmt.Fprintf(&b, "<p><strong>შეკვეთის ID:</strong> %s</p>\n", o.OrderID)
	b.WriteString("<p>ჩვენ მალე დაგიკავშირდებით პროექტის დეტალების განსახილველად.</p>\n")
	b.WriteString("<br>\n<p>პატივისცემით,<br>NexFlow გუნდი</p>\n")
	return b.String()
}

// adminSubject and adminHTML build the internal notification with the
// full order details.
func adminSubject(o *orders.Order) string {
	return fmt.Sprintf("🆕 ახალი შეკვეთა მიღებულია - %s", o.OrderID)
}

func adminHTML(o *orders.Order, adminURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>🆕 ახალი შეკვეთა მიღებულია</h1>\n<p>შეკვეთის ID: <strong>%s</strong></p>\n", o.OrderID)

	b.WriteString("<h2>👤 კლიენტის ინფორმაცია</h2>\n<ul>\n")
	fmt.Fprintf(&b, "<li><strong>სახელი:</strong> %s</li>\n", esc(o.FullName))
	fmt.Fprintf(&b, "<li><strong>ელფოსტა:</strong> <a href=\"mailto:%s\">%s</a></li>\n", esc(o.Email), esc(o.Email))
	if o.Phone != "" {
		fmt.Fprintf(&b, "<li><strong>ტელეფონი:</strong> %s</li>\n", esc(o.Phone))
	}
	if o.Company != "" {
		fmt.Fprintf(&b, "<li><strong>კომპანია:</strong> %s</li>\n", esc(o.Company))
	}
	b.WriteString("</ul>\n")

	b.WriteString("<h2>🛠 პროექტი</h2>\n<ul>\n")
	fmt.Fprintf(&b, "<li><strong>პროექტის სახელი:</strong> %s</li>\n", esc(o.ProjectName))
	fmt.Fprintf(&b, "<li><strong>ავტომატიზაციის ტიპი:</strong> %s</li>\n", automationTypeLabel(o.AutomationType))
	if o.CustomDescription != "" {
		fmt.Fprintf(&b, "<li><strong>აღწერა:</strong> %s</li>\n", esc(o.CustomDescription))
	}
	if o.DeliverySpeed != "" {
		fmt.Fprintf(&b, "<li><strong>მიწოდების ვადა:</strong> %s</li>\n", deliverySpeedLabel(o.DeliverySpeed))
	}
	if o.PriorityNotes != "" {
		fmt.Fprintf(&b, "<li><strong>პრიორიტეტის შენიშვნები:</strong> %s</li>\n", esc(o.PriorityNotes))
	}
	b.WriteString("</ul>\n")

	b.WriteString("<h2>🔌 ინტეგრაციები</h2>\n")
	if len(o.Integrations) == 0 {
		b.WriteString("<p>ინტეგრაციები არ არის არჩეული</p>\n")
	} else {
		fmt.Fprintf(&b, "<p>%s</p>\n", esc(strings.Join(o.Integrations, ", ")))
	}
	if len(o.HasCredentials) > 0 {
		b.WriteString("<ul>\n")
		for integration, has := range o.HasCredentials {
			mark := "❌ არ აქვს"
			if has {
				mark = "✅ აქვს"
			}
			fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>\n", esc(integration), mark)
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("<h2>📎 ფაილები</h2>\n")
	if len(o.AttachedFiles) == 0 {
		b.WriteString("<p>ფაილები არ არის ატვირთული</p>\n")
	} else {
		b.WriteString("<ul>\n")
		for _, f := range o.AttachedFiles {
			fmt.Fprintf(&b, "<li><strong>%s</strong> (%.2f MB, %s)</li>\n",
				esc(f.OriginalName), float64(f.Size)/1024/1024, esc(f.Mimetype))
		}
		b.WriteString("</ul>\n")
	}
	if o.ExampleLink != "" {
		fmt.Fprintf(&b, "<p><strong>მაგალითის ბმული:</strong> <a href=\"%s\">%s</a></p>\n", esc(o.ExampleLink), esc(o.ExampleLink))
	}

	fmt.Fprintf(&b, "<p><a href=\"%s\">ნახეთ ადმინ პანელში</a></p>\n", adminURL)
	return b.String()
}
