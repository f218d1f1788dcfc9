package email

import (
	"fmt"

	"github.com/apex/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"elora/config"
	"elora/models"
)

// Sender delivers fleet report summaries over SendGrid.
type Sender struct {
	config *config.Config
	client *sendgrid.Client
}

// NewSender creates a report email sender.
func NewSender(cfg *config.Config) *Sender {
	return &Sender{
		config: cfg,
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
	}
}

// SendReport sends the report summary to each recipient. Per-recipient
// failures are logged and skipped so one bad address does not block the
// rest of the distribution list.
func (s *Sender) SendReport(recipients []string, data *models.ReportData, tanks []models.TankLevelResult) error {
	log.Infof("Sending fleet report to %d recipients", len(recipients))
	for _, recipient := range recipients {
		if err := s.sendOne(recipient, data, tanks); err != nil {
			log.WithError(err).Warnf("Error sending report to %s", recipient)
		}
	}
	return nil
}

func (s *Sender) sendOne(recipient string, data *models.ReportData, tanks []models.TankLevelResult) error {
	from := mail.NewEmail(s.config.SendGridFromName, s.config.SendGridFromEmail)
	to := mail.NewEmail(recipient, recipient)
	subject := "Your ELORA fleet compliance report"

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(to)
	message.AddPersonalizations(p)

	message.AddContent(mail.NewContent("text/plain", reportText(data, tanks)))
	message.AddContent(mail.NewContent("text/html", reportHTML(data, tanks)))

	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	log.Infof("Report email sent to %s! Status: %d", recipient, response.StatusCode)
	return nil
}

func reportText(data *models.ReportData, tanks []models.TankLevelResult) string {
	body := fmt.Sprintf(
		"Fleet size: %d trucks\nActive sites: %d\nTotal washes: %d\nTotal program cost: $%.2f\nAvg cost per truck: $%.2f\nAvg cost per wash: $%.2f\nCompliance rate: %d%%\n",
		data.FleetSize, data.ActiveSites, data.TotalWashes,
		data.TotalProgramCost, data.AvgCostPerTruck, data.AvgCostPerWash, data.ComplianceRate)
	for _, t := range tanks {
		if t.Err != "" {
			body += fmt.Sprintf("\n%s %s: %s", t.SiteName, t.ProductType, t.Err)
			continue
		}
		pct := 0.0
		if t.PercentageFull != nil {
			pct = *t.PercentageFull
		}
		body += fmt.Sprintf("\n%s %s: %.0fL (%.1f%% full)", t.SiteName, t.ProductType, t.CurrentLitres, pct)
	}
	return body
}

func reportHTML(data *models.ReportData, tanks []models.TankLevelResult) string {
	return "<pre>" + reportText(data, tanks) + "</pre>"
}
