// Package sms delivers short report summaries through a generic HTTP SMS
// gateway (JSON POST with a bearer key). Kept provider-agnostic: the
// gateway URL and key come from configuration.
package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"

	"elora/config"
	"elora/models"
)

type Sender struct {
	apiURL    string
	apiKey    string
	fromLabel string
	httpc     *http.Client
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{
		apiURL:    cfg.SMSAPIURL,
		apiKey:    cfg.SMSAPIKey,
		fromLabel: cfg.SMSFromLabel,
		httpc:     &http.Client{Timeout: 30 * time.Second},
	}
}

type smsRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

// SendReport texts a one-line report summary to each phone number.
// Per-number failures are logged and skipped.
func (s *Sender) SendReport(numbers []string, data *models.ReportData) error {
	if s.apiURL == "" {
		log.Debug("SMS gateway not configured, skipping SMS delivery")
		return nil
	}
	body := fmt.Sprintf("ELORA report: %d trucks, %d washes, $%.2f total, %d%% compliance",
		data.FleetSize, data.TotalWashes, data.TotalProgramCost, data.ComplianceRate)
	for _, number := range numbers {
		if err := s.sendOne(number, body); err != nil {
			log.WithError(err).Warnf("Error sending SMS to %s", number)
		}
	}
	return nil
}

func (s *Sender) sendOne(number, body string) error {
	payload, err := json.Marshal(smsRequest{To: number, From: s.fromLabel, Body: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("SMS gateway returned status %d: %s", resp.StatusCode, msg)
	}
	log.Infof("SMS sent to %s", number)
	return nil
}
