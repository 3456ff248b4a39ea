package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioSender delivers SMS through the Twilio Messages REST endpoint.
type TwilioSender struct {
	accountSID    string
	authToken     string
	fromNumber    string
	countryPrefix string
	baseURL       string
	client        *http.Client
}

// NewTwilioSender creates a TwilioSender. countryPrefix (e.g. "+263") is
// prepended to local numbers written with a leading zero.
func NewTwilioSender(accountSID, authToken, fromNumber, countryPrefix string) *TwilioSender {
	return &TwilioSender{
		accountSID:    accountSID,
		authToken:     authToken,
		fromNumber:    fromNumber,
		countryPrefix: countryPrefix,
		baseURL:       twilioAPIBase,
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

// NormalizeNumber strips separators and converts local numbers to E.164
// using the configured country prefix: "077 123 4567" becomes "+263771234567".
func (s *TwilioSender) NormalizeNumber(raw string) string {
	n := strings.TrimSpace(raw)
	for _, ch := range []string{" ", "-", "(", ")"} {
		n = strings.ReplaceAll(n, ch, "")
	}
	if strings.HasPrefix(n, "0") && s.countryPrefix != "" {
		return s.countryPrefix + n[1:]
	}
	if !strings.HasPrefix(n, "+") {
		return "+" + n
	}
	return n
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", s.NormalizeNumber(to))
	form.Set("From", s.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("twilio responded %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}
