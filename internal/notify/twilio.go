package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioSender envía WhatsApp por la API REST de Twilio. Es un único
// POST form-encoded, así que no se carga un SDK completo.
type TwilioSender struct {
	accountSID string
	authToken  string
	fromNumber string

	httpClient *http.Client
	baseURL    string
}

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.twilio.com",
	}
}

func (s *TwilioSender) Send(ctx context.Context, phone, message string) error {
	endpoint := fmt.Sprintf(
		"%s/2010-04-01/Accounts/%s/Messages.json",
		s.baseURL, s.accountSID,
	)

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.fromNumber)
	form.Set("To", "whatsapp:"+phone)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}

	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio: status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
