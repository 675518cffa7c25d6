package services

import (
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSSender sends SMS through the Twilio REST API.
type TwilioSMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSMSSender() *TwilioSMSSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioSMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (t *TwilioSMSSender) SendSMS(to, body string) (*SMSResult, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)
	params.SetFrom(t.from)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return nil, err
	}

	result := &SMSResult{Provider: "twilio", From: t.from}
	if resp.Sid != nil {
		result.MessageID = *resp.Sid
	}
	return result, nil
}
