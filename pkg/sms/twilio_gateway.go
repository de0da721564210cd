package sms

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioGateway implements SMS sending via the Twilio REST API
type TwilioGateway struct {
	client     *twilio.RestClient
	fromNumber string
}

// TwilioConfig holds configuration for the Twilio SMS Gateway
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// NewTwilioGateway creates a new Twilio SMS Gateway client
func NewTwilioGateway(config TwilioConfig) *TwilioGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.AccountSID,
		Password: config.AuthToken,
	})

	return &TwilioGateway{
		client:     client,
		fromNumber: config.FromNumber,
	}
}

// Send delivers a message and returns the Twilio message SID
func (t *TwilioGateway) Send(to string, body string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient phone number is required")
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp.Sid == nil {
		return "", fmt.Errorf("SMS sent but no message SID returned")
	}

	return *resp.Sid, nil
}

// GetName returns the name of this SMS gateway
func (t *TwilioGateway) GetName() string {
	return "Twilio Gateway"
}
