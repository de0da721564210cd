package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/apexdrive/rental-backend/internal/config"
	"github.com/apexdrive/rental-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// Metadata type tags carried on checkout sessions. The webhook branches on
// these to decide whether a completed session is a deposit or a final payment.
const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeFinal   = "final"
)

// StripeService wraps the Stripe SDK for hosted checkout sessions and
// webhook signature verification
type StripeService struct {
	client        *client.API
	webhookSecret string
	baseURL       string
	logger        *logrus.Logger
}

// NewStripeService creates a new StripeService
func NewStripeService(cfg config.StripeConfig, logger *logrus.Logger) *StripeService {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)

	return &StripeService{
		client:        sc,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       cfg.BaseURL,
		logger:        logger,
	}
}

// DepositCheckoutParams carries everything a deposit checkout session needs.
// All booking fields ride along as session metadata so the webhook can
// rebuild the booking without trusting the browser.
type DepositCheckoutParams struct {
	BookingKey     string
	UserID         string
	UserEmail      string
	CarID          string
	CarName        string
	StartDate      string
	EndDate        string
	StartTime      string
	EndTime        string
	PickupLocation string
	TotalPrice     float64
	DepositAmount  float64
	BookingType    models.BookingType
	Hours          *int
}

// CreateDepositCheckout creates a hosted checkout session for a booking
// deposit and returns the redirect URL
func (s *StripeService) CreateDepositCheckout(p *DepositCheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("Deposit for %s booking", p.BookingType)),
						Description: stripe.String(fmt.Sprintf("%s from %s to %s", p.CarName, p.StartDate, p.EndDate)),
					},
					UnitAmount: stripe.Int64(toCents(p.DepositAmount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/booking/confirmation?booking_key=%s", s.baseURL, p.BookingKey)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/fleet/%s?canceled=true", s.baseURL, p.CarID)),
	}

	if p.UserEmail != "" {
		params.CustomerEmail = stripe.String(p.UserEmail)
	}

	params.AddMetadata("type", PaymentTypeDeposit)
	params.AddMetadata("booking_key", p.BookingKey)
	params.AddMetadata("user_id", p.UserID)
	params.AddMetadata("car_id", p.CarID)
	params.AddMetadata("start_date", p.StartDate)
	params.AddMetadata("end_date", p.EndDate)
	params.AddMetadata("start_time", p.StartTime)
	params.AddMetadata("end_time", p.EndTime)
	params.AddMetadata("location", p.PickupLocation)
	params.AddMetadata("total_price", strconv.FormatFloat(p.TotalPrice, 'f', -1, 64))
	params.AddMetadata("deposit_amount", strconv.FormatFloat(p.DepositAmount, 'f', -1, 64))
	params.AddMetadata("booking_type", string(p.BookingType))
	if p.Hours != nil {
		params.AddMetadata("hours", strconv.Itoa(*p.Hours))
	} else {
		params.AddMetadata("hours", "")
	}

	session, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create deposit checkout session")
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	if session.URL == "" {
		return "", fmt.Errorf("checkout session returned no redirect URL")
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":  session.ID,
		"booking_key": p.BookingKey,
		"deposit":     p.DepositAmount,
	}).Info("Deposit checkout session created")

	return session.URL, nil
}

// CreateFinalCheckout creates a hosted checkout session for the remaining
// balance of an approved booking and returns the redirect URL
func (s *StripeService) CreateFinalCheckout(bookingID string, amount float64, description string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Final payment"),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(toCents(amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/booking/confirmed?booking_id=%s", s.baseURL, bookingID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/booking/final?booking_id=%s&canceled=true", s.baseURL, bookingID)),
	}

	params.AddMetadata("type", PaymentTypeFinal)
	params.AddMetadata("booking_id", bookingID)

	session, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create final checkout session")
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	if session.URL == "" {
		return "", fmt.Errorf("checkout session returned no redirect URL")
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"booking_id": bookingID,
		"amount":     amount,
	}).Info("Final checkout session created")

	return session.URL, nil
}

// VerifyWebhook checks the signature header against the signing secret and
// parses the event. The signature is the only authenticity boundary for the
// webhook endpoint, so an error here must stop all processing.
func (s *StripeService) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.webhookSecret, webhook.ConstructEventOptions{
		// Dashboard-configured endpoints can deliver a newer API version
		// than the SDK pins
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	return event, nil
}

// toCents converts a dollar amount to Stripe's integer cent representation
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
