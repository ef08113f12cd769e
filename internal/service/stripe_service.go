package service

import (
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
)

type StripeService struct{}

func NewStripeService() *StripeService {
	return &StripeService{}
}

// CreateCheckoutSession opens a Stripe Checkout session for an appointment
// payment and returns its URL and ID.
func (s *StripeService) CreateCheckoutSession(amount int64, currency, description, customerEmail string) (string, string, error) {
	successURL := os.Getenv("STRIPE_SUCCESS_URL")
	if successURL == "" {
		successURL = "http://localhost:3000/booking/confirmed?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL := os.Getenv("STRIPE_CANCEL_URL")
	if cancelURL == "" {
		cancelURL = "http://localhost:3000/booking/failed?session_id={CHECKOUT_SESSION_ID}"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(successURL),
		CancelURL:     stripe.String(cancelURL),
		CustomerEmail: stripe.String(customerEmail),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

func (s *StripeService) RefundPaymentBySessionID(sessionID string) error {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return err
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no PaymentIntent found for session %s", sessionID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	_, err = refund.New(params)
	return err
}

// GetSessionIDByPaymentIntentID looks up the checkout session that created a
// payment intent, used when a refund event only carries the intent.
func (s *StripeService) GetSessionIDByPaymentIntentID(paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: &paymentIntentID,
	}
	params.Limit = stripe.Int64(1)
	it := session.List(params)
	for it.Next() {
		sess := it.CheckoutSession()
		if sess != nil && sess.ID != "" {
			return sess.ID, nil
		}
	}
	return "", fmt.Errorf("no session_id found for PaymentIntentID %s", paymentIntentID)
}
