package payment

import (
	"encoding/json"
	"os"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"

	"condofacil_backend/internal/model"
)

type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &StripeGateway{}
}

func (s *StripeGateway) Name() string { return "stripe" }

func (s *StripeGateway) CreateSubscription(user *model.User, condo *model.Condo, plan *model.Plan) (*SubscriptionResult, error) {
	customerParams := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(condo.Name),
	}

	stripeCustomer, err := customer.New(customerParams)
	if err != nil {
		return nil, err
	}

	subscriptionParams := &stripe.SubscriptionParams{
		Customer: stripe.String(stripeCustomer.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price: stripe.String(plan.StripePriceID),
			},
		},
	}

	stripeSubscription, err := subscription.New(subscriptionParams)
	if err != nil {
		return nil, err
	}

	return &SubscriptionResult{
		ProviderSubID: stripeSubscription.ID,
		ExpiresAt:     time.Unix(stripeSubscription.CurrentPeriodEnd, 0),
	}, nil
}

func (s *StripeGateway) CancelSubscription(providerSubID string) error {
	_, err := subscription.Cancel(providerSubID, nil)
	return err
}

func (s *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		return nil, err
	}

	out := &Event{ID: event.ID, Type: EventUnknown}

	switch event.Type {
	case "invoice.payment_succeeded":
		var invoice struct {
			ID           string            `json:"id"`
			Subscription string            `json:"subscription"`
			AmountPaid   int64             `json:"amount_paid"`
			Created      int64             `json:"created"`
			Metadata     map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return nil, err
		}
		out.Type = EventPaymentSucceeded
		out.SubscriptionID = invoice.Subscription
		out.ChargeRef = invoice.Metadata["charge_ref"]
		if out.ChargeRef == "" {
			out.ChargeRef = invoice.ID
		}
		out.Amount = float64(invoice.AmountPaid) / 100
		out.PaidAt = time.Unix(invoice.Created, 0)

	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return nil, err
		}
		out.Type = EventSubscriptionCancelled
		out.SubscriptionID = subData.ID

	case "customer.subscription.updated":
		var subData struct {
			ID               string `json:"id"`
			CurrentPeriodEnd int64  `json:"current_period_end"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return nil, err
		}
		out.Type = EventSubscriptionUpdated
		out.SubscriptionID = subData.ID
		out.PeriodEnd = time.Unix(subData.CurrentPeriodEnd, 0)
	}

	return out, nil
}
