package payment

import (
	"fmt"
	"sync"
	"time"

	"condofacil_backend/internal/model"
)

// Event is the provider-neutral shape a webhook payload is reduced to.
// Anything the gateway cannot classify comes back as EventUnknown and is
// only persisted for audit.
type Event struct {
	ID             string
	Type           string
	SubscriptionID string
	ChargeRef      string
	Amount         float64
	PeriodEnd      time.Time
	PaidAt         time.Time
}

const (
	EventPaymentSucceeded      = "payment_succeeded"
	EventSubscriptionCancelled = "subscription_cancelled"
	EventSubscriptionUpdated   = "subscription_updated"
	EventUnknown               = "unknown"
)

// Gateway hides the provider wire protocol. The rest of the codebase only
// ever sees Events and opaque ids.
type Gateway interface {
	Name() string
	CreateSubscription(user *model.User, condo *model.Condo, plan *model.Plan) (*SubscriptionResult, error)
	CancelSubscription(providerSubID string) error
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type SubscriptionResult struct {
	ProviderSubID string
	ExpiresAt     time.Time
}

var (
	mu       sync.RWMutex
	gateways = map[string]Gateway{}
)

func Register(g Gateway) {
	mu.Lock()
	defer mu.Unlock()
	gateways[g.Name()] = g
}

func Get(name string) (Gateway, error) {
	mu.RLock()
	defer mu.RUnlock()
	g, ok := gateways[name]
	if !ok {
		return nil, fmt.Errorf("unknown payment provider: %s", name)
	}
	return g, nil
}
