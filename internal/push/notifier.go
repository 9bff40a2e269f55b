package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wrenfield/chorejar/internal/store"
)

// Notifier fans push notifications out to every registered parent device.
// Subscriptions the push service reports as gone are pruned as we go.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{
		service: service,
		subs:    subs,
		logger:  logger,
	}
}

// NotifyApprovalNeeded tells parent devices that a chore is waiting for review.
func (n *Notifier) NotifyApprovalNeeded(childName, choreName string, amount float64) {
	n.broadcast(Payload{
		Title: "Chore needs approval",
		Body:  fmt.Sprintf("%s finished %s ($%.2f)", childName, choreName, amount),
		URL:   "/approvals",
		Tag:   "approval-needed",
	})
}

// NotifyPurchase tells parent devices that a child redeemed a reward.
func (n *Notifier) NotifyPurchase(childName, itemName string, price float64) {
	n.broadcast(Payload{
		Title: "Reward purchased",
		Body:  fmt.Sprintf("%s bought %s ($%.2f)", childName, itemName, price),
		Tag:   "purchase",
	})
}

func (n *Notifier) broadcast(payload Payload) {
	subs, err := n.subs.ListAll()
	if err != nil {
		n.logger.Error("list push subscriptions", "error", err)
		return
	}

	for i := range subs {
		sub := &subs[i]
		err := n.service.Send(sub, payload)
		switch {
		case errors.Is(err, ErrExpired):
			if err := n.subs.DeleteSubscription(sub.ID); err != nil {
				n.logger.Error("prune expired subscription", "id", sub.ID, "error", err)
			}
		case err != nil:
			n.logger.Warn("send push", "id", sub.ID, "error", err)
		}
	}
}
