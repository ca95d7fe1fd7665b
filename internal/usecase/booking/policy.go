package booking

import (
	"context"
	"log"
	"time"

	"github.com/frailin-studio/booking-api/internal/audit"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/notify"
)

// FreedSlot describe el cupo que dejó una cancelación.
type FreedSlot struct {
	BarberID  uint
	ServiceID uint
	Start     time.Time
	Date      string // fecha de negocio
}

// WaitlistPolicy es la reacción configurada ante un cupo liberado.
// Cada despliegue elige exactamente una: avisar o promover.
type WaitlistPolicy interface {
	OnSlotFreed(ctx context.Context, freed FreedSlot)
}

const (
	PolicyNotify  = "notify"
	PolicyPromote = "promote"
)

// ======================================================
// POLICY: NOTIFY
// ======================================================

// NotifyWaitlistPolicy marca NOTIFIED a todos los que esperan ese día
// y les avisa que corran a reservar. No agenda a nadie.
type NotifyWaitlistPolicy struct {
	repo     domain.Repository
	notifier *notify.Dispatcher
	audit    *audit.Dispatcher
	shopName string
}

func NewNotifyWaitlistPolicy(
	repo domain.Repository,
	notifier *notify.Dispatcher,
	auditDispatcher *audit.Dispatcher,
	shopName string,
) *NotifyWaitlistPolicy {
	return &NotifyWaitlistPolicy{
		repo:     repo,
		notifier: notifier,
		audit:    auditDispatcher,
		shopName: shopName,
	}
}

func (p *NotifyWaitlistPolicy) OnSlotFreed(ctx context.Context, freed FreedSlot) {
	entries, err := p.repo.ListWaitingEntries(ctx, freed.Date)
	if err != nil {
		log.Println("waitlist notify: list failed:", err)
		return
	}

	for i := range entries {
		entry := &entries[i]

		entry.Status = string(domain.WaitlistNotified)
		entry.Notified = true
		if err := p.repo.UpdateWaitlistEntry(ctx, entry); err != nil {
			log.Println("waitlist notify: update failed:", err)
			continue
		}

		p.notifier.Dispatch(entry.Phone, notify.SlotFreedMessage(
			entry.Name, freed.Date, p.shopName,
		))

		p.audit.Dispatch(audit.Event{
			Action:   "waitlist_notified",
			Entity:   "waitlist_entry",
			EntityID: &entry.ID,
		})
	}
}

// ======================================================
// POLICY: AUTO-PROMOTE
// ======================================================

type PromoteWaitlistPolicy struct {
	promoter *PromoteFromWaitlist
}

func NewPromoteWaitlistPolicy(promoter *PromoteFromWaitlist) *PromoteWaitlistPolicy {
	return &PromoteWaitlistPolicy{promoter: promoter}
}

func (p *PromoteWaitlistPolicy) OnSlotFreed(ctx context.Context, freed FreedSlot) {
	if _, err := p.promoter.Execute(ctx, freed); err != nil {
		log.Println("waitlist promote failed:", err)
	}
}
