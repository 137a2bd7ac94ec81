// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/plberthet/agenda-go/internal/model"
)

// sendTimeout bounds a single delivery attempt so a hung relay
// cannot pin a goroutine forever.
const sendTimeout = 15 * time.Second

// Notifier builds the French plaintext bodies for workflow
// notifications and fans them out to the recipient list. Deliveries
// run in the background: methods return immediately and all delivery
// errors are swallowed after logging them.
type Notifier struct {
	sender Sender
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewNotifier creates a notifier backed by the given sender.
func NewNotifier(sender Sender, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{sender: sender, logger: logger}
}

// EventSubmitted tells every moderator that an event awaits review.
// Wording differs for first submissions and resubmissions.
func (n *Notifier) EventSubmitted(ctx context.Context, ev *model.Event, resubmitted bool, moderators []model.AdminUser) {
	subject := fmt.Sprintf("[Agenda] Événement à modérer : %s", ev.Title)
	action := "a été soumis"
	if resubmitted {
		action = "a été soumis à nouveau après correction"
	}
	body := fmt.Sprintf(
		"Bonjour,\n\n"+
			"L'événement « %s » %s et attend votre relecture.\n\n"+
			"Lieu : %s, %s %s\n"+
			"Dates : du %s au %s\n\n"+
			"Connectez-vous à l'espace d'administration pour le publier ou le refuser.\n",
		ev.Title, action,
		ev.VenueName, ev.PostalCode, ev.City,
		formatDate(ev.EventStartAt), formatDate(ev.EventEndAt),
	)

	recipients := make([]string, 0, len(moderators))
	for _, m := range moderators {
		recipients = append(recipients, m.Email)
	}
	n.fanOut(ctx, recipients, subject, body)
}

// EventPublished tells the creator their event is now public.
func (n *Notifier) EventPublished(ctx context.Context, ev *model.Event, creator *model.AdminUser) {
	if creator == nil {
		return
	}
	subject := fmt.Sprintf("[Agenda] Votre événement est publié : %s", ev.Title)
	body := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Votre événement « %s » a été publié sur l'agenda culturel.\n"+
			"Il sera visible jusqu'au %s.\n",
		creator.Name, ev.Title, formatDate(ev.PublicationEndAt),
	)
	n.fanOut(ctx, []string{creator.Email}, subject, body)
}

// EventRejected tells the creator their event was refused and why.
func (n *Notifier) EventRejected(ctx context.Context, ev *model.Event, creator *model.AdminUser) {
	if creator == nil {
		return
	}
	reason := ""
	if ev.RejectionReason != nil {
		reason = *ev.RejectionReason
	}
	subject := fmt.Sprintf("[Agenda] Votre événement a été refusé : %s", ev.Title)
	body := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Votre événement « %s » a été refusé par la modération.\n\n"+
			"Motif : %s\n\n"+
			"Vous pouvez le corriger puis le soumettre à nouveau.\n",
		creator.Name, ev.Title, reason,
	)
	n.fanOut(ctx, []string{creator.Email}, subject, body)
}

// EventDeleted tells the creator their event was removed.
func (n *Notifier) EventDeleted(ctx context.Context, ev *model.Event, creator *model.AdminUser) {
	if creator == nil {
		return
	}
	subject := fmt.Sprintf("[Agenda] Votre événement a été supprimé : %s", ev.Title)
	body := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Votre événement « %s » a été supprimé de l'agenda culturel.\n",
		creator.Name, ev.Title,
	)
	n.fanOut(ctx, []string{creator.Email}, subject, body)
}

// fanOut dispatches the same message to every recipient in the
// background and returns without waiting for delivery. Each send gets
// its own deadline, detached from the caller's context so that the
// triggering request can complete first. Failures are logged per
// recipient.
func (n *Notifier) fanOut(_ context.Context, recipients []string, subject, body string) {
	for _, to := range recipients {
		if to == "" {
			continue
		}
		n.wg.Add(1)
		go func(to string) {
			defer n.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()
			if err := n.sender.Send(ctx, to, subject, body); err != nil {
				n.logger.Warn("notification delivery failed",
					"to", to, "subject", subject, "error", err)
			}
		}(to)
	}
}

// Wait blocks until all dispatched notifications have been attempted.
// Used on shutdown to flush in-flight deliveries.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
