package services

import (
	"context"

	"plenum/application/ports"
	"plenum/domain/core/entities"
	"plenum/pkg/async"
	"plenum/pkg/utils"

	"go.uber.org/zap"
)

// FinalizeNotifier hands a freshly finalized minutes off to the mail
// subsystem. The hand-off is detached: it starts only after the finalize
// commit and its failure is logged on its own channel, never visible to
// the finalize caller.
type FinalizeNotifier struct {
	settings ports.MailSettings
	composer ports.MailComposer
	logger   *zap.Logger
}

// NewFinalizeNotifier creates the notifier
func NewFinalizeNotifier(settings ports.MailSettings, composer ports.MailComposer, logger *zap.Logger) *FinalizeNotifier {
	return &FinalizeNotifier{
		settings: settings,
		composer: composer,
		logger:   logger,
	}
}

// NotifyOptions carries per-finalize delivery choices
type NotifyOptions struct {
	SendActionItems bool
	SendInfoItems   bool
	// FinalizerEmail is the first email address of the finalizing user,
	// empty when the identity provider carries none
	FinalizerEmail string
}

// NotifyFinalized schedules the mail hand-off for a finalized minutes.
// A disabled mail configuration is a silent skip.
func (n *FinalizeNotifier) NotifyFinalized(m *entities.Minutes, series *entities.MeetingSeries, opts NotifyOptions) {
	if !n.settings.IsEmailDeliveryEnabled() {
		n.logger.Debug("Email delivery disabled, skipping finalize notification",
			zap.String("minutesID", m.ID().String()),
		)
		return
	}

	sender := opts.FinalizerEmail
	if sender == "" {
		sender = n.settings.DefaultSenderAddress()
	}

	req := ports.SendMinutesRequest{
		MinutesID:       m.ID(),
		SeriesID:        series.ID(),
		SeriesName:      series.Name(),
		MeetingDate:     utils.FormatDate(m.Date()),
		Sender:          sender,
		SendActionItems: opts.SendActionItems,
		SendInfoItems:   opts.SendInfoItems,
		Topics:          m.Topics(),
	}

	async.Detach(n.logger, "finalize-mail", func(ctx context.Context) error {
		return n.composer.SendMinutes(ctx, req)
	})
}
