// Package services реализует планировщик напоминаний о предстоящих списаниях.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/bizsubs/bizsubs/internal/lib/billing"
	"github.com/bizsubs/bizsubs/internal/lib/rabbitmq"
	"github.com/bizsubs/bizsubs/internal/lib/sl"
	"github.com/bizsubs/bizsubs/internal/models"
)

// SubscriptionRepository определяет выборки планировщика.
type SubscriptionRepository interface {
	// FindRenewalsDueTomorrow находит активные подписки со списанием завтра.
	FindRenewalsDueTomorrow(ctx context.Context) ([]*models.RenewalInfo, error)
	// FindOverdueRenewals находит активные подписки с прошедшей датой списания.
	FindOverdueRenewals(ctx context.Context) ([]*models.Subscription, error)
	// UpdateNextRenewalDate обновляет дату следующего списания.
	UpdateNextRenewalDate(ctx context.Context, id int, next time.Time) (int, error)
}

// SchedulerService периодически публикует напоминания о списаниях
// и продвигает просроченные даты следующего списания.
type SchedulerService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindRenewalsDueTomorrow раз в 12 часов ищет подписки со списанием завтра
// и публикует напоминания в очередь.
func (s *SchedulerService) FindRenewalsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.runFindRenewalsDueTomorrow(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.runFindRenewalsDueTomorrow(ctx, channel)
	}
}

func (s *SchedulerService) runFindRenewalsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find renewals due tomorrow")
	renewals, err := s.repo.FindRenewalsDueTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find renewals", sl.Err(err))
		return
	}
	if len(renewals) == 0 {
		s.log.Info("no upcoming renewals found")
		return
	}
	s.log.Info("found upcoming renewals", "count", len(renewals))
	for _, renewal := range renewals {
		err = rabbitmq.PublishMessage(channel, rabbitmq.ReminderExchange, "renewal", renewal)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

// AdvanceOverdueRenewals раз в сутки продвигает даты следующего списания
// активных подписок, чья дата уже прошла, на следующий цикл.
func (s *SchedulerService) AdvanceOverdueRenewals(ctx context.Context) {
	s.runAdvanceOverdueRenewals(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.runAdvanceOverdueRenewals(ctx)
	}
}

func (s *SchedulerService) runAdvanceOverdueRenewals(ctx context.Context) {
	s.log.Info("starting service to advance overdue renewal dates")
	subs, err := s.repo.FindOverdueRenewals(ctx)
	if err != nil {
		s.log.Error("failed to find overdue renewals", sl.Err(err))
		return
	}
	if len(subs) == 0 {
		s.log.Info("no overdue renewals found")
		return
	}
	s.log.Info("found overdue renewals", "count", len(subs))

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, sub := range subs {
		next := sub.NextRenewalDate
		var cycleErr error
		// Пропущенные циклы перешагиваются до первой будущей даты
		for !next.After(today) {
			next, cycleErr = billing.NextRenewal(next, sub.BillingCycle)
			if cycleErr != nil {
				s.log.Error("failed to compute next renewal", sl.Err(cycleErr))
				break
			}
		}
		if cycleErr != nil {
			continue
		}
		if _, err := s.repo.UpdateNextRenewalDate(ctx, sub.ID, next); err != nil {
			s.log.Error("failed to update next renewal date", sl.Err(err))
		}
	}
}
