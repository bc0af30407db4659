package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/config"
	"github.com/shahkeval/lead-management-sub000/internal/features/meeting"
	"github.com/shahkeval/lead-management-sub000/internal/features/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService pushes a morning reminder event for every meeting
// scheduled today.
type ReminderService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	RunOnce(ctx context.Context) (int, error)
}

type ReminderServiceImpl struct {
	MeetingRepo meeting.MeetingRepository
	Events      *notification.Hub
	Schedule    string
	Logger      *zap.Logger

	scheduler *cron.Cron
}

func NewReminderService(cfg *config.Config, meetingRepo meeting.MeetingRepository, events *notification.Hub, logger *zap.Logger) ReminderService {
	return &ReminderServiceImpl{
		MeetingRepo: meetingRepo,
		Events:      events,
		Schedule:    cfg.ReminderCron,
		Logger:      logger,
	}
}

func (s *ReminderServiceImpl) InitializeScheduler(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.Schedule); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.Schedule, err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.Schedule, func() {
		count, err := s.RunOnce(context.Background())
		if err != nil {
			s.Logger.Error("meeting reminder run failed", zap.Error(err))
			return
		}
		s.Logger.Info("meeting reminders sent", zap.Int("count", count))
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("reminder scheduler started", zap.String("schedule", s.Schedule))
	return nil
}

func (s *ReminderServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

// RunOnce publishes one reminder per meeting happening today, addressed to
// the meeting's representor.
func (s *ReminderServiceImpl) RunOnce(ctx context.Context) (int, error) {
	meetings, err := s.MeetingRepo.FindActiveByDay(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	for _, m := range meetings {
		s.Events.Publish(notification.Event{
			Type:        notification.EventMeetingReminder,
			Message:     fmt.Sprintf("Reminder: meeting with %s today at %s", m.AttendeeName, m.StartTime),
			RecipientID: m.RepresentorID.Hex(),
			Payload: map[string]string{
				"id":            m.ID.Hex(),
				"attendee_name": m.AttendeeName,
				"start_time":    m.StartTime,
				"end_time":      m.EndTime,
			},
		})
	}

	return len(meetings), nil
}
