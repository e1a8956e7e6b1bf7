package reminder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/protocol"
	"github.com/BruksfildServices01/clinic-server/internal/timezone"
)

const runTimeout = 30 * time.Second

type Store interface {
	DueReminders(ctx context.Context, day string) ([]models.Appointment, error)
	MarkReminded(ctx context.Context, ids []uint, at time.Time) error
}

// Relay must be called on the event loop.
type Relay interface {
	Send(userID, payload string) bool
}

type Poster interface {
	Post(fn func()) bool
}

// Job pushes APPOINTMENT_REMINDER to patients with a confirmed booking
// tomorrow. Patients that are offline are retried on the next run.
type Job struct {
	store Store
	relay Relay
	loop  Poster
	log   zerolog.Logger
	now   func() time.Time
}

func New(store Store, relay Relay, loop Poster, log zerolog.Logger) *Job {
	return &Job{
		store: store,
		relay: relay,
		loop:  loop,
		log:   log.With().Str("component", "reminder").Logger(),
		now:   timezone.Now,
	}
}

// Start schedules Run every intervalMinutes. A non-positive interval
// disables the job and returns nil.
func (j *Job) Start(intervalMinutes int) (*gocron.Scheduler, error) {
	if intervalMinutes <= 0 {
		j.log.Info().Msg("appointment reminders disabled")
		return nil, nil
	}

	s := gocron.NewScheduler(timezone.Current())
	s.SingletonModeAll()

	if _, err := s.Every(intervalMinutes).Minutes().Do(j.tick); err != nil {
		return nil, fmt.Errorf("schedule reminders: %w", err)
	}

	s.StartAsync()
	j.log.Info().Int("interval_minutes", intervalMinutes).Msg("appointment reminders started")
	return s, nil
}

func (j *Job) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	n, err := j.Run(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("reminder run failed")
		return
	}
	if n > 0 {
		j.log.Info().Int("delivered", n).Msg("appointment reminders sent")
	}
}

// Run performs one pass and returns how many reminders were delivered.
func (j *Job) Run(ctx context.Context) (int, error) {
	now := j.now()
	day := now.AddDate(0, 0, 1).Format(timezone.DayLayout)

	due, err := j.store.DueReminders(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("load due reminders: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	delivered := make(chan []uint, 1)
	posted := j.loop.Post(func() {
		var ids []uint
		for _, ap := range due {
			if j.relay.Send(ap.PatientID, Payload(ap)) {
				ids = append(ids, ap.ID)
			}
		}
		delivered <- ids
	})
	if !posted {
		return 0, nil
	}

	var ids []uint
	select {
	case ids = <-delivered:
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	if err := j.store.MarkReminded(ctx, ids, now); err != nil {
		return 0, fmt.Errorf("mark reminded: %w", err)
	}
	return len(ids), nil
}

// Payload is APPOINTMENT_REMINDER#<id>#<doctor>#<date>.
func Payload(ap models.Appointment) string {
	return strings.Join([]string{
		protocol.PushAppointmentReminder,
		strconv.FormatUint(uint64(ap.ID), 10),
		ap.DoctorID,
		ap.AppointmentDate,
	}, protocol.Separator)
}
