// Package cron hosts the background asynq worker that delivers scheduled
// appointment reminders.
package cron

import (
	"context"
	"encoding/json"
	"time"

	"mindcare/config"
	appointmentRepo "mindcare/database/repository/appointment"
	"mindcare/models"
	"mindcare/services/notification"
	"mindcare/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async worker in the background.
func InitReminderWorker(notifSvc notification.NotificationService, appointments appointmentRepo.AppointmentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentReminder, handleReminderTask(notifSvc, appointments))

	go monitorRedisConnection()

	go func() {
		zap.L().Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				break
			}
			zap.L().Error("reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				zap.L().Fatal("reminder worker exhausted retries")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService, appointments appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			zap.L().Error("invalid reminder payload", zap.Error(err))
			return err
		}

		// A cancelled appointment must not fire its reminder.
		appt, err := appointments.GetByID(ctx, p.AppointmentID)
		if err != nil {
			zap.L().Error("reminder lookup failed",
				zap.String("appointmentID", p.AppointmentID), zap.Error(err))
			return err
		}
		if appt == nil || appt.Status != models.AppointmentConfirmed {
			zap.L().Info("skipping reminder for non-confirmed appointment",
				zap.String("appointmentID", p.AppointmentID))
			return nil
		}

		zap.L().Info("delivering appointment reminder",
			zap.String("appointmentID", appt.ID), zap.String("userID", appt.UserID))

		if err := notifSvc.AppointmentReminder(ctx, appt); err != nil {
			zap.L().Error("reminder push failed",
				zap.String("appointmentID", appt.ID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			zap.L().Warn("reminder queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
