package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/provider"
	"github.com/funfair-next/internal/queue"
	"github.com/funfair-next/internal/service"

	"github.com/hibiken/asynq"
)

const defaultExpireSweepBatch = 200

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskBookingTimeoutCancel, c.handleBookingTimeoutCancel)
	mux.HandleFunc(queue.TaskCardExpireSweep, c.handleCardExpireSweep)
}

func (c *Consumer) handleBookingTimeoutCancel(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_booking_timeout_cancel_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.BookingTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_booking_timeout_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.BookingID == 0 {
		logger.Debugw("worker_booking_timeout_cancel_skip_invalid_payload", "booking_id", payload.BookingID)
		return nil
	}
	if c.BookingService == nil {
		logger.Warnw("worker_booking_timeout_cancel_skip_booking_service_nil", "booking_id", payload.BookingID)
		return nil
	}
	if err := c.BookingService.TimeoutCancel(payload.BookingID); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			logger.Debugw("worker_booking_timeout_cancel_skip_not_found", "booking_id", payload.BookingID)
			return nil
		}
		logger.Warnw("worker_booking_timeout_cancel_failed", "booking_id", payload.BookingID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleCardExpireSweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_card_expire_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CardExpireSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_card_expire_sweep_unmarshal_failed", "error", err)
		return err
	}
	if c.CardService == nil {
		logger.Warnw("worker_card_expire_sweep_skip_card_service_nil")
		return nil
	}
	batch := payload.BatchSize
	if batch <= 0 {
		batch = defaultExpireSweepBatch
	}
	swept, err := c.CardService.ExpireSweep(batch)
	if err != nil {
		logger.Warnw("worker_card_expire_sweep_failed", "batch_size", batch, "error", err)
		return err
	}
	if swept > 0 {
		logger.Infow("worker_card_expire_sweep_done", "swept", swept)
	}
	return nil
}
