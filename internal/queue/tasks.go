package queue

import (
	"encoding/json"

	"github.com/funfair-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskBookingTimeoutCancel 预约超时取消任务
	TaskBookingTimeoutCancel = constants.TaskBookingTimeoutCancel
	// TaskCardExpireSweep 过期卡落库任务
	TaskCardExpireSweep = constants.TaskCardExpireSweep
)

// BookingTimeoutCancelPayload 预约超时取消任务载荷
type BookingTimeoutCancelPayload struct {
	BookingID uint `json:"booking_id"`
}

// CardExpireSweepPayload 过期卡落库任务载荷
type CardExpireSweepPayload struct {
	BatchSize int `json:"batch_size"`
}

// NewBookingTimeoutCancelTask 创建预约超时取消任务
func NewBookingTimeoutCancelTask(payload BookingTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingTimeoutCancel, body), nil
}

// NewCardExpireSweepTask 创建过期卡落库任务
func NewCardExpireSweepTask(payload CardExpireSweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCardExpireSweep, body), nil
}
