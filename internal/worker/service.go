package worker

import (
	"context"
	"errors"
	"time"

	"github.com/funfair-next/internal/config"
	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/queue"

	"github.com/hibiken/asynq"
)

const cardExpireSweepInterval = time.Hour

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.QueueClient != nil {
		go s.runCardExpireSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCardExpireSweepLoop 周期性投递过期卡清扫任务。通过队列投递而非直接执行，
// 多实例部署时由消费者端串行处理
func (s *Service) runCardExpireSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.QueueClient == nil {
		return
	}
	enqueueOnce := func() {
		payload := queue.CardExpireSweepPayload{BatchSize: defaultExpireSweepBatch}
		if err := s.consumer.QueueClient.EnqueueCardExpireSweep(payload); err != nil {
			logger.Warnw("worker_card_expire_sweep_enqueue_failed", "error", err)
		}
	}
	enqueueOnce()

	ticker := time.NewTicker(cardExpireSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueueOnce()
		}
	}
}
