package service

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"practice-schedule/internal/models"
)

// WeekCopier - операция, которую периодически выполняет AutoCopier
type WeekCopier interface {
	CopyWeekForward(ctx context.Context, offsetDays int) (MutationResult[[]models.Slot], error)
}

// AutoCopier по расписанию cron копирует слоты на следующую неделю
type AutoCopier struct {
	copier WeekCopier
	spec   string
	logger *logrus.Logger

	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func NewAutoCopier(copier WeekCopier, spec string, logger *logrus.Logger) *AutoCopier {
	if logger == nil {
		logger = logrus.New()
	}
	return &AutoCopier{copier: copier, spec: spec, logger: logger}
}

// Start планирует задачу; пустое расписание отключает копирование
func (a *AutoCopier) Start(ctx context.Context) error {
	if a.spec == "" {
		a.logger.Info("Auto copy-week disabled")
		return nil
	}

	a.runCtx, a.cancel = context.WithCancel(ctx)
	c := cron.New()
	if _, err := c.AddFunc(a.spec, func() { a.RunOnce(a.runCtx) }); err != nil {
		a.cancel()
		return err
	}
	c.Start()
	a.cron = c

	a.logger.WithField("spec", a.spec).Info("Auto copy-week scheduled")
	return nil
}

// Stop останавливает cron и ждет завершения запущенной задачи
func (a *AutoCopier) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
}

// RunOnce копирует неделю один раз; занятость фасада не считается ошибкой
func (a *AutoCopier) RunOnce(ctx context.Context) {
	result, err := a.copier.CopyWeekForward(ctx, DefaultCopyOffsetDays)
	switch {
	case errors.Is(err, ErrMutationInFlight):
		a.logger.Warn("Auto copy-week skipped: mutation in flight")
	case err != nil:
		a.logger.WithError(err).Error("Auto copy-week failed")
	default:
		a.logger.WithFields(logrus.Fields{
			"copied":    len(result.Value),
			"conflicts": len(result.Conflicts),
		}).Info("Auto copy-week completed")
	}
}
