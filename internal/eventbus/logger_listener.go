package eventbus

import (
	"context"

	"github.com/annel0/blockplay/internal/logging"
)

// StartLoggingListener подписывается на события по фильтру и пишет их в лог компонента.
// Важные события (приоритет от highPriority) пишутся на уровне INFO, остальные DEBUG.
// Функция неблокирующая.
func StartLoggingListener(ctx context.Context, bus EventBus, logger *logging.Logger, f Filter) (Subscription, error) {
	sub, err := bus.Subscribe(ctx, f, func(ctx context.Context, ev *Envelope) {
		if ev.Priority >= highPriority {
			logger.Info("%s/%s prio=%d %s", ev.Source, ev.EventType, ev.Priority, ev.Payload)
			return
		}
		logger.Debug("%s/%s id=%s size=%dB", ev.Source, ev.EventType, ev.ID, len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Журнал событий подключён (типы: %v, источники: %v)", f.Types, f.Sources)
	return sub, nil
}
