package matcher

import "go.uber.org/zap"

type cycleMetrics struct {
	active    int
	satisfied int
	delivered int
	expired   int
}

func (m cycleMetrics) log(logger *zap.Logger) {
	if m.satisfied == 0 && m.expired == 0 {
		return
	}
	args := []any{"active", m.active}
	if m.satisfied != 0 {
		args = append(args, "satisfied", m.satisfied, "delivered", m.delivered)
	}
	if m.expired != 0 {
		args = append(args, "expired", m.expired)
	}
	logger.Sugar().Infow("Matching cycle resolved subscriptions", args...)
}
