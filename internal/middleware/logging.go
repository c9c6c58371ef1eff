package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Logging records every update with its outcome and duration
func Logging(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.Duration("elapsed", time.Since(start)),
			}
			if sender := c.Sender(); sender != nil {
				fields = append(fields,
					zap.Int64("user_id", sender.ID),
					zap.String("username", sender.Username),
				)
			}
			if cb := c.Callback(); cb != nil {
				fields = append(fields, zap.String("callback", cb.Unique))
			} else if text := c.Text(); text != "" {
				fields = append(fields, zap.Int("text_len", len([]rune(text))))
			}

			if err != nil {
				logger.Warn("Update failed", append(fields, zap.Error(err))...)
				return err
			}
			logger.Debug("Update handled", fields...)
			return nil
		}
	}
}
