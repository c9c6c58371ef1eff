package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const msgInternalError = "Une erreur est survenue. Réessayez plus tard."

// UserRegistrar creates users on first contact
type UserRegistrar interface {
	EnsureUserExists(userID int64) error
}

// RegisterUser makes sure every sender has a user record before the
// handler runs
func RegisterUser(users UserRegistrar, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			if err := users.EnsureUserExists(sender.ID); err != nil {
				logger.Error("Failed to ensure user exists in middleware",
					zap.Int64("user_id", sender.ID),
					zap.Error(err),
				)
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: msgInternalError})
				}
				return c.Send(msgInternalError)
			}

			return next(c)
		}
	}
}
