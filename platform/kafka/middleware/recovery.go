package middleware

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/you-humble/farm-connect/platform/kafka"
)

type ErrorLogger interface {
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

// Recovery turns a handler panic into an error so one bad record cannot stop the claim loop.
func Recovery(logger ErrorLogger) kafka.Middleware {
	return func(next kafka.MessageHandler) kafka.MessageHandler {
		return func(ctx context.Context, msg kafka.Message) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(ctx, "panic in kafka handler",
						zap.String("topic", msg.Topic),
						zap.Any("panic", r),
					)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(ctx, msg)
		}
	}
}
