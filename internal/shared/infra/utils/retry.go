package utils

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Retry ejecuta fn hasta attempts veces con un delay constante entre intentos.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxTries(uint(attempts)),
	)
	return err
}
