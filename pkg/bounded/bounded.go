// Package bounded запускает блокирующие вызовы внешних движков так,
// чтобы вызывающий код не ждал дольше дедлайна контекста.
package bounded

import "context"

type result[T any] struct {
	value T
	err   error
}

// Call выполняет fn в отдельной горутине и возвращает ctx.Err(), если
// контекст завершился раньше. Сама fn при этом продолжает работать до конца,
// поэтому ресурсы она должна освобождать сама.
func Call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	done := make(chan result[T], 1)
	go func() {
		v, err := fn()
		done <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Run то же, что Call, для функций без результата
func Run(ctx context.Context, fn func() error) error {
	_, err := Call(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
