package auth

import (
	"context"
	"time"
)

// Latency はバックエンド呼び出しの待ち時間を模擬する。
type Latency interface {
	// Wait は待ち時間が経過するかctxが終了するまでブロックする。
	// ctxが先に終了した場合はctx.Err()を返す。
	Wait(ctx context.Context) error
}

// FixedLatency は固定時間だけ待つLatency。
type FixedLatency time.Duration

// Wait は固定時間だけ待つ。
func (d FixedLatency) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoLatency は待たずに即座に戻るLatency。テストで使用する。
type NoLatency struct{}

// Wait はctxが終了済みかどうかだけを確認する。
func (NoLatency) Wait(ctx context.Context) error {
	return ctx.Err()
}
