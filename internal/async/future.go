// Package async は非同期呼び出しの完了通知を提供する。
package async

import "context"

// Future は別goroutineで実行中の呼び出し結果を表す。
// 結果が確定するとDoneのチャネルがcloseされる。
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go はfnを新しいgoroutineで実行し、その結果を表すFutureを返す。
// fnにはctxがそのまま渡されるため、キャンセルはfn側で扱う。
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Done は結果が確定したときにcloseされるチャネルを返す。
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait は結果の確定を待って返す。
// 確定前にctxが終了した場合はctx.Err()を返す。呼び出し自体は継続する。
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result は結果の確定まで待って返す。
// fnがctxの終了を扱う前提で、呼び出し側のctxに関係なく確定した結果を得たい場合に使う。
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}
