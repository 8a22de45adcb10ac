// Package counter はプロセス内で共有する整数カウンタを提供する。
package counter

import (
	"math"
	"sync"
)

// Op はカウンタに対する操作の種類を表す。
type Op string

const (
	// OpIncrement は1加算する操作。
	OpIncrement Op = "increment"
	// OpDecrement は1減算する操作。
	OpDecrement Op = "decrement"
	// OpReset は0に戻す操作。
	OpReset Op = "reset"
)

// Store はプロセス全体で1つの整数を保持するカウンタストア。
// 読み取り・更新はすべてミューテックスで直列化する。
// 値はint64の範囲で飽和し、上限・下限を超えてラップアラウンドしない。
type Store struct {
	mu    sync.Mutex
	value int64
}

// NewStore は初期値0のStoreを生成する。
func NewStore() *Store {
	return &Store{}
}

// Value は現在の値を返す。副作用はない。
func (s *Store) Value() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Increment は値に1を加算し、更新後の値を返す。
// math.MaxInt64に達している場合は値を変更しない。
func (s *Store) Increment() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value < math.MaxInt64 {
		s.value++
	}
	return s.value
}

// Decrement は値から1を減算し、更新後の値を返す。
// math.MinInt64に達している場合は値を変更しない。
func (s *Store) Decrement() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value > math.MinInt64 {
		s.value--
	}
	return s.value
}

// Reset は値を0に戻し、0を返す。
func (s *Store) Reset() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = 0
	return s.value
}
