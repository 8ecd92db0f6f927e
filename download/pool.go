package download

import "context"

// TokenPool bounds the number of simultaneously active transfers with a
// pre-seeded counting semaphore.
type TokenPool struct {
	tokens chan struct{}
}

// NewTokenPool seeds a pool with size tokens.
func NewTokenPool(size int) *TokenPool {
	tokens := make(chan struct{}, size)
	for i := 0; i < size; i++ {
		tokens <- struct{}{}
	}
	return &TokenPool{tokens: tokens}
}

// Acquire blocks until a token is free or the context ends. The returned
// release must run on every exit path of the holder.
func (p *TokenPool) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.tokens:
		return func() { p.tokens <- struct{}{} }, nil
	}
}
