package core

import (
	"context"
	"sync"
	"testing"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	ctx = contract.WithRunID(ctx, "run-1")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.True(t, shouldSuppressHeader(ctx), "goroutine %d", id)
			assert.Equal(t, "run-1", contract.RunLogger(ctx).Data["run_id"], "goroutine %d", id)
		}(i)
	}
	wg.Wait()
}

func TestContextIsolation(t *testing.T) {
	base := context.Background()
	assert.False(t, shouldSuppressHeader(base))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(base)))
	assert.False(t, shouldSuppressHeader(context.WithValue(base, suppressHeaderKey, "yes")))
}

func TestEnsureRunID(t *testing.T) {
	fresh := ensureRunID(context.Background())
	id, ok := contract.RunLogger(fresh).Data["run_id"]
	assert.True(t, ok)
	assert.NotEmpty(t, id)

	kept := ensureRunID(contract.WithRunID(context.Background(), "fixed"))
	assert.Equal(t, "fixed", contract.RunLogger(kept).Data["run_id"])
}
