package queue

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubarcoiris/members-system/internal/core/service"
)

func TestHashPool_HashAndVerify(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewHashPool(2, service.NewScryptHasher(), zerolog.Nop())
	pool.Start(ctx)

	encoded, err := pool.Hash(ctx, "admin123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "scrypt$") {
		t.Fatalf("unexpected format: %s", encoded)
	}

	res, err := pool.Verify(ctx, "admin123", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !res.Valid || res.NeedsRehash {
		t.Fatalf("unexpected result: %+v", res)
	}

	res, err = pool.Verify(ctx, "wrong", encoded)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if res.Valid {
		t.Fatalf("wrong password must be invalid")
	}
}

func TestHashPool_ConcurrentJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewHashPool(4, service.NewScryptHasher(), zerolog.Nop())
	pool.Start(ctx)

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			encoded, err := pool.Hash(ctx, "same-password")
			if err != nil {
				errs <- err
				return
			}
			res, err := pool.Verify(ctx, "same-password", encoded)
			if err == nil && !res.Valid {
				err = context.DeadlineExceeded // any sentinel: result must be valid
			}
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent job failed: %v", err)
		}
	}
}

func TestHashPool_CancelledCaller(t *testing.T) {
	poolCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewHashPool(1, service.NewScryptHasher(), zerolog.Nop())
	pool.Start(poolCtx)

	callerCtx, cancelCaller := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancelCaller()

	// Keep the single worker busy so the caller's deadline fires first.
	go func() { _, _ = pool.Hash(poolCtx, "occupies-the-worker") }()

	time.Sleep(5 * time.Millisecond)
	if _, err := pool.Hash(callerCtx, "whatever"); err == nil {
		t.Fatalf("expected context error for cancelled caller")
	}
}
