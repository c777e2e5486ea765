package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/stretchr/testify/assert"
)

type fakePaymentService struct {
	polls   atomic.Int64
	drained atomic.Int64
}

func (s *fakePaymentService) ReconcilePayments(ctx context.Context, orderCh <-chan models.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-orderCh:
			if !ok {
				return
			}
			s.drained.Add(1)
		}
	}
}

func (s *fakePaymentService) GetOrdersForReconcile(ctx context.Context, orderCh chan<- models.Order) error {
	s.polls.Add(1)
	orderCh <- models.Order{Number: "10009"}
	return nil
}

func TestPaymentReconciler_Run(t *testing.T) {
	svc := &fakePaymentService{}
	reconciler := NewPaymentReconciler(svc, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reconciler.Run(ctx)
		close(done)
	}()

	// let a few ticks pass
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop on context cancel")
	}

	assert.Greater(t, svc.polls.Load(), int64(0))
	assert.Greater(t, svc.drained.Load(), int64(0))
}
