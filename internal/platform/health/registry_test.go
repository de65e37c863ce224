package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clictest/clictest/internal/platform/health"
	"github.com/clictest/clictest/mocks"
)

func checker(t *testing.T, name string, err error) *mocks.MockHealthChecker {
	t.Helper()
	c := mocks.NewMockHealthChecker(t)
	c.EXPECT().Name().Return(name)
	c.EXPECT().HealthCheck(mock.Anything).Return(err)
	return c
}

func TestCheckAll(t *testing.T) {
	t.Parallel()

	errRefused := errors.New("connection refused")

	tests := []struct {
		name     string
		checkers func(t *testing.T) []*mocks.MockHealthChecker
		want     map[string]error
	}{
		{
			name:     "no backends",
			checkers: func(*testing.T) []*mocks.MockHealthChecker { return nil },
			want:     map[string]error{},
		},
		{
			name: "all healthy",
			checkers: func(t *testing.T) []*mocks.MockHealthChecker {
				return []*mocks.MockHealthChecker{checker(t, "postgres", nil), checker(t, "redis", nil)}
			},
			want: map[string]error{"postgres": nil, "redis": nil},
		},
		{
			name: "image source down",
			checkers: func(t *testing.T) []*mocks.MockHealthChecker {
				return []*mocks.MockHealthChecker{checker(t, "postgres", nil), checker(t, "image-source", errRefused)}
			},
			want: map[string]error{"postgres": nil, "image-source": errRefused},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := health.New()
			for _, c := range tt.checkers(t) {
				r.Register(c)
			}

			got := r.CheckAll(context.Background())
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegister_SameNameReplaces(t *testing.T) {
	t.Parallel()

	first := mocks.NewMockHealthChecker(t)
	first.EXPECT().Name().Return("postgres")

	errDown := errors.New("pool closed")
	r := health.New()
	r.Register(first)
	r.Register(checker(t, "postgres", errDown))

	got := r.CheckAll(context.Background())
	require.Len(t, got, 1)
	assert.ErrorIs(t, got["postgres"], errDown)
}

func TestCheckAll_PassesContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := mocks.NewMockHealthChecker(t)
	c.EXPECT().Name().Return("redis")
	c.EXPECT().HealthCheck(mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() != nil
	})).Return(context.Canceled).Maybe()

	r := health.New()
	r.Register(c)

	assert.ErrorIs(t, r.CheckAll(ctx)["redis"], context.Canceled)
}

// stuckChecker ignores its context, like a driver blocked on a dead socket.
type stuckChecker struct{ release chan struct{} }

func (stuckChecker) Name() string { return "postgres" }

func (s stuckChecker) HealthCheck(context.Context) error {
	<-s.release
	return nil
}

func TestCheckAll_TimesOutSlowChecks(t *testing.T) {
	t.Parallel()

	stuck := stuckChecker{release: make(chan struct{})}
	t.Cleanup(func() { close(stuck.release) })

	r := health.New(health.WithCheckTimeout(30 * time.Millisecond))
	r.Register(stuck)
	r.Register(checker(t, "redis", nil))

	start := time.Now()
	got := r.CheckAll(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.NoError(t, got["redis"])
	require.ErrorIs(t, got["postgres"], context.DeadlineExceeded)
	assert.Contains(t, got["postgres"].Error(), "timed out")
}

func TestCheckAll_NoTimeout(t *testing.T) {
	t.Parallel()

	r := health.New(health.WithCheckTimeout(0))
	r.Register(checker(t, "redis", nil))

	assert.Equal(t, map[string]error{"redis": nil}, r.CheckAll(context.Background()))
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	for i := range 50 {
		if i%2 == 0 {
			wg.Go(func() {
				c := mocks.NewMockHealthChecker(t)
				c.EXPECT().Name().Return("redis").Maybe()
				c.EXPECT().HealthCheck(mock.Anything).Return(nil).Maybe()
				r.Register(c)
			})
			continue
		}
		wg.Go(func() { r.CheckAll(context.Background()) })
	}
	wg.Wait()
}
