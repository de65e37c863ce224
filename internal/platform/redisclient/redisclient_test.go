package redisclient_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clictest/clictest/internal/platform/config"
	"github.com/clictest/clictest/internal/platform/redisclient"
)

func TestNew_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redisclient.New(context.Background(), &config.RedisConfig{
		Addr:        mr.Addr(),
		DialTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	checker := redisclient.NewChecker(client)
	assert.Equal(t, "redis", checker.Name())
	assert.NoError(t, checker.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, checker.HealthCheck(context.Background()))
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redisclient.New(context.Background(), &config.RedisConfig{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
	})
	assert.Error(t, err)
}
