//go:build integration

package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
	"github.com/admin-bn/company-controller/pkg/testutil/containers"
)

func TestRedis_ExcludesSecondHolderUntilRelease(t *testing.T) {
	rc := containers.GetManager().GetRedis(t)
	client := redis.NewClient(&redis.Options{Addr: rc.Addr})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedis(client, time.Second)
	ctx := context.Background()

	release, err := l.Lock(ctx, "emp-1")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, "emp-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrLockHeld))

	release()

	release2, err := l.Lock(ctx, "emp-1")
	require.NoError(t, err)
	release2()
}

func TestRedis_LeaseExpires(t *testing.T) {
	rc := containers.GetManager().GetRedis(t)
	client := redis.NewClient(&redis.Options{Addr: rc.Addr})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedis(client, 150*time.Millisecond)
	ctx := context.Background()

	_, err := l.Lock(ctx, "emp-crashed")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	release, err := l.Lock(waitCtx, "emp-crashed")
	require.NoError(t, err)
	release()
}
