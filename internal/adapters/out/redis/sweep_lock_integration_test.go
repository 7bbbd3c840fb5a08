package redis_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redisadapter "fulfillment/internal/adapters/out/redis"

	rd "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type SweepLockIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *rd.Client
}

func (suite *SweepLockIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "6379")
	suite.Require().NoError(err)

	suite.client, err = redisadapter.NewClient(ctx, fmt.Sprintf("%s:%s", host, port.Port()), 0)
	suite.Require().NoError(err)
}

func (suite *SweepLockIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushDB(context.Background()).Err())
}

func (suite *SweepLockIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		_ = suite.client.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *SweepLockIntegrationTestSuite) TestAcquire_SecondHolderIsRejected() {
	ctx := context.Background()
	lock := redisadapter.NewSweepLock(suite.client, "sweep:test", time.Minute)

	token, ok, err := lock.Acquire(ctx)
	suite.Require().NoError(err)
	suite.True(ok)
	suite.NotEmpty(token)

	_, ok, err = lock.Acquire(ctx)
	suite.Require().NoError(err)
	suite.False(ok)

	suite.Require().NoError(lock.Release(ctx, token))

	_, ok, err = lock.Acquire(ctx)
	suite.Require().NoError(err)
	suite.True(ok)
}

func (suite *SweepLockIntegrationTestSuite) TestRelease_ForeignTokenKeepsLock() {
	ctx := context.Background()
	lock := redisadapter.NewSweepLock(suite.client, "sweep:test", time.Minute)

	token, ok, err := lock.Acquire(ctx)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Require().ErrorIs(lock.Release(ctx, "someone-else"), redisadapter.ErrLockNotHeld)

	stored, err := suite.client.Get(ctx, "sweep:test").Result()
	suite.Require().NoError(err)
	suite.Equal(token, stored)
}

func (suite *SweepLockIntegrationTestSuite) TestAcquire_ExpiresAfterTTL() {
	ctx := context.Background()
	lock := redisadapter.NewSweepLock(suite.client, "sweep:test", 100*time.Millisecond)

	token, ok, err := lock.Acquire(ctx)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Eventually(func() bool {
		_, acquired, acquireErr := lock.Acquire(ctx)
		return acquireErr == nil && acquired
	}, 2*time.Second, 50*time.Millisecond)

	suite.ErrorIs(lock.Release(ctx, token), redisadapter.ErrLockNotHeld)
}

func (suite *SweepLockIntegrationTestSuite) TestAcquire_ConcurrentReplicas_OneWins() {
	ctx := context.Background()
	const replicas = 8

	var wg sync.WaitGroup
	wins := make(chan struct{}, replicas)
	for range replicas {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock := redisadapter.NewSweepLock(suite.client, "sweep:test", time.Minute)
			if _, ok, err := lock.Acquire(ctx); err == nil && ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	suite.Len(wins, 1)
}

func TestSweepLockIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SweepLockIntegrationTestSuite))
}
