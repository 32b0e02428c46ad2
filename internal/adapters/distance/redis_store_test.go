package distance_test

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/distance"
	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
	"github.com/andrescamacho/voyage-estimator/test/helpers"
)

func TestNewRedisStore_RejectsBadURL(t *testing.T) {
	_, err := distance.NewRedisStore("not-a-redis-url", time.Hour)

	assert.Error(t, err)
}

func TestRedisStore_UnreachableServerDegradesResolver(t *testing.T) {
	// Arrange
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := distance.NewRedisStoreFromClient(rdb, time.Hour)
	defer store.Close()
	resolver := distance.NewLocalResolver(helpers.SamplePorts(), nil, 1, store)

	// Act
	pingErr := store.Ping(context.Background())
	results, err := resolver.GetPortDistance(context.Background(), []routing.PortPairRequest{{FromPort: "Rotterdam", ToPort: "Santos"}})

	// Assert
	assert.Error(t, pingErr)
	assert.NoError(t, err)
	assert.Greater(t, results[0].Distance, 0.0)
}
