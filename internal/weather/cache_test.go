package weather

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr, client := newMiniredis(t)
	cache := NewRedisCacheFromClient(client, WithTTL(time.Minute), WithPrefix("test:"))
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "Pune")
	require.NoError(t, err)
	assert.False(t, ok)

	want := []Entry{{Timestamp: "2024-06-01 12:00:00", Day: "Saturday", Description: "light rain", TempC: 21.5, Icon: IconRain}}
	require.NoError(t, cache.Set(ctx, "Pune", want))

	assert.True(t, mr.Exists("test:pune"))
	assert.Equal(t, time.Minute, mr.TTL("test:pune"))

	got, ok, err := cache.Get(ctx, " PUNE ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want[0].Description, got[0].Description)
	assert.Equal(t, want[0].TempC, got[0].TempC)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "Pune")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheCorruptValue(t *testing.T) {
	mr, client := newMiniredis(t)
	cache := NewRedisCacheFromClient(client)

	require.NoError(t, mr.Set("agro:forecast:pune", "not json"))

	_, _, err := cache.Get(context.Background(), "Pune")
	assert.Error(t, err)
}

func TestForecastUsesCache(t *testing.T) {
	_, client := newMiniredis(t)

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(forecastJSON(5)))
	}, WithCache(NewRedisCacheFromClient(client)))

	first, err := c.Forecast(context.Background(), "Pune")
	require.NoError(t, err)
	second, err := c.Forecast(context.Background(), "pune")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, second, 5)
	assert.Equal(t, first[0].TempC, second[0].TempC)
}

func TestForecastIgnoresCacheFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(forecastJSON(5)))
	}, WithCache(NewRedisCacheFromClient(client)))

	entries, err := c.Forecast(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestForecastSkipsCachingEmptyList(t *testing.T) {
	mr, client := newMiniredis(t)

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"cod": "200", "list": []}`))
	}, WithCache(NewRedisCacheFromClient(client)))

	for i := 0; i < 2; i++ {
		entries, err := c.Forecast(context.Background(), "Pune")
		require.NoError(t, err)
		assert.Empty(t, entries)
	}

	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, mr.Keys())
}
