package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cixi/storefront-backend/internal/cart"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	id := NewID()

	c, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.AddSimpleItem(3, "Tijeras", 12.5, 4))
	paper := "Bond"
	require.NoError(t, c.AddCustomKit(cart.CustomKit{
		Name:      "Oficina",
		Items:     []cart.KitLine{{ProductID: 3, Name: "Tijeras", UnitPrice: 12.5, Quantity: 1}},
		PaperType: &paper,
		ExtraFee:  5,
	}))
	require.NoError(t, store.Save(ctx, id, c))

	assert.True(t, mr.Exists("cart:session:"+id))
	assert.Equal(t, time.Hour, mr.TTL("cart:session:"+id))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
	assert.Equal(t, 30.0, loaded.Total())
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	id := NewID()

	c := cart.New()
	require.NoError(t, c.AddSimpleItem(1, "Lápiz", 1, 1))
	require.NoError(t, store.Save(ctx, id, c))

	mr.FastForward(2 * time.Hour)

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	store, mr := setupRedisStore(t)
	id := NewID()
	require.NoError(t, mr.Set("cart:session:"+id, "{not json"))

	loaded, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	id := NewID()

	require.NoError(t, store.Save(ctx, id, cart.New()))
	require.NoError(t, store.Delete(ctx, id))
	assert.False(t, mr.Exists("cart:session:"+id))
}

func TestRedisStore_RejectsForeignIDs(t *testing.T) {
	store, _ := setupRedisStore(t)

	_, err := store.Load(context.Background(), "../../etc")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, store.Save(context.Background(), "", cart.New()), ErrInvalidID)
}

func TestRedisStore_LoadSlidesExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	id := NewID()

	c := cart.New()
	require.NoError(t, c.AddSimpleItem(1, "Lápiz", 1, 5))
	require.NoError(t, store.Save(ctx, id, c))

	for i := 0; i < 3; i++ {
		mr.FastForward(40 * time.Minute)
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.False(t, loaded.IsEmpty(), "read %d", i+1)
		assert.Equal(t, time.Hour, mr.TTL("cart:session:"+id))
	}

	mr.FastForward(61 * time.Minute)
	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
