package settings

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Repository {
	t.Helper()
	bolt, err := NewBoltRepository(filepath.Join(t.TempDir(), "nested", "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"bolt":   bolt,
	}
}

func TestRepository_GetSetUpdate(t *testing.T) {
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			v, err := r.Get(ctx, "users")
			require.NoError(t, err)
			assert.Nil(t, v, "absent key must read as nil")

			require.NoError(t, r.Set(ctx, "users", []byte(`[]`)))
			v, err = r.Get(ctx, "users")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(v))

			err = r.Update(ctx, "users", func(cur []byte) ([]byte, error) {
				assert.Equal(t, `[]`, string(cur))
				return []byte(`[{"username":"a"}]`), nil
			})
			require.NoError(t, err)

			v, err = r.Get(ctx, "users")
			require.NoError(t, err)
			assert.Equal(t, `[{"username":"a"}]`, string(v))
		})
	}
}

func TestRepository_UpdateErrorWritesNothing(t *testing.T) {
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, "k", []byte(`1`)))

			boom := errors.New("boom")
			err := r.Update(ctx, "k", func([]byte) ([]byte, error) { return nil, boom })
			require.ErrorIs(t, err, boom)

			v, err := r.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `1`, string(v))
		})
	}
}

func TestRepository_ReturnedValueIsACopy(t *testing.T) {
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, "k", []byte(`abc`)))

			v, err := r.Get(ctx, "k")
			require.NoError(t, err)
			v[0] = 'X'

			again, err := r.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `abc`, string(again))
		})
	}
}

func TestRepository_ConcurrentUpdatesAreSerialised(t *testing.T) {
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const writers = 20

			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := r.Update(ctx, "counter", func(cur []byte) ([]byte, error) {
						return append(cur, 'x'), nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			v, err := r.Get(ctx, "counter")
			require.NoError(t, err)
			assert.Len(t, v, writers, "no update may be lost")
		})
	}
}
