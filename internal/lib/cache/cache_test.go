package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCache_WithoutClient(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	for name, c := range map[string]*ReportCache{
		"nil cache":   nil,
		"no client":   NewReportCache(nil, 0),
		"custom ttls": NewReportCache(nil, time.Minute),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, id, "content"))

			content, ok, err := c.Get(ctx, id)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, content)

			assert.NoError(t, c.Delete(ctx, id))
		})
	}
}

func TestNewReportCache_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewReportCache(nil, 0).ttl)
	assert.Equal(t, time.Minute, NewReportCache(nil, time.Minute).ttl)
	assert.Equal(t, "campus:report:"+uuid.Nil.String(), key(uuid.Nil))
}
