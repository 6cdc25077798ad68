package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurv/sitegen/pkg/domain"
)

func TestResolveSlugDate(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	tests := []struct {
		name         string
		filename     string
		explicitSlug string
		explicitDate time.Time
		wantSlug     string
		wantDate     time.Time
	}{
		{
			name:     "date embedded in filename",
			filename: "posts/2024-01-05-first-post.md",
			wantSlug: "first-post",
			wantDate: time.Date(2024, 1, 5, 0, 0, 0, 0, domain.IST),
		},
		{
			name:     "plain filename falls back to now",
			filename: "posts/hello-world.md",
			wantSlug: "hello-world",
			wantDate: fixed.In(domain.IST),
		},
		{
			name:     "two numeric tokens are not a date",
			filename: "2024-01-notes.md",
			wantSlug: "2024-01-notes",
			wantDate: fixed.In(domain.IST),
		},
		{
			name:     "bad month treated as slug only",
			filename: "2024-13-05-oops.md",
			wantSlug: "2024-13-05-oops",
			wantDate: fixed.In(domain.IST),
		},
		{
			name:         "explicit slug wins over filename",
			filename:     "2024-01-05-first-post.md",
			explicitSlug: "renamed",
			wantSlug:     "renamed",
			wantDate:     time.Date(2024, 1, 5, 0, 0, 0, 0, domain.IST),
		},
		{
			name:         "explicit date wins over filename",
			filename:     "2024-01-05-first-post.md",
			explicitDate: time.Date(2023, 12, 31, 0, 0, 0, 0, domain.IST),
			wantSlug:     "first-post",
			wantDate:     time.Date(2023, 12, 31, 0, 0, 0, 0, domain.IST),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, date := ResolveSlugDate(tt.filename, tt.explicitSlug, tt.explicitDate, clock)
			assert.Equal(t, tt.wantSlug, slug)
			assert.True(t, tt.wantDate.Equal(date), "want %v, got %v", tt.wantDate, date)
		})
	}
}

func TestResolveSlugDate_Deterministic(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }

	slug1, date1 := ResolveSlugDate("2022-02-02-stable.md", "", time.Time{}, clock)
	slug2, date2 := ResolveSlugDate("2022-02-02-stable.md", "", time.Time{}, clock)

	assert.Equal(t, slug1, slug2)
	assert.True(t, date1.Equal(date2))
}

func TestParseDate(t *testing.T) {
	t.Run("bare date anchored to IST", func(t *testing.T) {
		ts, err := ParseDate("2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, "IST", ts.Location().String())
		assert.Equal(t, 10, ts.Day())
	})

	t.Run("full timestamp keeps offset", func(t *testing.T) {
		ts, err := ParseDate("2024-03-10T08:00:00Z")
		require.NoError(t, err)
		assert.True(t, ts.Equal(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)))
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseDate("next tuesday")
		require.Error(t, err)
	})
}
