package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/profile-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portfolioURL = "https://rishavchatterjee.vercel.app/"

func sampleData() *types.PortfolioData {
	return &types.PortfolioData{
		BasicInfo:   types.BasicInfo{Name: "Ada Lovelace", Title: "Engineer"},
		Experience:  []types.Experience{{Title: "Lead", Company: "Acme", Achievements: []string{"Shipped"}}},
		Skills:      types.Skills{Technical: []string{"Go"}, Soft: []string{}},
		LastUpdated: "2024-03-01T04:00:00.000000Z",
	}
}

func newCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"), nil)
	require.NoError(t, err)
	return c
}

func TestKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://rishavchatterjee.vercel.app/", "rishavchatterjee_vercel_app"},
		{"HTTP://Example.com/About?x=1", "example_com_about_x_1"},
		{"https://café.example/ünïcode", "cafe_example_unicode"},
		{"example.com//a", "example_com_a"},
		{"https://", "portfolio"},
		{"", "portfolio"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.url))
		})
	}
}

func TestKey_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got := Key(fmt.Sprintf("https://exámple-%d.com/päge/%d", g, i))
				if want := fmt.Sprintf("example_%d_com_page_%d", g, i); got != want {
					t.Errorf("Key() = %q, want %q", got, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestKey_SchemeInsensitive(t *testing.T) {
	assert.Equal(t, Key("http://example.com"), Key("https://example.com"))
}

func TestFileCache_RoundTrip(t *testing.T) {
	c := newCache(t)
	data := sampleData()

	require.NoError(t, c.Put(portfolioURL, data))
	assert.FileExists(t, filepath.Join(c.Dir(), "rishavchatterjee_vercel_app.json"))

	got, ok := c.Get(portfolioURL, time.Hour)
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestFileCache_Miss(t *testing.T) {
	c := newCache(t)

	got, ok := c.Get(portfolioURL, time.Hour)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestFileCache_Expired(t *testing.T) {
	c := newCache(t)
	require.NoError(t, c.Put(portfolioURL, sampleData()))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(c.Path(portfolioURL), old, old))

	_, ok := c.Get(portfolioURL, time.Hour)
	assert.False(t, ok)

	_, ok = c.Get(portfolioURL, 3*time.Hour)
	assert.True(t, ok)
}

func TestFileCache_ZeroWindowAlwaysMisses(t *testing.T) {
	c := newCache(t)
	require.NoError(t, c.Put(portfolioURL, sampleData()))

	_, ok := c.Get(portfolioURL, 0)
	assert.False(t, ok)
}

func TestFileCache_PutOverwrites(t *testing.T) {
	c := newCache(t)
	require.NoError(t, c.Put(portfolioURL, sampleData()))

	updated := sampleData()
	updated.BasicInfo.Name = "Grace Hopper"
	require.NoError(t, c.Put(portfolioURL, updated))

	got, ok := c.Get(portfolioURL, time.Hour)
	require.True(t, ok)
	assert.Equal(t, "Grace Hopper", got.BasicInfo.Name)

	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	c := newCache(t)
	require.NoError(t, os.WriteFile(c.Path(portfolioURL), []byte("{not json"), 0o644))

	_, ok := c.Get(portfolioURL, time.Hour)
	assert.False(t, ok)
}

func TestFileCache_Delete(t *testing.T) {
	c := newCache(t)
	require.NoError(t, c.Put(portfolioURL, sampleData()))

	require.NoError(t, c.Delete(portfolioURL))
	assert.NoFileExists(t, c.Path(portfolioURL))
	assert.NoError(t, c.Delete(portfolioURL))
}
