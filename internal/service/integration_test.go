//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/pantrymatch/backend/internal/matching"
	"github.com/pageza/pantrymatch/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSeedAndSuggest(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()

	_, err := NewSeeder(db, matching.DefaultNormalizer(), nil).Seed(ctx, sampleDocument(), SeedOptions{})
	require.NoError(t, err)

	engine, err := matching.NewEngine(ctx, NewCorpusStore(db))
	require.NoError(t, err)

	results, err := engine.Suggest(ctx, matching.Request{Ingredients: []string{"eggs", "tomatoes"}, MaxResults: 5, AllowSubst: true})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Shakshuka", results[0].Name)
	assert.Equal(t, []string{"Cumin"}, results[0].MissingOptional)

	list, err := NewRecipeService(db).ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRedisSuggestionCache(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	cache := NewRedisSuggestionCache(client, time.Minute)
	ctx := context.Background()

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	want := []matching.MatchResult{{RecipeID: 1, Name: "Toast", Score: 1, Present: []string{"bread"}, MissingRequired: []string{}, MissingOptional: []string{}}}
	require.NoError(t, cache.Set(ctx, "k", want))

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	gen, err = cache.Bump(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	_, ok, err = cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

type countingInvalidator struct {
	calls chan struct{}
}

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls <- struct{}{}
	return nil
}

func TestCorpusWatcherInvalidatesOnMessage(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	target := &countingInvalidator{calls: make(chan struct{}, 1)}
	watcher := NewCorpusWatcher(client, "corpus:invalidate", target, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx, ready) }()
	<-ready

	require.NoError(t, PublishInvalidation(ctx, client, "corpus:invalidate", "seed"))

	select {
	case <-target.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not invalidate")
	}

	cancel()
	assert.NoError(t, <-done)
}
