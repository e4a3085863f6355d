package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/distance-resistance/internal/game"
	"github.com/aaronzipp/distance-resistance/internal/models"
)

func TestSimulatePlaysToCompletion(t *testing.T) {
	for players := game.MinPlayers; players <= game.MaxPlayers; players++ {
		for seed := uint64(1); seed <= 5; seed++ {
			var out bytes.Buffer
			snap, err := simulate(context.Background(), &out, options{
				Players:   players,
				Seed:      seed,
				NamesFile: filepath.Join(t.TempDir(), "none.txt"),
			})
			require.NoError(t, err)
			assert.NotEqual(t, models.OutcomeUndecided, snap.Outcome)
			assert.True(t, snap.Wins == game.WinsNeeded || snap.Failures == game.WinsNeeded)
			assert.Contains(t, out.String(), "result: ")
			assert.Contains(t, out.String(), "seat 0: Alice")
		}
	}
}

func TestSimulateRejectsBadHeadcount(t *testing.T) {
	_, err := simulate(context.Background(), &bytes.Buffer{}, options{Players: 11, Seed: 1})
	assert.ErrorIs(t, err, game.ErrInvalidHeadcount)
}
