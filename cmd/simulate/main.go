// Command simulate plays a scripted session in-process and prints the state
// after every step.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/aaronzipp/distance-resistance/internal/game"
	"github.com/aaronzipp/distance-resistance/internal/log"
	"github.com/aaronzipp/distance-resistance/internal/models"
	"github.com/aaronzipp/distance-resistance/internal/names"
	"github.com/aaronzipp/distance-resistance/internal/render"
	"github.com/aaronzipp/distance-resistance/internal/store"
)

var defaultNames = []string{"Alice", "Bob", "Charlie", "Eve", "Malory", "Trent", "Peggy", "Victor", "Walter", "Sybil"}

type options struct {
	Players   int
	Seed      uint64
	NamesFile string
	Verbose   bool
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:          "simulate",
		Short:        "Play one game session with scripted players",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			log.Configure(log.Config{Level: level, Output: os.Stderr, Service: "simulate"})
			_, err := simulate(cmd.Context(), cmd.OutOrStdout(), opts)
			return err
		},
	}
	cmd.Flags().IntVarP(&opts.Players, "players", "n", 5, "number of players (5-10)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed, 0 picks one")
	cmd.Flags().StringVar(&opts.NamesFile, "names", "assets/names.txt", "display name word list")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log state transitions to stderr")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// simulate runs a full game and returns the final snapshot
func simulate(ctx context.Context, out io.Writer, opts options) (game.Snapshot, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	reg := store.NewRegistry(store.Options{
		Rand: rand.New(rand.NewPCG(seed, seed)),
		Name: names.NewProvider(opts.NamesFile).Next,
	})
	id, err := reg.Create(ctx, opts.Players)
	if err != nil {
		return game.Snapshot{}, err
	}
	s, err := reg.GetMut(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	fmt.Fprintf(out, "game %s (seed %d)\n", id, seed)

	keys := make([]models.PlayerKey, opts.Players)
	for i := range keys {
		if keys[i], err = s.Join(); err != nil {
			return game.Snapshot{}, err
		}
		if err := s.ChangeName(keys[i], defaultNames[i]); err != nil {
			return game.Snapshot{}, err
		}
	}
	if err := s.Start(); err != nil {
		return game.Snapshot{}, err
	}
	fmt.Fprint(out, render.Summary(s.Snapshot()))

	for {
		snap := s.Snapshot()
		if snap.Outcome != models.OutcomeUndecided {
			fmt.Fprintf(out, "result: %s\n", snap.Outcome)
			return snap, nil
		}
		if err := playRound(s, snap, keys, rng); err != nil {
			return snap, err
		}
		fmt.Fprint(out, render.Summary(s.Snapshot()))
	}
}

// playRound has the leader pick the seats following it, everyone vote at
// random, and spies on the team fail the mission half the time
func playRound(s *game.Session, snap game.Snapshot, keys []models.PlayerKey, rng *rand.Rand) error {
	team := make([]int, snap.MissionSize())
	for i := range team {
		team[i] = (snap.Leader + i) % snap.Headcount
	}
	if err := s.ChooseOperatives(keys[snap.Leader], team); err != nil {
		return fmt.Errorf("round %d: choose operatives: %w", snap.Round, err)
	}
	for _, k := range keys {
		if err := s.VoteToApprove(k, rng.IntN(3) > 0); err != nil {
			return fmt.Errorf("round %d: vote: %w", snap.Round, err)
		}
	}
	for _, seat := range team {
		p, err := s.Player(keys[seat])
		if err != nil {
			return err
		}
		passed := p.Type == models.Agent || rng.IntN(2) == 0
		if err := s.SucceedMission(keys[seat], passed); err != nil {
			return fmt.Errorf("round %d: mission: %w", snap.Round, err)
		}
	}
	return nil
}
