// Package names hands out display names for new players from a word list.
package names

import (
	"bufio"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/aaronzipp/distance-resistance/internal/log"
)

const (
	// Fallback is used when the word list cannot be read
	Fallback = "Crash Override"

	// EmptyFallback is used when the word list was read but holds no names
	EmptyFallback = "Acid Burn"
)

// Provider picks random names from a newline separated file.
// The file is read once, on first use.
type Provider struct {
	path string

	once  sync.Once
	names []string
	err   error
}

// NewProvider creates a provider for the given word list
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// Next returns a random display name
func (p *Provider) Next() string {
	p.once.Do(p.load)
	if p.err != nil {
		return Fallback
	}
	if len(p.names) == 0 {
		return EmptyFallback
	}
	return p.names[rand.IntN(len(p.names))]
}

func (p *Provider) load() {
	logger := log.WithComponent("names")

	f, err := os.Open(p.path)
	if err != nil {
		p.err = err
		logger.Warn().Err(err).Str(log.FieldPath, p.path).Msg("name list unavailable, using fallback")
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			p.names = append(p.names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		p.err = err
		p.names = nil
		logger.Warn().Err(err).Str(log.FieldPath, p.path).Msg("reading name list failed, using fallback")
		return
	}
	logger.Debug().Int("count", len(p.names)).Msg("loaded name list")
}
