// Package evidencepool holds the de-duplicated collection of evidence
// gathered during one claim run, indexed by agent, round, and credibility.
package evidencepool

import (
	"sync"

	"github.com/veridex-ai/factdebate/internal/model"
)

// Stats is a point-in-time snapshot of pool composition.
type Stats struct {
	Total      int
	ByAgent    map[model.Agent]int
	ByRound    map[int]int
	ByCred     map[model.Credibility]int
	DuplicateK int // content-hash duplicates rejected over the pool's lifetime
}

// Pool is the de-duplicated evidence collection for one claim. Safe for
// concurrent reads; writes are serialized by the caller.
type Pool struct {
	mu         sync.RWMutex
	byID       map[string]model.Evidence
	byHash     map[string]string // content hash -> first-seen evidence id
	order      []string          // insertion order, for stable iteration
	duplicates int
}

// New creates an empty evidence pool.
func New() *Pool {
	return &Pool{
		byID:   make(map[string]model.Evidence),
		byHash: make(map[string]string),
	}
}

// Add inserts e if its id is not already present and no existing entry
// shares its normalized content hash. Returns whether insertion occurred.
func (p *Pool) Add(e model.Evidence) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byID[e.ID]; exists {
		return false
	}
	if _, exists := p.byHash[e.ContentHash]; exists {
		p.duplicates++
		return false
	}
	p.byID[e.ID] = e
	p.byHash[e.ContentHash] = e.ID
	p.order = append(p.order, e.ID)
	return true
}

// GetByID returns the evidence with the given id, if present.
func (p *Pool) GetByID(id string) (model.Evidence, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.byID[id]
	return e, ok
}

// GetByAgent returns evidence retrieved by the given agent, optionally
// restricted to one round. Pass round < 0 to include all rounds. Results
// preserve insertion order.
func (p *Pool) GetByAgent(agent model.Agent, round int) []model.Evidence {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []model.Evidence
	for _, id := range p.order {
		e := p.byID[id]
		if e.RetrievedBy != agent {
			continue
		}
		if round >= 0 && e.Round != round {
			continue
		}
		out = append(out, e)
	}
	return out
}

// GetByRound returns all evidence inserted in a given round, in insertion order.
func (p *Pool) GetByRound(round int) []model.Evidence {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []model.Evidence
	for _, id := range p.order {
		e := p.byID[id]
		if e.Round == round {
			out = append(out, e)
		}
	}
	return out
}

// GetByCredibility returns all evidence with the given credibility tag.
func (p *Pool) GetByCredibility(c model.Credibility) []model.Evidence {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []model.Evidence
	for _, id := range p.order {
		e := p.byID[id]
		if e.Credibility == c {
			out = append(out, e)
		}
	}
	return out
}

// GetHighQuality returns evidence with quality score >= min.
func (p *Pool) GetHighQuality(min float64) []model.Evidence {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []model.Evidence
	for _, id := range p.order {
		e := p.byID[id]
		if e.Quality >= min {
			out = append(out, e)
		}
	}
	return out
}

// GetAll returns all evidence in insertion order.
func (p *Pool) GetAll() []model.Evidence {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Evidence, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.byID[id])
	}
	return out
}

// Statistics returns a point-in-time composition snapshot.
func (p *Pool) Statistics() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := Stats{
		Total:      len(p.order),
		ByAgent:    make(map[model.Agent]int),
		ByRound:    make(map[int]int),
		ByCred:     make(map[model.Credibility]int),
		DuplicateK: p.duplicates,
	}
	for _, id := range p.order {
		e := p.byID[id]
		s.ByAgent[e.RetrievedBy]++
		s.ByRound[e.Round]++
		s.ByCred[e.Credibility]++
	}
	return s
}
