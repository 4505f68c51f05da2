// Package quiz builds playable sessions from the port catalog and grades
// submitted answers. Session building is synchronous and stateless: every
// Build call refilters and resamples, and the previous session is simply
// discarded by the caller.
package quiz

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"

	"github.com/PeterK0/Quintry/internal/catalog"
	"github.com/PeterK0/Quintry/internal/model"
)

// Session is one generated quiz prior to grading: sampled ports, their
// label assignment, and the decoy set for non-easy tiers.
type Session struct {
	Config  model.QuizConfig
	Ports   []model.Port          // sampled ports in shuffled (label) order
	Markers map[string]model.Port // "1".."N" -> port
	Decoys  []model.Port

	// AvailableCountries is the offerable country set after list and
	// region filtering, before the country filter. FilteredCount is the
	// pool size after all filters, the ceiling for "max ports" requests.
	AvailableCountries []string
	FilteredCount      int
}

// Builder samples quiz sessions from a catalog. Safe for concurrent use;
// the underlying rand.Rand is not, so draws are serialized.
type Builder struct {
	cat *catalog.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder returns a Builder drawing randomness from rng.
func NewBuilder(cat *catalog.Catalog, rng *rand.Rand) *Builder {
	return &Builder{cat: cat, rng: rng}
}

// Build produces a fresh session for the given filter state. Filters
// apply in order: list, region, country. A selected country that the
// list+region pool no longer offers is dropped from the selection rather
// than reported as an error. An empty pool yields a zero-port session,
// a valid terminal state the caller surfaces as "no ports available".
func (b *Builder) Build(cfg model.QuizConfig, list *model.PortList) *Session {
	pool, available, cfg := b.Filter(cfg, list)

	s := &Session{
		Config:             cfg,
		AvailableCountries: available,
		FilteredCount:      len(pool),
	}

	shuffled := make([]model.Port, len(pool))
	copy(shuffled, pool)
	b.mu.Lock()
	b.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	b.mu.Unlock()

	n := min(cfg.PortCount, len(shuffled))
	s.Ports = shuffled[:n]
	s.Markers = labelPorts(s.Ports)
	s.Decoys = b.pickDecoys(s.Ports, cfg.Difficulty)
	return s
}

// Filter applies the session filters without sampling and returns the
// resulting pool, the offerable country set computed after list and
// region filtering, and the config with stale country selections
// dropped. Order-preserving; also serves the port-browsing endpoint.
func (b *Builder) Filter(cfg model.QuizConfig, list *model.PortList) ([]model.Port, []string, model.QuizConfig) {
	pool := b.cat.Ports()

	if list != nil {
		pool = filterByList(pool, list)
	}
	pool = filterByRegions(pool, cfg.Regions)

	available := catalog.Countries(pool)
	cfg.Countries = intersect(cfg.Countries, available)

	if len(cfg.Countries) > 0 {
		pool = filterByCountries(pool, cfg.Countries)
	}
	return pool, available, cfg
}

// Relabel reshuffles the session's existing ports under fresh labels
// ("Try Again"): the same ports, a new assignment. Decoys and filter
// state carry over unchanged.
func (b *Builder) Relabel(s *Session) {
	b.mu.Lock()
	b.rng.Shuffle(len(s.Ports), func(i, j int) {
		s.Ports[i], s.Ports[j] = s.Ports[j], s.Ports[i]
	})
	b.mu.Unlock()
	s.Markers = labelPorts(s.Ports)
}

// pickDecoys draws plausible wrong answers for normal and hard tiers:
// catalog ports sharing a country with the sample, minus the sample
// itself, shuffled, capped at decoysPerPort per sampled port.
func (b *Builder) pickDecoys(sample []model.Port, difficulty model.Difficulty) []model.Port {
	perPort := difficulty.DecoysPerPort()
	if perPort == 0 || len(sample) == 0 {
		return nil
	}

	countries := make(map[string]bool, len(sample))
	taken := make(map[model.PortKey]bool, len(sample))
	for _, p := range sample {
		countries[p.Country] = true
		taken[p.Key()] = true
	}

	var pool []model.Port
	for _, p := range b.cat.Ports() {
		if countries[p.Country] && !taken[p.Key()] {
			pool = append(pool, p)
		}
	}

	b.mu.Lock()
	b.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	b.mu.Unlock()
	return pool[:min(len(sample)*perPort, len(pool))]
}

// Labels returns the session's labels in numeric order.
func (s *Session) Labels() []string {
	labels := make([]string, len(s.Ports))
	for i := range s.Ports {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// Options returns the sorted dropdown choices for the session: full
// "name, country" strings on easy, bare names otherwise. The same rule
// the grader applies, so what the player picks is what gets compared.
func (s *Session) Options() []string {
	all := make([]model.Port, 0, len(s.Ports)+len(s.Decoys))
	all = append(all, s.Ports...)
	all = append(all, s.Decoys...)

	opts := make([]string, len(all))
	for i, p := range all {
		if s.Config.Difficulty == model.DifficultyEasy {
			opts[i] = p.DisplayName()
		} else {
			opts[i] = p.Name
		}
	}
	sort.Strings(opts)
	return opts
}

func labelPorts(ports []model.Port) map[string]model.Port {
	markers := make(map[string]model.Port, len(ports))
	for i, p := range ports {
		markers[strconv.Itoa(i+1)] = p
	}
	return markers
}

func filterByList(ports []model.Port, list *model.PortList) []model.Port {
	keys := make(map[model.PortKey]bool, len(list.PortKeys))
	for _, k := range list.PortKeys {
		keys[k] = true
	}
	var out []model.Port
	for _, p := range ports {
		if keys[p.Key()] {
			out = append(out, p)
		}
	}
	return out
}

func filterByRegions(ports []model.Port, regions []string) []model.Port {
	if len(regions) == 0 {
		return ports
	}
	for _, r := range regions {
		if r == RegionWorld {
			return ports
		}
	}
	var out []model.Port
	for _, p := range ports {
		if countryInRegions(p.Country, regions) {
			out = append(out, p)
		}
	}
	return out
}

func filterByCountries(ports []model.Port, countries []string) []model.Port {
	set := make(map[string]bool, len(countries))
	for _, c := range countries {
		set[c] = true
	}
	var out []model.Port
	for _, p := range ports {
		if set[p.Country] {
			out = append(out, p)
		}
	}
	return out
}

func intersect(selected, available []string) []string {
	set := make(map[string]bool, len(available))
	for _, c := range available {
		set[c] = true
	}
	var out []string
	for _, c := range selected {
		if set[c] {
			out = append(out, c)
		}
	}
	return out
}
