// Package mock generates synthetic surveillance records for demonstration and
// fixtures. Numeric fields are drawn uniformly from fixed bounds; output is
// random across calls unless the generator is seeded.
package mock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

// Bounds of the generated numeric fields. Integer ranges are inclusive,
// float ranges are half-open [Min, Max).
const (
	TrendCasesMin = 50
	TrendCasesMax = 1049

	ClimateCasesMin = 100
	ClimateCasesMax = 1099
	ClimateTempMin  = 25.0
	ClimateTempMax  = 40.0
	ClimatePreciMax = 200.0
	ClimateLAIMax   = 5.0

	MapCasesMin = 10
	MapCasesMax = 509
	MapLatMin   = 20.0
	MapLatMax   = 35.0
	MapLonMin   = 70.0
	MapLonMax   = 85.0

	// DistrictsPerState is the number of synthetic map points per state.
	DistrictsPerState = 5
)

// topDiseases is the fixed top-5 ranking served in mock mode.
var topDiseases = []domain.TopDiseaseRecord{
	{Disease: "Dengue", Cases: 1250, Percentage: 35},
	{Disease: "Malaria", Cases: 980, Percentage: 28},
	{Disease: "Chikungunya", Cases: 650, Percentage: 18},
	{Disease: "H1N1", Cases: 420, Percentage: 12},
	{Disease: "Typhoid", Cases: 250, Percentage: 7},
}

// Generator produces record collections over a fixed catalog. It is safe for
// concurrent use.
type Generator struct {
	catalog domain.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator over catalog. A zero seed draws a random
// one, so output differs between runs.
func NewGenerator(catalog domain.Catalog, seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{
		catalog: catalog,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Catalog returns the dimension domains the generator draws from.
func (g *Generator) Catalog() domain.Catalog {
	return g.catalog
}

// Trend returns one record per state × disease × week combination.
func (g *Generator) Trend() []domain.TrendRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.catalog
	out := make([]domain.TrendRecord, 0, len(c.States)*len(c.Diseases)*len(c.Weeks))
	for _, state := range c.States {
		for _, disease := range c.Diseases {
			for _, week := range c.Weeks {
				out = append(out, domain.TrendRecord{
					Week:    week,
					Cases:   g.intIn(TrendCasesMin, TrendCasesMax),
					State:   state,
					Disease: disease,
				})
			}
		}
	}
	return out
}

// TopDiseases returns the fixed five-entry ranking.
func (g *Generator) TopDiseases() []domain.TopDiseaseRecord {
	out := make([]domain.TopDiseaseRecord, len(topDiseases))
	copy(out, topDiseases)
	return out
}

// Climate returns one record per state.
func (g *Generator) Climate() []domain.ClimateRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]domain.ClimateRecord, 0, len(g.catalog.States))
	for _, state := range g.catalog.States {
		out = append(out, domain.ClimateRecord{
			State:    state,
			AvgTemp:  g.floatIn(ClimateTempMin, ClimateTempMax),
			AvgPreci: g.floatIn(0, ClimatePreciMax),
			AvgLAI:   g.floatIn(0, ClimateLAIMax),
			Cases:    g.intIn(ClimateCasesMin, ClimateCasesMax),
		})
	}
	return out
}

// Map returns DistrictsPerState synthetic districts per state, each with a
// random disease and week from the catalog.
func (g *Generator) Map() []domain.MapRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := g.catalog
	out := make([]domain.MapRecord, 0, len(c.States)*DistrictsPerState)
	for _, state := range c.States {
		for i := range DistrictsPerState {
			out = append(out, domain.MapRecord{
				District:  fmt.Sprintf("%s District %d", state, i+1),
				State:     state,
				Latitude:  g.floatIn(MapLatMin, MapLatMax),
				Longitude: g.floatIn(MapLonMin, MapLonMax),
				Cases:     g.intIn(MapCasesMin, MapCasesMax),
				Disease:   g.pick(c.Diseases),
				Week:      g.pick(c.Weeks),
			})
		}
	}
	return out
}

// intIn draws from [lo, hi].
func (g *Generator) intIn(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// floatIn draws from [lo, hi). Rounding can land on hi, which is clamped.
func (g *Generator) floatIn(lo, hi float64) float64 {
	v := lo + g.rng.Float64()*(hi-lo)
	if v >= hi {
		return math.Nextafter(hi, lo)
	}
	return v
}

func (g *Generator) pick(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[g.rng.IntN(len(values))]
}

// Fixture file names written by cmd/genmock and checked by cmd/validate.
const (
	TrendFixture       = "trend.json"
	TopDiseasesFixture = "top_diseases.json"
	ClimateFixture     = "climate_impact.json"
	MapFixture         = "map.json"
)
