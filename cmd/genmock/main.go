// Command genmock writes mock record fixtures for the four query endpoints
// using the same generator the service runs in mock mode. With a fixed seed
// the output is reproducible, so fixtures can be checked in and diffed.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -seed 20240205
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/epi-dashboard-service/internal/adapter/mock"
	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for JSON fixtures")
	seed := flag.Uint64("seed", 20240205, "generator seed (0 for random)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	gen := mock.NewGenerator(domain.DefaultCatalog(), *seed)

	trend := gen.Trend()
	top := gen.TopDiseases()
	climate := gen.Climate()
	points := gen.Map()

	fixtures := []struct {
		name string
		v    any
		n    int
	}{
		{mock.TrendFixture, trend, len(trend)},
		{mock.TopDiseasesFixture, top, len(top)},
		{mock.ClimateFixture, climate, len(climate)},
		{mock.MapFixture, points, len(points)},
	}
	for _, f := range fixtures {
		path := filepath.Join(*out, f.name)
		if err := writeJSON(path, f.v); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		log.Printf("wrote %s: %d records", path, f.n)
	}

	printStats(trend, climate, points)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type stateCount struct {
	state string
	count int
}

func printStats(trend []domain.TrendRecord, climate []domain.ClimateRecord, points []domain.MapRecord) {
	fmt.Println("\n=== Stats for updating test assertions ===")

	d := domain.SummarizeDashboard(trend)
	fmt.Printf("Dashboard: total=%d weekly_avg=%d diseases=%d states=%d\n",
		d.TotalCases, d.WeeklyAverage, d.ActiveDiseases, d.StatesAffected)

	c := domain.SummarizeClimate(climate)
	fmt.Printf("Climate: avg_temp=%.1f avg_preci=%.1f avg_lai=%.2f total=%d\n",
		c.AvgTemp, c.AvgPreci, c.AvgLAI, c.TotalCases)

	m := domain.SummarizeMap(points)
	fmt.Printf("Map: max=%d districts=%d avg=%d\n", m.MaxCases, m.TotalDistricts, m.AvgCases)

	printStateBreakdown(trend)
	printWeekBreakdown(trend)
}

func printStateBreakdown(trend []domain.TrendRecord) {
	totals := map[string]int{}
	for _, r := range trend {
		totals[r.State] += r.Cases
	}
	sc := make([]stateCount, 0, len(totals))
	for s, c := range totals {
		sc = append(sc, stateCount{s, c})
	}
	sort.Slice(sc, func(i, j int) bool { return sc[i].count > sc[j].count })
	fmt.Printf("Trend cases by state (%d): ", len(sc))
	for i, s := range sc {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%s=%d", s.state, s.count)
	}
	fmt.Println()
}

func printWeekBreakdown(trend []domain.TrendRecord) {
	for _, week := range domain.DefaultCatalog().Weeks {
		subset := domain.FilterBy(trend, domain.Filter{Week: week})
		fmt.Printf("  %s: %d records, %d cases\n", week, len(subset), int(domain.Sum(subset, domain.TrendCases)))
	}
}
