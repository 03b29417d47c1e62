// Command validate checks mock data integrity: the JSON fixtures written by
// genmock and the live generator. It verifies record invariants, generator
// bounds, catalog membership and the trend cross product, then samples the
// generator repeatedly to catch bound violations that a single fixture would
// miss.
//
// Usage:
//
//	go run ./cmd/validate -fixtures data/mock -runs 1000
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/schollz/progressbar/v3"

	"github.com/couchcryptid/epi-dashboard-service/internal/adapter/mock"
	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxReportedErrors caps the detail printed per phase.
const maxReportedErrors = 20

// fixtures holds the four record collections of one data set.
type fixtures struct {
	trend   []domain.TrendRecord
	top     []domain.TopDiseaseRecord
	climate []domain.ClimateRecord
	points  []domain.MapRecord
}

func main() {
	dir := flag.String("fixtures", "", "directory containing genmock JSON fixtures (optional)")
	runs := flag.Int("runs", 1000, "number of generator samples to check")
	flag.Parse()

	if *dir == "" && *runs <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dir, *runs); code != 0 {
		os.Exit(code)
	}
}

func run(dir string, runs int) int {
	fmt.Println("=== Mock Data Integrity Validation ===")
	fmt.Println()

	catalog := domain.DefaultCatalog()
	var phases []*phase

	if dir != "" {
		fx, err := loadFixtures(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load fixtures: %v\n", err)
			return 1
		}
		fmt.Printf("Records: %d trend, %d top diseases, %d climate, %d map\n\n",
			len(fx.trend), len(fx.top), len(fx.climate), len(fx.points))

		phases = append(phases,
			validateRecordInvariants(fx),
			validateCounts(fx, catalog),
			validateBounds("Fixture bounds", fx, catalog),
			validateCrossProduct("Fixture trend cross product", fx.trend, catalog),
		)
	}
	if runs > 0 {
		phases = append(phases, sampleGenerator(runs, catalog))
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReportedErrors {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxReportedErrors)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadFixtures(dir string) (fixtures, error) {
	var fx fixtures
	var err error
	if fx.trend, err = loadJSON[domain.TrendRecord](filepath.Join(dir, mock.TrendFixture)); err != nil {
		return fx, err
	}
	if fx.top, err = loadJSON[domain.TopDiseaseRecord](filepath.Join(dir, mock.TopDiseasesFixture)); err != nil {
		return fx, err
	}
	if fx.climate, err = loadJSON[domain.ClimateRecord](filepath.Join(dir, mock.ClimateFixture)); err != nil {
		return fx, err
	}
	if fx.points, err = loadJSON[domain.MapRecord](filepath.Join(dir, mock.MapFixture)); err != nil {
		return fx, err
	}
	return fx, nil
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return out, nil
}

// ── Phase 1: record invariants ──

type validator interface{ Validate() error }

func validateRecordInvariants(fx fixtures) *phase {
	p := &phase{name: "Record invariants"}
	checkAll(p, "trend", fx.trend)
	checkAll(p, "top diseases", fx.top)
	checkAll(p, "climate", fx.climate)
	checkAll(p, "map", fx.points)

	var pct float64
	for _, r := range fx.top {
		pct += r.Percentage
	}
	if len(fx.top) > 0 && !floatEq(pct, 100) {
		p.errorf("top disease percentages sum to %.2f, want 100", pct)
	}
	return p
}

func checkAll[T validator](p *phase, kind string, records []T) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			p.errorf("%s[%d]: %v", kind, i, err)
		}
	}
}

// ── Phase 2: counts ──

func validateCounts(fx fixtures, c domain.Catalog) *phase {
	p := &phase{name: "Record counts"}
	if want := len(c.States) * len(c.Diseases) * len(c.Weeks); len(fx.trend) != want {
		p.errorf("trend: %d records, want %d", len(fx.trend), want)
	}
	if len(fx.top) != 5 {
		p.errorf("top diseases: %d records, want 5", len(fx.top))
	}
	if len(fx.climate) != len(c.States) {
		p.errorf("climate: %d records, want %d", len(fx.climate), len(c.States))
	}
	if want := len(c.States) * mock.DistrictsPerState; len(fx.points) != want {
		p.errorf("map: %d records, want %d", len(fx.points), want)
	}
	return p
}

// ── Phase 3: generator bounds and catalog membership ──

func validateBounds(name string, fx fixtures, c domain.Catalog) *phase {
	p := &phase{name: name}
	checkBounds(p, "", fx, c)
	return p
}

func checkBounds(p *phase, prefix string, fx fixtures, c domain.Catalog) {
	for i, r := range fx.trend {
		if r.Cases < mock.TrendCasesMin || r.Cases > mock.TrendCasesMax {
			p.errorf("%strend[%d]: cases %d outside [%d,%d]", prefix, i, r.Cases, mock.TrendCasesMin, mock.TrendCasesMax)
		}
		checkMember(p, prefix, "trend", i, r.State, r.Disease, r.Week, c)
	}
	for i, r := range fx.climate {
		if r.AvgTemp < mock.ClimateTempMin || r.AvgTemp >= mock.ClimateTempMax {
			p.errorf("%sclimate[%d]: avgTemp %.3f outside [%.0f,%.0f)", prefix, i, r.AvgTemp, mock.ClimateTempMin, mock.ClimateTempMax)
		}
		if r.AvgPreci < 0 || r.AvgPreci >= mock.ClimatePreciMax {
			p.errorf("%sclimate[%d]: avgPreci %.3f outside [0,%.0f)", prefix, i, r.AvgPreci, mock.ClimatePreciMax)
		}
		if r.AvgLAI < 0 || r.AvgLAI >= mock.ClimateLAIMax {
			p.errorf("%sclimate[%d]: avgLAI %.3f outside [0,%.0f)", prefix, i, r.AvgLAI, mock.ClimateLAIMax)
		}
		if r.Cases < mock.ClimateCasesMin || r.Cases > mock.ClimateCasesMax {
			p.errorf("%sclimate[%d]: cases %d outside [%d,%d]", prefix, i, r.Cases, mock.ClimateCasesMin, mock.ClimateCasesMax)
		}
		if !slices.Contains(c.States, r.State) {
			p.errorf("%sclimate[%d]: unknown state %q", prefix, i, r.State)
		}
	}
	for i, r := range fx.points {
		if r.Latitude < mock.MapLatMin || r.Latitude >= mock.MapLatMax {
			p.errorf("%smap[%d]: latitude %.4f outside [%.0f,%.0f)", prefix, i, r.Latitude, mock.MapLatMin, mock.MapLatMax)
		}
		if r.Longitude < mock.MapLonMin || r.Longitude >= mock.MapLonMax {
			p.errorf("%smap[%d]: longitude %.4f outside [%.0f,%.0f)", prefix, i, r.Longitude, mock.MapLonMin, mock.MapLonMax)
		}
		if r.Cases < mock.MapCasesMin || r.Cases > mock.MapCasesMax {
			p.errorf("%smap[%d]: cases %d outside [%d,%d]", prefix, i, r.Cases, mock.MapCasesMin, mock.MapCasesMax)
		}
		checkMember(p, prefix, "map", i, r.State, r.Disease, r.Week, c)
	}
}

func checkMember(p *phase, prefix, kind string, i int, state, disease, week string, c domain.Catalog) {
	if !slices.Contains(c.States, state) {
		p.errorf("%s%s[%d]: unknown state %q", prefix, kind, i, state)
	}
	if !slices.Contains(c.Diseases, disease) {
		p.errorf("%s%s[%d]: unknown disease %q", prefix, kind, i, disease)
	}
	if !slices.Contains(c.Weeks, week) {
		p.errorf("%s%s[%d]: unknown week %q", prefix, kind, i, week)
	}
}

// ── Phase 4: trend cross product ──

func validateCrossProduct(name string, trend []domain.TrendRecord, c domain.Catalog) *phase {
	p := &phase{name: name}
	checkCrossProduct(p, "", trend, c)
	return p
}

func checkCrossProduct(p *phase, prefix string, trend []domain.TrendRecord, c domain.Catalog) {
	seen := make(map[[3]string]int, len(trend))
	for _, r := range trend {
		seen[[3]string{r.State, r.Disease, r.Week}]++
	}
	for _, s := range c.States {
		for _, d := range c.Diseases {
			for _, w := range c.Weeks {
				if n := seen[[3]string{s, d, w}]; n != 1 {
					p.errorf("%s%s/%s/%s appears %d times, want 1", prefix, s, d, w, n)
				}
			}
		}
	}
}

// ── Phase 5: generator sampling ──

func sampleGenerator(runs int, c domain.Catalog) *phase {
	p := &phase{name: fmt.Sprintf("Generator sampling (%d runs)", runs)}
	bar := progressbar.Default(int64(runs), "sampling")

	for i := range runs {
		gen := mock.NewGenerator(c, 0)
		fx := fixtures{trend: gen.Trend(), top: gen.TopDiseases(), climate: gen.Climate(), points: gen.Map()}
		prefix := fmt.Sprintf("run %d: ", i+1)

		checkBounds(p, prefix, fx, c)
		checkCrossProduct(p, prefix, fx.trend, c)
		if n := len(fx.points); n != len(c.States)*mock.DistrictsPerState {
			p.errorf("%smap: %d records", prefix, n)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return p
}

func floatEq(a, b float64) bool {
	const eps = 1e-6
	d := a - b
	return d < eps && d > -eps
}
