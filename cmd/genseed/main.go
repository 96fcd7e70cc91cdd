// Command genseed writes the built-in feed fixture to a JSON file so it can
// be edited by hand and loaded back through SEED_FILE. It uses the actual
// feed package to ensure the file round-trips through feed.LoadSeed.
//
// Usage:
//
//	go run ./cmd/genseed -out data/seed/coastal_feed.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/coastwatch/hazard-report-service/internal/domain"
	"github.com/coastwatch/hazard-report-service/internal/feed"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the seed JSON fixture")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	seed := feed.DefaultSeed()

	if err := writeJSON(*out, seed); err != nil {
		return fmt.Errorf("writing seed fixture: %w", err)
	}
	log.Printf("wrote seed fixture: %s", *out)

	// Round-trip through the loader so a broken fixture fails here, not at
	// service startup.
	loaded, err := feed.LoadSeed(*out)
	if err != nil {
		return fmt.Errorf("round-trip check: %w", err)
	}

	printStats(loaded)
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

func printStats(seed feed.Seed) {
	typeCounts := map[string]int{}
	severityCounts := map[domain.Severity]int{}
	var verified int
	for i := range seed.Posts {
		p := &seed.Posts[i]
		typeCounts[p.HazardType]++
		severityCounts[p.Severity]++
		if p.Verified {
			verified++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Posts: %d, Alerts: %d, Tips: %d\n", len(seed.Posts), len(seed.Alerts), len(seed.Tips))
	fmt.Printf("By hazard: ")
	for _, h := range domain.HazardTypes[1:] {
		fmt.Printf("%s=%d ", h.Name, typeCounts[h.Name])
	}
	fmt.Println()
	fmt.Printf("By severity: high=%d, medium=%d, low=%d\n",
		severityCounts[domain.SeverityHigh], severityCounts[domain.SeverityMedium], severityCounts[domain.SeverityLow])
	fmt.Printf("Verified posts: %d\n", verified)
	fmt.Printf("User: %s (%s), reports=%d, likes=%d, badges=%d\n",
		seed.User.Name, seed.User.Handle, seed.User.Stats.Reports, seed.User.Stats.Likes, len(seed.User.Badges))
}
