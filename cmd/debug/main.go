// Command debug dumps the chart projection of a glycemia database as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jwulff/glycemia-go/internal/config"
	"github.com/jwulff/glycemia-go/internal/render"
	"github.com/jwulff/glycemia-go/internal/storage"
	"github.com/jwulff/glycemia-go/internal/storage/sqlite"
)

func main() {
	cfg, _, err := config.Load(config.Options{DotEnv: ".env", Env: os.Environ()})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	path := cfg.DBPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	store, err := sqlite.NewFileStore(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := storage.LoadRecords(context.Background(), store)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	d := render.Project(records.Readings, render.NewChartConfig(cfg.Chart.Width, cfg.Chart.Height))

	data, _ := json.MarshalIndent(d, "", "  ")
	fmt.Fprintln(os.Stderr, "Drawing structure:")
	fmt.Fprintf(os.Stderr, "  Database: %s\n", path)
	fmt.Fprintf(os.Stderr, "  Size: %dx%d\n", d.Width, d.Height)
	fmt.Fprintf(os.Stderr, "  Domain: %.0f-%.0f mg/dL\n", d.Domain.Min, d.Domain.Max)
	fmt.Fprintf(os.Stderr, "  Bands: %d\n", len(d.Bands))
	fmt.Fprintf(os.Stderr, "  Segments: %d\n", len(d.Segments))
	fmt.Fprintf(os.Stderr, "  Markers: %d\n", len(d.Markers))
	fmt.Fprintf(os.Stderr, "  Full JSON size: %d bytes\n", len(data))

	fmt.Println(string(data))
}
