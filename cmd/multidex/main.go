// Command multidex is the build driver: it loads a record dataset,
// builds every configured spatial index variant plus the text
// similarity index, reports structural statistics, and runs the
// configured hybrid query against each variant.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SaviorKas/multidex"
	"github.com/SaviorKas/multidex/dataset"
	"github.com/SaviorKas/multidex/metadata"
	"github.com/SaviorKas/multidex/model"
	"github.com/SaviorKas/multidex/query"
)

type config struct {
	Dataset            string   `yaml:"dataset"`
	Dimensions         []string `yaml:"dimensions"`
	TextAttributes     []string `yaml:"text_attributes"`
	MetadataAttributes []string `yaml:"metadata_attributes"`
	Capacity           int      `yaml:"capacity"`
	MaxDepth           int      `yaml:"max_depth"`
	Query              struct {
		Text          string                                `yaml:"text"`
		TextAttribute string                                `yaml:"text_attribute"`
		TopK          int                                   `yaml:"top_k"`
		Numeric       map[string]struct{ Min, Max float64 } `yaml:"numeric"`
		Metadata      struct {
			Equal     map[string]string   `yaml:"equal"`
			In        map[string][]string `yaml:"in"`
			DateRange *struct {
				Key   string `yaml:"key"`
				Start string `yaml:"start"`
				End   string `yaml:"end"`
			} `yaml:"date_range"`
		} `yaml:"metadata"`
	} `yaml:"query"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	schema := model.Schema{
		NumericDimensions:  cfg.Dimensions,
		TextAttributes:     cfg.TextAttributes,
		MetadataAttributes: cfg.MetadataAttributes,
	}

	logger := multidex.NewTextLogger(slog.LevelInfo)

	records, skipped, err := dataset.LoadFile(cfg.Dataset, schema)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "records", len(records), "skipped", skipped)

	opts := []multidex.Option{multidex.WithLogger(logger)}
	if cfg.Capacity > 0 {
		opts = append(opts, multidex.WithCapacity(cfg.Capacity))
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, multidex.WithMaxDepth(cfg.MaxDepth))
	}

	engine, err := multidex.New(records, schema, opts...)
	if err != nil {
		return err
	}

	fmt.Println("index structure:")
	for _, v := range multidex.AllVariants {
		s := engine.Stats()[v]
		fmt.Printf("  %-10s size=%d depth=%d rejected=%d\n", v, s.Size, s.Depth, s.Rejected)
	}

	filters, err := buildFilters(cfg)
	if err != nil {
		return err
	}
	numeric := make(map[string]query.Range, len(cfg.Query.Numeric))
	for name, r := range cfg.Query.Numeric {
		numeric[name] = query.Range{Min: r.Min, Max: r.Max}
	}

	for _, v := range multidex.AllVariants {
		res, err := engine.Query(multidex.Request{
			Variant:       v,
			Numeric:       numeric,
			Metadata:      filters,
			Text:          cfg.Query.Text,
			TextAttribute: cfg.Query.TextAttribute,
			TopK:          cfg.Query.TopK,
		})
		if err != nil {
			return fmt.Errorf("query %s: %w", v, err)
		}

		fmt.Printf("\n%s: %d result(s) in %s\n", v, len(res.Ranked), res.Elapsed)
		for i, s := range res.Ranked {
			rec := res.Records[i]
			fmt.Printf("  %d. id=%d score=%.3f %s=%q\n",
				i+1, s.ID, s.Score, cfg.Query.TextAttribute, rec.Text[cfg.Query.TextAttribute])
		}
	}
	return nil
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Query.TopK < 1 {
		cfg.Query.TopK = 5
	}
	return &cfg, nil
}

func buildFilters(cfg *config) (*metadata.FilterSet, error) {
	var filters []metadata.Filter
	for key, value := range cfg.Query.Metadata.Equal {
		filters = append(filters, metadata.Equal(key, value))
	}
	for key, values := range cfg.Query.Metadata.In {
		filters = append(filters, metadata.In(key, values...))
	}
	if dr := cfg.Query.Metadata.DateRange; dr != nil {
		f, err := metadata.DateRange(dr.Key, dr.Start, dr.End)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return metadata.NewFilterSet(filters...), nil
}
