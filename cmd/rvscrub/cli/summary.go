package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/migratehq/rvscrub/pkg/anonymize"
	"github.com/migratehq/rvscrub/pkg/rvtools"
)

func printSummary(format string, summary *rvtools.Summary) error {
	switch format {
	case "", "human":
		printSummaryHuman(summary)
		return nil
	case "json":
		b, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal summary")
		}
		fmt.Printf("%s\n", b)
		return nil
	case "yaml":
		b, err := yaml.Marshal(summary)
		if err != nil {
			return errors.Wrap(err, "marshal summary")
		}
		fmt.Printf("%s", b)
		return nil
	default:
		return errors.Errorf("unknown output format: %q", format)
	}
}

func printSummaryHuman(summary *rvtools.Summary) {
	if summary.Preview {
		color.New(color.FgYellow).Println("Preview only, no files were written")
	}

	fmt.Printf("Processed %d file(s)\n", len(summary.Inputs))
	for _, input := range summary.Inputs {
		fmt.Printf("   %s\n", input)
	}
	if len(summary.Skipped) > 0 {
		c := color.New(color.FgHiRed)
		for _, skipped := range summary.Skipped {
			c.Printf("   skipped %s: %s\n", skipped.Path, skipped.Reason)
		}
	}

	if len(summary.Sheets) > 0 {
		fmt.Println("Sheets:")
		for _, sheet := range summary.Sheets {
			fmt.Printf("   %s: %d rows\n", sheet.Name, sheet.Rows)
		}
	}

	if summary.Stats != nil {
		fmt.Println("Anonymized:")
		kinds := make([]string, 0, len(summary.Stats.Labels))
		for kind := range summary.Stats.Labels {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Printf("   %s: %d\n", kind, summary.Stats.Labels[anonymize.Kind(kind)])
		}
		if summary.Stats.Addresses > 0 {
			fmt.Printf("   address: %d\n", summary.Stats.Addresses)
		}
	}
	if summary.CellsRewritten > 0 {
		fmt.Printf("Rewrote %d cell(s)\n", summary.CellsRewritten)
	}
	if summary.RunID != "" {
		fmt.Printf("Run ID: %s\n", summary.RunID)
	}

	if summary.OutputPath != "" {
		fmt.Printf("Wrote %s\n", summary.OutputPath)
	}
	if summary.MappingPath != "" {
		fmt.Printf("Wrote %s\n", summary.MappingPath)
		color.New(color.FgYellow).Println("Keep the mapping file private, it can restore every original value")
	}
}
