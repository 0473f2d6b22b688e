package rvtools

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/pkg/anonymize"
	"github.com/migratehq/rvscrub/pkg/consolidate"
	"github.com/migratehq/rvscrub/pkg/inventory"
	"github.com/migratehq/rvscrub/pkg/version"
	"github.com/migratehq/rvscrub/pkg/xlsx"
)

// Mode selects what a run does with its inputs.
type Mode string

const (
	ModeConsolidate Mode = "consolidate"
	ModeAnonymize   Mode = "anonymize"
	ModeBoth        Mode = "both"
	ModeDeanonymize Mode = "deanonymize"
)

// ErrNoInputFiles means discovery found nothing to process. The run
// stops before producing any output.
var ErrNoInputFiles = errors.New("no RVTools files found")

// Opts configures one run.
type Opts struct {
	Mode        Mode
	InputFiles  []string // explicit inputs; discovery runs when empty
	InputDir    string   // discovery root, default "."
	Pattern     string   // discovery glob, default DefaultPattern
	OutputPath  string   // derived from mode and timestamp when empty
	MappingPath string   // reversal artifact, required for deanonymize
	Preview     bool     // run the full transform but write nothing

	// ProgressChan receives strings for progress steps and errors for
	// per-file failures. The caller drains it; nil disables reporting.
	ProgressChan chan interface{}
}

// SkippedFile records an input that could not be read and was left out
// of a partial-tolerant run.
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// SheetSummary reports one output sheet.
type SheetSummary struct {
	Name string `json:"name" yaml:"name"`
	Rows int    `json:"rows" yaml:"rows"`
}

// Summary describes what a run did.
type Summary struct {
	Mode           Mode             `json:"mode" yaml:"mode"`
	RunID          string           `json:"runId,omitempty" yaml:"runId,omitempty"`
	Inputs         []string         `json:"inputs" yaml:"inputs"`
	Skipped        []SkippedFile    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	OutputPath     string           `json:"outputPath,omitempty" yaml:"outputPath,omitempty"`
	MappingPath    string           `json:"mappingPath,omitempty" yaml:"mappingPath,omitempty"`
	Preview        bool             `json:"preview,omitempty" yaml:"preview,omitempty"`
	Sheets         []SheetSummary   `json:"sheets" yaml:"sheets"`
	CellsRewritten int              `json:"cellsRewritten" yaml:"cellsRewritten"`
	Stats          *anonymize.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Process runs one invocation end to end and reports what it did.
// Output and mapping artifact are written together as the last step, so
// an aborted run never leaves a partial mapping behind.
func Process(opts Opts) (*Summary, error) {
	inputs, err := resolveInputs(opts)
	if err != nil {
		return nil, err
	}

	switch opts.Mode {
	case ModeConsolidate:
		return consolidateRun(opts, inputs)
	case ModeAnonymize:
		if len(inputs) != 1 {
			return nil, errors.Errorf("anonymize takes exactly one input file, got %d; use both to consolidate first", len(inputs))
		}
		return anonymizeRun(opts, inputs)
	case ModeBoth:
		return bothRun(opts, inputs)
	case ModeDeanonymize:
		if len(inputs) != 1 {
			return nil, errors.Errorf("deanonymize takes exactly one input file, got %d", len(inputs))
		}
		return deanonymizeRun(opts, inputs[0])
	default:
		return nil, errors.Errorf("unknown mode %q", opts.Mode)
	}
}

func resolveInputs(opts Opts) ([]string, error) {
	if len(opts.InputFiles) > 0 {
		return opts.InputFiles, nil
	}
	dir := opts.InputDir
	if dir == "" {
		dir = "."
	}
	discovered, err := Discover(dir, opts.Pattern)
	if err != nil {
		return nil, err
	}
	if len(discovered) == 0 {
		return nil, errors.Wrapf(ErrNoInputFiles, "in %s", dir)
	}
	progress(opts.ProgressChan, fmt.Sprintf("Found %d RVTools files", len(discovered)))
	return discovered, nil
}

func consolidateRun(opts Opts, inputs []string) (*Summary, error) {
	books, skipped, err := readWorkbooks(inputs, opts.ProgressChan)
	if err != nil {
		return nil, err
	}

	progress(opts.ProgressChan, fmt.Sprintf("Consolidating %d files", len(books)))
	merged := consolidate.Merge(books)

	summary := newSummary(opts, books, skipped)
	summary.Sheets = sheetSummaries(merged)
	if opts.Preview {
		return summary, nil
	}

	if err := writeOutput(opts, merged, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func anonymizeRun(opts Opts, inputs []string) (*Summary, error) {
	books, skipped, err := readWorkbooks(inputs, opts.ProgressChan)
	if err != nil {
		return nil, err
	}
	return anonymizeWorkbook(opts, books[0], newSummary(opts, books, skipped))
}

func bothRun(opts Opts, inputs []string) (*Summary, error) {
	books, skipped, err := readWorkbooks(inputs, opts.ProgressChan)
	if err != nil {
		return nil, err
	}

	progress(opts.ProgressChan, fmt.Sprintf("Consolidating %d files", len(books)))
	merged := consolidate.Merge(books)

	return anonymizeWorkbook(opts, merged, newSummary(opts, books, skipped))
}

func anonymizeWorkbook(opts Opts, wb *inventory.Workbook, summary *Summary) (*Summary, error) {
	store := anonymize.NewMappingStore()
	store.SetGeneratedBy("rvscrub " + version.Version())
	engine := anonymize.NewEngine(store)

	progress(opts.ProgressChan, fmt.Sprintf("Anonymizing %d sheets", len(wb.Sheets)))
	engine.Anonymize(wb)

	stats := store.Stats()
	summary.RunID = store.RunID()
	summary.CellsRewritten = engine.CellsRewritten()
	summary.Stats = &stats
	summary.Sheets = sheetSummaries(wb)
	if opts.Preview {
		return summary, nil
	}

	if err := writeOutput(opts, wb, summary); err != nil {
		return nil, err
	}

	mappingPath, err := findFileName(MappingPath(summary.OutputPath))
	if err != nil {
		return nil, err
	}
	progress(opts.ProgressChan, fmt.Sprintf("Writing mapping %s", filepath.Base(mappingPath)))
	if err := store.SaveFile(mappingPath); err != nil {
		return nil, err
	}
	summary.MappingPath = mappingPath
	return summary, nil
}

func deanonymizeRun(opts Opts, input string) (*Summary, error) {
	if opts.MappingPath == "" {
		return nil, errors.New("a mapping file is required to deanonymize")
	}
	store, err := anonymize.LoadMappingFile(opts.MappingPath)
	if err != nil {
		return nil, err
	}

	books, skipped, err := readWorkbooks([]string{input}, opts.ProgressChan)
	if err != nil {
		return nil, err
	}
	wb := books[0]

	engine := anonymize.NewEngine(store)
	progress(opts.ProgressChan, fmt.Sprintf("Restoring %d sheets", len(wb.Sheets)))
	engine.Deanonymize(wb)

	summary := newSummary(opts, books, skipped)
	summary.RunID = store.RunID()
	summary.MappingPath = opts.MappingPath
	summary.CellsRewritten = engine.CellsRewritten()
	summary.Sheets = sheetSummaries(wb)
	if opts.Preview {
		return summary, nil
	}

	if err := writeOutput(opts, wb, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// readWorkbooks reads each input, skipping unreadable files so one
// corrupt export does not sink a best-effort aggregation. Only zero
// readable inputs is fatal.
func readWorkbooks(inputs []string, progressChan chan interface{}) ([]*inventory.Workbook, []SkippedFile, error) {
	var result *multierror.Error
	var books []*inventory.Workbook
	var skipped []SkippedFile

	for _, path := range inputs {
		progress(progressChan, fmt.Sprintf("Reading %s", filepath.Base(path)))
		wb, err := xlsx.ReadFile(path)
		if err != nil {
			klog.Warningf("Skipping unreadable input %s: %v", path, err)
			progress(progressChan, errors.Wrapf(err, "read %s", filepath.Base(path)))
			skipped = append(skipped, SkippedFile{Path: path, Reason: err.Error()})
			result = multierror.Append(result, err)
			continue
		}
		books = append(books, wb)
	}

	if len(books) == 0 {
		return nil, skipped, errors.Wrap(result.ErrorOrNil(), "no readable input files")
	}
	return books, skipped, nil
}

func writeOutput(opts Opts, wb *inventory.Workbook, summary *Summary) error {
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputName(opts.Mode, time.Now())
	}
	outputPath, err := findFileName(outputPath)
	if err != nil {
		return err
	}

	progress(opts.ProgressChan, fmt.Sprintf("Writing %s", filepath.Base(outputPath)))
	if err := xlsx.WriteFile(outputPath, wb); err != nil {
		return errors.Wrap(err, "write output")
	}
	summary.OutputPath = outputPath
	return nil
}

func newSummary(opts Opts, books []*inventory.Workbook, skipped []SkippedFile) *Summary {
	inputs := make([]string, 0, len(books))
	for _, wb := range books {
		inputs = append(inputs, wb.Source)
	}
	return &Summary{
		Mode:    opts.Mode,
		Inputs:  inputs,
		Skipped: skipped,
		Preview: opts.Preview,
	}
}

func sheetSummaries(wb *inventory.Workbook) []SheetSummary {
	out := make([]SheetSummary, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		out = append(out, SheetSummary{Name: sheet.Name, Rows: len(sheet.Rows)})
	}
	return out
}

func progress(ch chan interface{}, msg interface{}) {
	if ch == nil {
		return
	}
	ch <- msg
}
