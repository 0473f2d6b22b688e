package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/cmd/util"
	"github.com/migratehq/rvscrub/pkg/logger"
	"github.com/migratehq/rvscrub/pkg/rvtools"
)

func Consolidate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate [files...]",
		Args:  cobra.ArbitraryArgs,
		Short: "Merge multiple RVTools exports into one workbook",
		Long: `Merge multiple RVTools exports into a single workbook, sheet by sheet.
With no file arguments, every RVTools export in the search directory is
merged. Values are not anonymized; use both for that.`,
		PreRun: func(cmd *cobra.Command, args []string) {
			v := viper.GetViper()
			v.BindPFlags(cmd.Flags())

			logger.SetupLogger(v)

			if err := util.StartProfiling(); err != nil {
				klog.Errorf("Failed to start profiling: %v", err)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(viper.GetViper(), rvtools.ModeConsolidate, args)
		},
		PostRun: func(cmd *cobra.Command, args []string) {
			if err := util.StopProfiling(); err != nil {
				klog.Errorf("Failed to stop profiling: %v", err)
			}
		},
	}

	addRunFlags(cmd)

	viper.BindPFlags(cmd.Flags())

	return cmd
}

// addRunFlags registers the flags every processing mode shares.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output filename (defaults to a timestamped name)")
	cmd.Flags().StringP("dir", "d", ".", "directory to search for RVTools files when no files are given")
	cmd.Flags().String("pattern", rvtools.DefaultPattern, "filename pattern for discovery")
	cmd.Flags().Bool("preview", false, "run the full transform but write no files")
	cmd.Flags().String("format", "human", "summary format, one of human, json or yaml")
}
