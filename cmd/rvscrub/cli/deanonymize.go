package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/cmd/util"
	"github.com/migratehq/rvscrub/pkg/logger"
	"github.com/migratehq/rvscrub/pkg/rvtools"
)

func Deanonymize() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deanonymize [file]",
		Args:  cobra.ArbitraryArgs,
		Short: "Restore original values in an anonymized export",
		Long: `Restore the original values in an anonymized export using the mapping
file written by the anonymization run. Without that file the labels
cannot be reversed.`,
		PreRun: func(cmd *cobra.Command, args []string) {
			v := viper.GetViper()
			v.BindPFlags(cmd.Flags())

			logger.SetupLogger(v)

			if err := util.StartProfiling(); err != nil {
				klog.Errorf("Failed to start profiling: %v", err)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(viper.GetViper(), rvtools.ModeDeanonymize, args)
		},
		PostRun: func(cmd *cobra.Command, args []string) {
			if err := util.StopProfiling(); err != nil {
				klog.Errorf("Failed to stop profiling: %v", err)
			}
		},
	}

	addRunFlags(cmd)
	cmd.Flags().StringP("mapping", "m", "", "mapping file from the anonymization run")
	cmd.MarkFlagRequired("mapping")

	viper.BindPFlags(cmd.Flags())

	return cmd
}
