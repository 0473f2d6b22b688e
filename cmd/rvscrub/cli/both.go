package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/cmd/util"
	"github.com/migratehq/rvscrub/pkg/logger"
	"github.com/migratehq/rvscrub/pkg/rvtools"
)

func Both() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "both [files...]",
		Args:  cobra.ArbitraryArgs,
		Short: "Consolidate and anonymize RVTools exports in one run",
		Long: `Merge multiple RVTools exports into one workbook, then anonymize the
result. This is the usual way to prepare a multi-site inventory for an
external migration assessment.`,
		PreRun: func(cmd *cobra.Command, args []string) {
			v := viper.GetViper()
			v.BindPFlags(cmd.Flags())

			logger.SetupLogger(v)

			if err := util.StartProfiling(); err != nil {
				klog.Errorf("Failed to start profiling: %v", err)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(viper.GetViper(), rvtools.ModeBoth, args)
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
