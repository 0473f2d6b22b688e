package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/cmd/util"
	"github.com/migratehq/rvscrub/pkg/logger"
	"github.com/migratehq/rvscrub/pkg/rvtools"
)

func Anonymize() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anonymize [file]",
		Args:  cobra.ArbitraryArgs,
		Short: "Anonymize a single RVTools export",
		Long: `Anonymize one RVTools export, replacing identifying values with
synthetic labels, and write the mapping file needed to reverse the run.
To anonymize several exports at once, consolidate them first or use
both.`,
		PreRun: func(cmd *cobra.Command, args []string) {
			v := viper.GetViper()
			v.BindPFlags(cmd.Flags())

			logger.SetupLogger(v)

			if err := util.StartProfiling(); err != nil {
				klog.Errorf("Failed to start profiling: %v", err)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(viper.GetViper(), rvtools.ModeAnonymize, args)
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
