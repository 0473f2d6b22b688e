package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/migratehq/rvscrub/cmd/util"
	"github.com/migratehq/rvscrub/pkg/logger"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rvscrub",
		Short: "Consolidate and anonymize RVTools exports",
		Long: `rvscrub prepares RVTools inventory exports for sharing outside the
organization. It merges multiple exports into one workbook and replaces
identifying values (VM, host, cluster and datacenter names, paths,
addresses) with stable synthetic labels, writing a mapping file so the
originals can be restored later.`,
		SilenceUsage: true,
	}

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(Consolidate())
	cmd.AddCommand(Anonymize())
	cmd.AddCommand(Both())
	cmd.AddCommand(Deanonymize())
	cmd.AddCommand(VersionCmd())

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	viper.BindPFlags(cmd.PersistentFlags())

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Initialize klog flags
	logger.InitKlogFlags(cmd.PersistentFlags())

	// CPU and memory profiling flags
	util.AddProfilingFlags(cmd)

	return cmd
}

func InitAndExecute() {
	if err := RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("RVSCRUB")
	viper.AutomaticEnv()
}
