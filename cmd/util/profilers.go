package util

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cpuProfileFile *os.File

// StartProfiling starts CPU profiling when --cpuprofile was set and
// bound to viper. Memory profiling is collected at stop time.
func StartProfiling() error {
	v := viper.GetViper()
	if v.GetString("cpuprofile") == "" {
		return nil
	}

	var err error
	cpuProfileFile, err = os.Create(v.GetString("cpuprofile"))
	if err != nil {
		return errors.Wrap(err, "create cpu profile")
	}
	if err := pprof.StartCPUProfile(cpuProfileFile); err != nil {
		cpuProfileFile.Close()
		cpuProfileFile = nil
		return errors.Wrap(err, "start cpu profile")
	}
	return nil
}

// StopProfiling writes the heap profile when --memprofile was set and
// stops CPU profiling if StartProfiling started it.
func StopProfiling() error {
	v := viper.GetViper()

	if v.GetString("memprofile") != "" {
		f, err := os.Create(v.GetString("memprofile"))
		if err != nil {
			return errors.Wrap(err, "create memory profile")
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errors.Wrap(err, "write memory profile")
		}
	}

	if cpuProfileFile != nil {
		pprof.StopCPUProfile()
		return cpuProfileFile.Close()
	}
	return nil
}

// AddProfilingFlags adds the --cpuprofile and --memprofile flags to the given command.
func AddProfilingFlags(cmd *cobra.Command) {
	// Persistent flags to make available to subcommands
	cmd.PersistentFlags().String("cpuprofile", "", "File path to write cpu profiling data")
	cmd.PersistentFlags().String("memprofile", "", "File path to write memory profiling data")
}
