/*
Logging for rvscrub.

Logging levels

0: progress-level information about a run as a whole. Individual
components (discovery, consolidation, the anonymization engine) should
not log at this level.

1: high level logs within each component. A log such as "Skipping
lock file RVTools_export.xlsx" belongs here.

2: everything else, including per-cell detail such as unparseable
address values. If you do not know which level to use, use this level.

Do not log errors in functions that return an error. Instead, return
the error and let the caller log it.
*/
package logger

import (
	"flag"
	"sync"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

var lock sync.Mutex

// InitKlogFlags initializes klog flags and adds them to the cobra command.
func InitKlogFlags(flags *pflag.FlagSet) {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)

	klogFlags.VisitAll(func(f *flag.Flag) {
		// Just the flags we want to expose in our CLI
		if f.Name == "v" {
			flags.AddGoFlag(f)
		}
	})
}

// SetupLogger enables or silences klog based on viper configuration.
func SetupLogger(v *viper.Viper) {
	verbose := v.GetBool("debug") || v.IsSet("v")
	SetQuiet(!verbose)
}

// SetQuiet enables or disables klog logger.
func SetQuiet(quiet bool) {
	lock.Lock()
	defer lock.Unlock()

	if quiet {
		klog.SetLogger(logr.Discard())
	} else {
		// Restore the default logger
		klog.ClearLogger()
	}
}
