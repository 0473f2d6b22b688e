package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	cursor "github.com/ahmetalpbalkan/go-cursor"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
	spin "github.com/tj/go-spin"

	"github.com/migratehq/rvscrub/pkg/rvtools"
)

// runProcess drives one processing mode: it renders progress while the
// run executes, then prints the summary in the requested format.
func runProcess(v *viper.Viper, mode rvtools.Mode, args []string) error {
	interactive := isatty.IsTerminal(os.Stdout.Fd())

	if interactive {
		fmt.Print(cursor.Hide())
		defer fmt.Print(cursor.Show())
	}

	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt)
		<-signalChan
		fmt.Print(cursor.Show())
		os.Exit(0)
	}()

	progressChan := make(chan interface{}) // non-zero buffer can result in missed messages
	finishedCh := make(chan bool, 1)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		s := spin.New()
		current := ""
		for {
			select {
			case msg := <-progressChan:
				switch msg := msg.(type) {
				case error:
					c := color.New(color.FgHiRed)
					if interactive {
						c.Println(fmt.Sprintf("%s\r * %v", cursor.ClearEntireLine(), msg))
					} else {
						c.Fprintf(os.Stderr, " * %v\n", msg)
					}
				case string:
					if interactive {
						current = msg
					} else {
						fmt.Println(msg)
					}
				}
			case <-finishedCh:
				if interactive {
					fmt.Printf("\r%s\r", cursor.ClearEntireLine())
				}
				return
			case <-time.After(time.Millisecond * 100):
				if !interactive {
					continue
				}
				if current == "" {
					fmt.Printf("\r%s \033[36mProcessing RVTools files\033[m %s", cursor.ClearEntireLine(), s.Next())
				} else {
					fmt.Printf("\r%s \033[36mProcessing RVTools files\033[m %s %s", cursor.ClearEntireLine(), s.Next(), current)
				}
			}
		}
	}()

	summary, err := rvtools.Process(rvtools.Opts{
		Mode:         mode,
		InputFiles:   args,
		InputDir:     v.GetString("dir"),
		Pattern:      v.GetString("pattern"),
		OutputPath:   v.GetString("output"),
		MappingPath:  v.GetString("mapping"),
		Preview:      v.GetBool("preview"),
		ProgressChan: progressChan,
	})

	finishedCh <- true
	<-drained

	if err != nil {
		return err
	}
	return printSummary(v.GetString("format"), summary)
}
