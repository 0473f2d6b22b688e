package main

import (
	"github.com/migratehq/rvscrub/cmd/rvscrub/cli"
)

func main() {
	cli.InitAndExecute()
}
