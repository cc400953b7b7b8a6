package main

import (
	"github.com/nzlosh/stackstorm-packagecloud/internal/cli"
)

func main() {
	cli.Execute()
}
