package main

import "github.com/ps154-pta/cal-sync/internal/cli"

func main() {
	cli.Execute()
}
