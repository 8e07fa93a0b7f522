package main

import (
	"github.com/feltworks/poker-ledger/internal/cli"
)

func main() {
	cli.Execute()
}
