package main

import "github.com/mcoot/partyscore/internal/cli"

func main() {
	cli.Execute()
}
