package main

import "github.com/mcoot/snakegame/internal/cli"

func main() {
	cli.Execute()
}
