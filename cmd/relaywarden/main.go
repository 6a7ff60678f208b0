package main

import "github.com/pivanov/relaywarden/internal/cli"

func main() {
	cli.Execute()
}
