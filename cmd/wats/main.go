package main

import "github.com/bulbousnub/wats-go/internal/cli"

func main() {
	cli.Execute()
}
