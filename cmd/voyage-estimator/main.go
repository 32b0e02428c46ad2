package main

import "github.com/andrescamacho/voyage-estimator/internal/adapters/cli"

func main() {
	cli.Execute()
}
