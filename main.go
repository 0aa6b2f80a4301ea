package main

import "github.com/naka-gawa/portfolio-api/cmd"

func main() {
	cmd.Execute()
}
