package main

import "github.com/mvp-joe/py-outline/internal/cli"

func main() {
	cli.Execute()
}
