package main

import "github.com/stakestar/nodelyzer/cli"

var (
	AppName = "Nodelyzer"
	Version = "latest"
)

func main() {
	cli.Execute(AppName, Version)
}
