package main

import "github.com/Jeevan-J/smart-contract-deployer/cmd"

func main() {
	cmd.Execute()
}
