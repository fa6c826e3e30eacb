package main

import (
	"github.com/axellelanca/dynamiclinks/cmd"
	_ "github.com/axellelanca/dynamiclinks/cmd/cli"
	_ "github.com/axellelanca/dynamiclinks/cmd/server"
)

func main() {
	cmd.Execute()
}
