package main

import (
	"github.com/stalkchat/stalk/cmd/stalk/cmd"
)

func main() {
	cmd.Execute()
}
