package main

import (
	"github.com/arpa-network/randcast-controller/cmd/controller/cmd"
)

func main() {
	cmd.Execute()
}
