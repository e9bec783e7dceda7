package main

import (
	"github.com/esiddiqui/goidc-app/cmd"
)

func main() {
	cmd.Exec()
}
