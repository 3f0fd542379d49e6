package main

import (
	"os"
)

//go:generate swag init -g cmd/tidestom/main.go -o docs

// @title           TiDES TOM API
// @version         0.1.0
// @description     Candidate mirroring, spectra, and human classification of TiDES targets.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
