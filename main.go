package main

import (
	"log"

	"github.com/shaharia-lab/lexicon/cmd"
)

func main() {
	webFS, err := getFrontendFS()
	if err != nil {
		log.Fatalf("failed to load web assets: %v", err)
	}
	cmd.WebFS = webFS
	cmd.Execute()
}
