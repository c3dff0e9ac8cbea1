package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/MrSnakeDoc/viddst/internal/app"
	"github.com/MrSnakeDoc/viddst/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ viddst failed: %v", err)
	}
}
