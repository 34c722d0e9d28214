package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	wad "github.com/stuarthighley/wadforge"
	"github.com/stuarthighley/wadforge/build"
)

func main() {
	configFile := flag.String("config", "wadforge.yaml", "Path to the project file")
	watch := flag.Bool("watch", false, "Rebuild when the source archive or a script changes")
	verbose := flag.Bool("v", false, "Log archive and codec progress")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	if *verbose {
		wad.SetLogger(logger)
	}

	cfg, err := build.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading project: %v\n", err)
		os.Exit(1)
	}

	builder := build.New(cfg, logger)
	if err := builder.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}

	watcher, err := build.NewWatcher(cfg.WatchPaths()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error watching: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	logger.Println("Watching for changes ...")
	for {
		select {
		case path := <-watcher.Events:
			logger.Printf("%s changed, rebuilding", path)
			// A broken edit should not kill the watch loop.
			if err := builder.Run(); err != nil {
				logger.Printf("Build failed: %v", err)
			}
		case err := <-watcher.Errors:
			logger.Printf("Watch error: %v", err)
		}
	}
}
