package main

import (
	"flag"
	"log"

	"github.com/mogaika/scenewalls/config"
	"github.com/mogaika/scenewalls/convert"
	"github.com/mogaika/scenewalls/preview"
	"github.com/mogaika/scenewalls/status"
	"github.com/mogaika/scenewalls/utils"
)

func main() {
	var out, scenePath, configPath, previewPath, dumpConfig string
	var dump, verbose bool
	flag.StringVar(&out, "o", "", "Level file to patch (default from config, EasyOneSaber.dat)")
	flag.StringVar(&scenePath, "scene", "", "COLLADA scene (default from config, track.dae)")
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.StringVar(&previewPath, "preview", "", "Also save generated walls as glb")
	flag.BoolVar(&dump, "dump", false, "Dump loaded scene nodes")
	flag.BoolVar(&verbose, "v", false, "Print conversion progress")
	flag.StringVar(&dumpConfig, "dumpconfig", "", "Write effective config as yaml to file and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if out != "" {
		cfg.Level = out
	}
	if scenePath != "" {
		cfg.Scene = scenePath
	}

	if dumpConfig != "" {
		if err := cfg.Save(dumpConfig); err != nil {
			log.Fatal(err)
		}
		return
	}

	var stopProgress func()
	if verbose {
		stopProgress = printProgress()
	}
	result, err := convert.Run(cfg)
	if stopProgress != nil {
		stopProgress()
	}
	if err != nil {
		log.Fatal(err)
	}

	if dump {
		utils.LogDump(result.Nodes)
	}

	if previewPath != "" {
		doc, err := preview.Build(result.Obstacles, cfg.Scale)
		if err != nil {
			log.Fatal(err)
		}
		if err := preview.Save(doc, previewPath); err != nil {
			log.Fatal(err)
		}
	}
}

// printProgress logs status messages until the returned function is called.
func printProgress() func() {
	messages, stop := status.Listen(32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for m := range messages {
			if m.Type == status.PROGRESS {
				log.Printf("[status] %3.0f%% %s", m.Progress*100, m.Message)
			} else {
				log.Printf("[status] %v: %s", m.Type, m.Message)
			}
		}
	}()
	return func() {
		stop()
		<-done
	}
}
