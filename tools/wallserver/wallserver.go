package main

import (
	"flag"
	"log"

	"github.com/mogaika/scenewalls/config"
	"github.com/mogaika/scenewalls/web"
)

func main() {
	var addr, configPath, scenePath, out string
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.StringVar(&scenePath, "scene", "", "COLLADA scene (default from config)")
	flag.StringVar(&out, "o", "", "Level file to patch (default from config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if scenePath != "" {
		cfg.Scene = scenePath
	}
	if out != "" {
		cfg.Level = out
	}

	if err := web.StartServer(addr, cfg); err != nil {
		log.Fatal(err)
	}
}
