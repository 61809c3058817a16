package main

import (
	"flag"
	"log"
	"os"

	"barocal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP/WebSocket port")
	distDir := flag.String("dist", "", "Static frontend directory (optional)")
	flag.Parse()

	if *distDir != "" {
		if _, err := os.Stat(*distDir); os.IsNotExist(err) {
			log.Fatalf("frontend directory not found at %s", *distDir)
		}
	}

	web.NewServer().Start(*port, *distDir)
}
