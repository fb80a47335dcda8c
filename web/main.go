package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-smallpt/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*port)

	log.Printf("smallpt web server")
	log.Printf("Try http://localhost:%d/api/image?scene=cornell&width=256&height=192&spp=4", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
