package main

import (
	"flag"
	"log"

	"github.com/emurenMRz/mpbody/internal/server"
)

func main() {
	var (
		path = flag.String("path", ".", "path to mbox files")
		addr = flag.String("addr", ":8080", "listen address")
		edit = flag.Bool("edit", false, "allow composing new messages")
	)
	flag.Parse()

	s := server.New(*path)
	s.SetEditMode(*edit)

	log.Printf("Listening on %s...", *addr)
	if err := s.ListenAndServe(*addr); err != nil {
		log.Fatal(err)
	}
}
