// Example site embedding routemark as a library.
//
// The same project also works with the CLI: run routemark serve --dev
// from this directory and routemark.json takes over.
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/routemark/routemark"
)

func main() {
	app := routemark.New(routemark.Config{
		Title: "Field Notes",
		Rules: []routemark.Rule{
			{Pattern: "/", Doc: "/README.md"},
			{Pattern: "/about", Doc: "/about.md"},
			{Pattern: "/list/:channel", Doc: "/list/:channel.md"},
		},
		Source: routemark.NewDirSource("content"),
		Static: routemark.StaticConfig{
			Dir:    "public",
			Prefix: "/static/",
		},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Serving on http://localhost:%s", port)
	log.Fatal(http.ListenAndServe(":"+port, app))
}
