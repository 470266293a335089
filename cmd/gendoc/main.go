// Command gendoc writes the OpenAPI description of the figgen daemon.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/arduino/go-paths-helper"
)

func main() {
	version := flag.String("version", "0.0.0-dev", "API version written in the document")
	output := flag.String("output", "docs/openapi.yaml", "destination file")
	schemaOutput := flag.String("schema", "docs/layout.schema.json", "destination of the generation response schema, empty to skip")
	flag.Parse()

	g := NewOpenApiGenerator(*version)
	g.InitOperations()

	data, err := g.GetDocs().MarshalYAML()
	if err != nil {
		slog.Error("cannot encode the OpenAPI document", slog.String("error", err.Error()))
		os.Exit(1)
	}
	write(paths.New(*output), data)

	if *schemaOutput == "" {
		return
	}
	schema, err := LayoutSchema()
	if err != nil {
		slog.Error("cannot reflect the layout schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	data, err = json.MarshalIndent(schema, "", "  ")
	if err != nil {
		slog.Error("cannot encode the layout schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	write(paths.New(*schemaOutput), append(data, '\n'))
}

func write(target *paths.Path, data []byte) {
	if err := target.Parent().MkdirAll(); err != nil {
		slog.Error("cannot create the output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := target.WriteFile(data); err != nil {
		slog.Error("cannot write file", slog.String("file", target.String()), slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("File written", slog.String("file", target.String()))
}
