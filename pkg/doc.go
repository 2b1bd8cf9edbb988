// Package pkg provides the core libraries behind the quill converter.
//
// # Overview
//
// Quill converts structured documents (TOML, YAML) into formatted JSON text,
// with optional structure diagrams of the document tree. The pkg directory
// is organized into four main areas:
//
//  1. Serialization core ([value], [jsontext]) - document model and JSON encoder
//  2. Input ([decode], [httputil]) - format decoders and remote document fetching
//  3. Visualization ([render/tree]) - DOT and SVG structure diagrams
//  4. Infrastructure ([pipeline], [cache], [archive]) - orchestration, caching, history
//
// # Architecture
//
// The typical data flow through quill:
//
//	TOML/YAML document (file, stdin, or URL)
//	         ↓
//	    [decode] package (parse into the value model)
//	         ↓
//	    [value] package (tagged union document tree)
//	         ↓
//	    [jsontext] package (formatted JSON text)
//	         ↓
//	    JSON/DOT/SVG artifacts
//
// # Quick Start
//
// Decode a document and serialize it to JSON:
//
//	import (
//	    "fmt"
//	    "github.com/dwestra/quill/pkg/decode"
//	    "github.com/dwestra/quill/pkg/jsontext"
//	)
//
//	// 1. Pick a decoder by file name
//	format, _ := decode.Detect("config.toml", decode.All()...)
//
//	// 2. Decode into the value model
//	doc, _ := format.Decode(data)
//
//	// 3. Serialize to JSON
//	fmt.Println(jsontext.Serialize(doc))
//
// # Main Packages
//
// ## Serialization Core
//
// [value] - The document model: a tagged union over undefined, literal
// (true/false/null), number, string, array, and object. The zero Value is
// undefined, which serializes to nothing.
//
// [jsontext] - JSON text generation. [jsontext.Serialize] never fails on any
// input; unsupported values come back as the empty string with a diagnostic
// log line. [jsontext.Quote] escapes arbitrary strings into JSON string
// literals, and [jsontext.Register] extends serialization to custom types.
//
// ## Input
//
// [decode] - Input format registry. TOML and YAML decoders implementing a
// common [decode.Format] interface, with detection by file extension
// ([decode.Detect]) and lookup by name ([decode.Find]).
//
// [httputil] - Cached, retrying HTTP fetches behind `quill convert <url>`.
//
// ## Visualization
//
// [render/tree] - Structure diagrams of the document tree. [tree.ToDOT]
// produces Graphviz DOT, [tree.RenderSVG] renders it to SVG.
//
// ## Infrastructure
//
// [pipeline] - Complete conversion pipeline (decode → encode → render) used
// by the CLI and the HTTP API. Ensures consistent behavior across all entry
// points, including cache lookups keyed by document content.
//
// [cache] - Conversion cache backends: [cache.FileCache] for the CLI,
// [cache.RedisCache] for shared server deployments, [cache.NullCache] for
// tests and --no-cache runs. Key layout is controlled by a [cache.Keyer].
//
// [archive] - Conversion history. [archive.Record] describes a finished
// conversion; [archive.MongoStore] persists records for `quill history`
// and the server's /v1/history endpoint.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Hook interfaces for optional instrumentation of
// pipeline, cache, and fetch events.
//
// [buildinfo] - Version metadata injected at build time via ldflags.
//
// # Common Workflows
//
// Decode a document with an explicit format:
//
//	format, _ := decode.Find("yaml", decode.All()...)
//	doc, _ := format.Decode(data)
//
// Run the full pipeline with caching:
//
//	store, _ := cache.NewFileCache("")
//	runner := pipeline.NewRunner(store, nil, logger)
//	res, _ := runner.Execute(ctx, data, pipeline.Options{Source: "config.toml"})
//	fmt.Println(res.JSON)
//
// Render a structure diagram:
//
//	dot := tree.ToDOT(doc, tree.Options{Detailed: true})
//	svg, _ := tree.RenderSVG(ctx, dot)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/jsontext/...           # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [value]: https://pkg.go.dev/github.com/dwestra/quill/pkg/value
// [jsontext]: https://pkg.go.dev/github.com/dwestra/quill/pkg/jsontext
// [decode]: https://pkg.go.dev/github.com/dwestra/quill/pkg/decode
// [httputil]: https://pkg.go.dev/github.com/dwestra/quill/pkg/httputil
// [render/tree]: https://pkg.go.dev/github.com/dwestra/quill/pkg/render/tree
// [pipeline]: https://pkg.go.dev/github.com/dwestra/quill/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/dwestra/quill/pkg/cache
// [archive]: https://pkg.go.dev/github.com/dwestra/quill/pkg/archive
// [errors]: https://pkg.go.dev/github.com/dwestra/quill/pkg/errors
// [observability]: https://pkg.go.dev/github.com/dwestra/quill/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/dwestra/quill/pkg/buildinfo
package pkg
