// Package pkg provides the core libraries for sizereport.
//
// # Overview
//
// Sizereport measures how the byte size of source files changes under a chain
// of transforms and prints the results as aligned tables, one row per file and
// one column per transform. The pkg directory is organized into three areas:
//
//  1. Measurement - [size], [strip], [minify], [compress]
//  2. Orchestration - [transform], [pipeline], [table]
//  3. Support - [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow of one report:
//
//	File group (cwd + candidate paths)
//	         ↓
//	    [pipeline] drops missing files, runs columns file by file
//	         ↓
//	    [transform] registry: strip / minify / compress into temp files
//	         ↓
//	    [size] formats byte counts
//	         ↓
//	    [table] renders the rows
//
// # Quick Start
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/sizereport/pkg/pipeline"
//	    "github.com/matzehuels/sizereport/pkg/transform"
//	)
//
//	runner := pipeline.NewRunner(transform.NewRegistry(), os.Stdout, nil)
//	_, err := runner.Run(context.Background(), []pipeline.Group{
//	    {Cwd: "src/", Src: []string{"app.js", "util.js"}},
//	}, pipeline.Options{Cols: []string{"filepath", "origin", "uglify_gzip"}})
//
// Output:
//
//	^ File Path ^ Original ^ Uglify & Gzip ^
//	| app.js    | 12.40 KB | 3.10 KB       |
//	| util.js   | 2.05 KB  | 611 B         |
//
// # Main Packages
//
// [strip] - Heuristic comment removal for C-family sources. String literals
// are protected with placeholders before comments are removed.
//
// [transform] - The closed set of column kinds (filepath, origin,
// removecomments, uglify, gzip, uglify_gzip, zstd, brotli, snappy, lz4,
// uglify_brotli) and the scoped temporary files they measure.
//
// [pipeline] - Strictly sequential execution inside a group; groups run
// concurrently and are joined.
//
// [config] - TOML configuration with glob expansion of source entries.
//
// # Testing
//
//	go test ./...
//
// [size]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/size
// [strip]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/strip
// [minify]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/minify
// [compress]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/compress
// [transform]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/transform
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/pipeline
// [table]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/table
// [config]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/sizereport/pkg/buildinfo
package pkg
