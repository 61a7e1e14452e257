// Package pkg provides the core libraries for pairrank.
//
// # Overview
//
// pairrank ranks a fixed set of items from pairwise "A beats B" answers.
// The pkg directory is organized into these areas:
//
//  1. [rank] - The ranking engine (comparison graph, layering, query selection)
//  2. [session] - Persisted ranking sessions and their stores
//  3. [render/nodelink] - Graphviz rendering of comparison graphs
//  4. [cache] - Rendered artifact caching
//  5. [config], [errors], [observability] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through pairrank:
//
//	Item list (args, .txt, .toml)
//	         ↓
//	    [session] package (record answers, persist)
//	         ↓
//	    [rank] package (replay answers, layer, pick next question)
//	         ↓
//	    Ranking, next question, DOT/SVG/PNG graph
//
// [rank]: github.com/matzehuels/pairrank/pkg/rank
// [session]: github.com/matzehuels/pairrank/pkg/session
// [render/nodelink]: github.com/matzehuels/pairrank/pkg/render/nodelink
// [cache]: github.com/matzehuels/pairrank/pkg/cache
// [config]: github.com/matzehuels/pairrank/pkg/config
// [errors]: github.com/matzehuels/pairrank/pkg/errors
// [observability]: github.com/matzehuels/pairrank/pkg/observability
package pkg
