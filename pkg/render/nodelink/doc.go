// Package nodelink renders comparison graphs as node-link diagrams.
//
// # Overview
//
// Items appear as boxes, judgements as arrows from winner to loser. Each
// level of the ranking is laid out on its own row, best level on top, so the
// picture reads like the ranking itself while still showing which
// comparisons produced it.
//
// # Usage
//
// Convert a session snapshot to DOT, then render it:
//
//	dot := nodelink.ToDOT(r.Snapshot(ctx), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// A [Renderer] adds artifact caching on top:
//
//	rd := &nodelink.Renderer{Cache: c, TTL: 24 * time.Hour}
//	png, hit, err := rd.Render(ctx, dot, nodelink.FormatPNG)
//
// # Styling
//
//   - Nodes on the recovered cycle are filled red
//   - Items missing from the ranking are drawn dashed and grey
//   - Repeated judgements are drawn as a single arrow
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering,
// so no Graphviz installation is needed.
package nodelink
