package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pairrank/pkg/rank"
	"github.com/matzehuels/pairrank/pkg/session"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the item index and level to node labels and the
	// number of repeated judgements to edges.
	Detailed bool
}

// ToDOT converts a session snapshot to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG] or [Renderer].
//
// Each ranking level becomes a rank=same group, so better items are drawn
// above worse ones. Edges point from winner to loser; repeated judgements
// are drawn once. Nodes on the recovered cycle are highlighted and items
// missing from the ranking are drawn dashed.
func ToDOT(s session.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if s.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=28;\n", s.Name)
	}
	buf.WriteString("\n")

	levels := s.Ranking.Levels()
	for i, item := range s.Items {
		id := rank.NodeID(i)
		level, ranked := levels[id]
		label := fmtLabel(item, i, level, ranked, opts.Detailed)
		attrs := fmtAttrs(label, ranked, slices.Contains(s.CycleNodes, id))
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeName(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, level := range s.Ranking {
		names := make([]string, len(level))
		for i, id := range level {
			names[i] = nodeName(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(names, "; "))
	}

	buf.WriteString("\n")
	for _, e := range countEdges(s.Edges) {
		if opts.Detailed && e.n > 1 {
			fmt.Fprintf(&buf, "  %s -> %s [label=\"x%d\", penwidth=2];\n", nodeName(e.From), nodeName(e.To), e.n)
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(e.From), nodeName(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id rank.NodeID) string { return "n" + strconv.Itoa(int(id)) }

func fmtLabel(item string, index, level int, ranked, detailed bool) string {
	if !detailed {
		return item
	}
	if !ranked {
		return fmt.Sprintf("%s\n#%d unranked", item, index)
	}
	return fmt.Sprintf("%s\n#%d level %d", item, index, level)
}

func fmtAttrs(label string, ranked, onCycle bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case onCycle:
		attrs = append(attrs, "fillcolor=\"#fde2e1\"", "color=\"#c0392b\"", "penwidth=2")
	case !ranked:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

type countedEdge struct {
	rank.Edge
	n int
}

// countEdges collapses parallel edges, ordered by source then target.
func countEdges(edges []rank.Edge) []countedEdge {
	counts := make(map[rank.Edge]int, len(edges))
	var out []countedEdge
	for _, e := range edges {
		if counts[e] == 0 {
			out = append(out, countedEdge{Edge: e})
		}
		counts[e]++
	}
	for i := range out {
		out[i].n = counts[out[i].Edge]
	}
	slices.SortFunc(out, func(a, b countedEdge) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// in plain pixels and a zero-origin viewBox, so browsers scale it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
