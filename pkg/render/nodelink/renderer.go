package nodelink

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pairrank/pkg/cache"
	errs "github.com/matzehuels/pairrank/pkg/errors"
)

// Output formats accepted by [Renderer.Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists the supported output formats.
var Formats = []string{FormatDOT, FormatSVG, FormatPNG}

// Renderer renders DOT sources and caches the results.
type Renderer struct {
	Cache  cache.Cache   // nil disables caching
	TTL    time.Duration // entry lifetime; zero keeps entries forever
	Logger *log.Logger   // nil disables logging
}

// Render produces dot in the given format. DOT output is returned as is;
// other formats go through Graphviz unless a cached artifact exists. The
// second result reports a cache hit.
func (r *Renderer) Render(ctx context.Context, dot, format string) ([]byte, bool, error) {
	var fn func(context.Context, string) ([]byte, error)
	switch format {
	case FormatDOT:
		return []byte(dot), false, nil
	case FormatSVG:
		fn = RenderSVG
	case FormatPNG:
		fn = RenderPNG
	default:
		return nil, false, errs.New(errs.ErrCodeUnsupported, "unsupported format %q (want dot, svg or png)", format)
	}

	key := cache.ArtifactKey(dot, format)
	if r.Cache != nil {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.debug("cache read failed", "key", key, "err", err)
		} else if hit {
			r.debug("cache hit", "format", format)
			return data, true, nil
		}
	}

	data, err := fn(ctx, dot)
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInternal, err, "render %s", format)
	}

	if r.Cache != nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.debug("cache write failed", "key", key, "err", err)
		}
	}
	return data, false, nil
}

func (r *Renderer) debug(msg string, keyvals ...any) {
	if r.Logger != nil {
		r.Logger.Debug(msg, keyvals...)
	}
}
