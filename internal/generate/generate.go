// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns a DOI, a free-text reference, a quoted title or a
// keyword query into an APA reference entry and its in-text citation keys.
package generate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/citecheck/internal/citekey"
	"github.com/pdiddy/citecheck/internal/crossref"
	"github.com/pdiddy/citecheck/pkg/types"
)

var (
	// ErrUnknownInput is returned for input that matches no mode.
	ErrUnknownInput = errors.New("cannot determine input type; enter a DOI, an APA reference, a title or keywords")

	// ErrNoMatch is returned when a title search finds no work with that title.
	ErrNoMatch = errors.New("no journal article matches the given title")
)

// keywordResults is the number of catalog candidates fetched in keyword mode.
const keywordResults = 3

// Catalog is the metadata source the generator queries. *crossref.Client
// satisfies it.
type Catalog interface {
	LookupDOI(ctx context.Context, doi string) (types.WorkMetadata, error)
	SearchTitle(ctx context.Context, title string) (types.WorkMetadata, error)
	SearchKeywords(ctx context.Context, query string, limit int) ([]types.WorkMetadata, error)
}

// Result is a generated citation.
type Result struct {
	Mode       Mode                 `json:"mode" yaml:"mode"`
	Reference  string               `json:"reference" yaml:"reference"`
	Citations  types.CitationKeys   `json:"citations" yaml:"citations"`
	Meta       types.WorkMetadata   `json:"meta" yaml:"meta"`
	Candidates []types.WorkMetadata `json:"results,omitempty" yaml:"results,omitempty"`
	Note       string               `json:"suggestion" yaml:"suggestion"`
}

// Generator produces citations, consulting a Catalog for DOI, title and
// keyword inputs.
type Generator struct {
	catalog Catalog
	logger  *zap.Logger
}

// New returns a Generator backed by catalog. A nil logger disables logging.
func New(catalog Catalog, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{catalog: catalog, logger: logger}
}

// Generate detects the input mode and builds the citation.
func (g *Generator) Generate(ctx context.Context, input string) (Result, error) {
	mode := DetectMode(input)
	g.logger.Debug("generating citation", zap.String("mode", string(mode)))

	switch mode {
	case ModeDOI:
		doi := ExtractDOI(input)
		meta, err := g.catalog.LookupDOI(ctx, doi)
		if err != nil {
			return Result{Mode: mode}, err
		}
		return finish(mode, meta, "Detected DOI input; metadata retrieved from CrossRef."), nil

	case ModeReference:
		meta := ParseReference(input)
		return finish(mode, meta, "Detected reference input; parsed for format confirmation."), nil

	case ModeTitle:
		title := unquote(input)
		meta, err := g.catalog.SearchTitle(ctx, title)
		if errors.Is(err, crossref.ErrNotFound) {
			return Result{Mode: mode}, ErrNoMatch
		}
		if err != nil {
			return Result{Mode: mode}, err
		}
		if !SameWork(types.WorkMetadata{Title: title}, meta) {
			g.logger.Debug("title search returned a different work", zap.String("found", meta.Title))
			return Result{Mode: mode}, ErrNoMatch
		}
		return finish(mode, meta, "Detected title input; closest matching work retrieved."), nil

	case ModeKeyword:
		return g.keyword(ctx, input)

	default:
		return Result{Mode: ModeUnknown}, ErrUnknownInput
	}
}

func (g *Generator) keyword(ctx context.Context, input string) (Result, error) {
	metas, err := g.catalog.SearchKeywords(ctx, input, keywordResults)
	if err != nil {
		return Result{Mode: ModeKeyword}, err
	}
	note := fmt.Sprintf("Detected keyword input; showing the top %d results.", keywordResults)

	best, ok := SelectBest(metas)
	if !ok {
		return Result{Mode: ModeKeyword, Candidates: metas, Note: note}, nil
	}

	if best.DOI != "" {
		registered, err := g.catalog.LookupDOI(ctx, best.DOI)
		switch {
		case err != nil:
			g.logger.Debug("candidate DOI lookup failed", zap.String("doi", best.DOI), zap.Error(err))
			best.DOI = ""
			note += " The DOI's metadata could not be retrieved, so it was omitted."
		case !SameWork(best, registered):
			best.DOI = ""
			note += " The DOI's metadata did not match the candidate, so it was omitted."
		}
	}

	res := finish(ModeKeyword, best, note)
	res.Candidates = metas
	return res, nil
}

func finish(mode Mode, meta types.WorkMetadata, note string) Result {
	return Result{
		Mode:      mode,
		Reference: citekey.FormatReference(meta),
		Citations: citekey.FormatKey(meta.Authors, meta.Year),
		Meta:      meta,
		Note:      note,
	}
}
