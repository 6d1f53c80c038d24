// Package search fuses keyword and semantic rankings into one result
// list.
//
// Contract: semantic ordering is decreasing cosine similarity; fusion
// is Reciprocal Rank Fusion with K=60 by default; ties are broken by
// keyword contribution first, then unit ID ascending. K is part of the
// contract because changing it reorders results.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/northbuild/necbquery/internal/corpus"
	"github.com/northbuild/necbquery/internal/embeddings"
	"github.com/northbuild/necbquery/internal/understanding"
	"github.com/northbuild/necbquery/internal/vectordb"
)

// ErrSemanticIndexUnavailable is returned when no vector index exists
// for the requested vintage (or it was built with a different model).
// This is an explicit condition, never a silent keyword-only fallback.
var ErrSemanticIndexUnavailable = vectordb.ErrIndexUnavailable

// Mode reports which ranking signals produced a response.
type Mode string

const (
	// ModeHybrid means both the keyword and semantic legs contributed.
	ModeHybrid Mode = "hybrid"
	// ModeKeywordOnly means the semantic leg timed out or the provider
	// failed mid-query; results carry keyword ranks only.
	ModeKeywordOnly Mode = "keyword_only"
)

// Result is one fused search hit. KeywordRank and SemanticRank are
// 1-based; 0 means the unit did not appear in that leg.
type Result struct {
	UnitID       string
	Vintage      string
	Kind         corpus.Kind
	Locator      string
	Title        string
	Content      string
	Page         int
	KeywordRank  int
	SemanticRank int
	Similarity   float32
	Score        float64
}

// Response is the outcome of one hybrid search call.
type Response struct {
	Mode          Mode
	DegradedCause string // set when Mode is ModeKeywordOnly
	ExpandedQuery string
	Entities      *understanding.Entities
	Results       []Result
}

// Engine orchestrates the two search legs. It holds no per-query
// state; concurrent calls are safe.
type Engine struct {
	store           *corpus.Store
	vectors         *vectordb.Store
	rrfK            int
	candidatePool   int
	semanticTimeout time.Duration
}

// Options tunes the engine. Zero values fall back to the documented
// defaults (K=60, pool=2*topK with a floor of 20, timeout 10s).
type Options struct {
	RRFK            int
	CandidatePool   int
	SemanticTimeout time.Duration
}

// NewEngine creates a hybrid search engine over the given stores.
func NewEngine(store *corpus.Store, vectors *vectordb.Store, opts Options) *Engine {
	if opts.RRFK <= 0 {
		opts.RRFK = 60
	}
	if opts.SemanticTimeout <= 0 {
		opts.SemanticTimeout = 10 * time.Second
	}
	return &Engine{
		store:           store,
		vectors:         vectors,
		rrfK:            opts.RRFK,
		candidatePool:   opts.CandidatePool,
		semanticTimeout: opts.SemanticTimeout,
	}
}

// Search runs the full hybrid path: optional query understanding, both
// legs concurrently, RRF fusion, then annotation of the surviving
// results from the corpus.
//
// When no vector index exists for the vintage, the typed
// ErrSemanticIndexUnavailable is returned. When the semantic leg fails
// or times out mid-query, the response degrades to ModeKeywordOnly
// instead of failing.
func (e *Engine) Search(ctx context.Context, vintage, rawQuery string, topK int, useUnderstanding bool) (*Response, error) {
	if topK <= 0 {
		topK = 10
	}

	if !e.vectors.HasIndex(vintage) {
		return nil, &vectordb.IndexUnavailableError{Vintage: vintage, Reason: "not indexed"}
	}

	resp := &Response{Mode: ModeHybrid, ExpandedQuery: rawQuery}
	if useUnderstanding {
		ents := understanding.Understand(rawQuery)
		resp.Entities = &ents
		resp.ExpandedQuery = ents.ExpandedQuery()
	}

	pool := e.candidatePool
	if pool <= 0 {
		pool = 2 * topK
		if pool < 20 {
			pool = 20
		}
	}

	// The two legs are independent; run them concurrently and join.
	type keywordOut struct {
		hits []corpus.KeywordHit
		err  error
	}
	type semanticOut struct {
		hits []vectordb.SearchResult
		err  error
	}
	kwCh := make(chan keywordOut, 1)
	semCh := make(chan semanticOut, 1)

	go func() {
		hits, err := e.store.KeywordSearch(ctx, resp.ExpandedQuery, vintage, "", pool)
		kwCh <- keywordOut{hits: hits, err: err}
	}()
	go func() {
		semCtx, cancel := context.WithTimeout(ctx, e.semanticTimeout)
		defer cancel()
		hits, err := e.vectors.Search(semCtx, vintage, resp.ExpandedQuery, pool)
		semCh <- semanticOut{hits: hits, err: err}
	}()

	kw := <-kwCh
	sem := <-semCh

	if kw.err != nil {
		return nil, fmt.Errorf("keyword leg: %w", kw.err)
	}

	if sem.err != nil {
		switch {
		case errors.Is(sem.err, vectordb.ErrIndexUnavailable):
			return nil, sem.err
		case errors.Is(sem.err, embeddings.ErrUnavailable),
			errors.Is(sem.err, context.DeadlineExceeded):
			// Degrade to keyword-only; the caller sees the cause rather
			// than a result that looks fully hybrid.
			resp.Mode = ModeKeywordOnly
			resp.DegradedCause = sem.err.Error()
			sem.hits = nil
		default:
			return nil, fmt.Errorf("semantic leg: %w", sem.err)
		}
	}

	fused := e.fuse(kw.hits, sem.hits)
	if len(fused) > topK {
		fused = fused[:topK]
	}

	if err := e.annotate(ctx, vintage, fused); err != nil {
		return nil, err
	}

	resp.Results = fused
	return resp, nil
}

// fuse merges the two rankings by Reciprocal Rank Fusion:
// score(u) = 1/(K+rankKW(u)) + 1/(K+rankSem(u)), each term omitted
// when the unit is absent from that leg.
func (e *Engine) fuse(kw []corpus.KeywordHit, sem []vectordb.SearchResult) []Result {
	byID := make(map[string]*Result)

	for _, h := range kw {
		byID[h.UnitID] = &Result{
			UnitID:      h.UnitID,
			Vintage:     h.Vintage,
			Kind:        h.Kind,
			Title:       h.Title,
			Content:     h.Content,
			KeywordRank: h.Rank,
			Score:       1.0 / float64(e.rrfK+h.Rank),
		}
	}

	for _, h := range sem {
		r, ok := byID[h.Document.ID]
		if !ok {
			r = &Result{
				UnitID:  h.Document.ID,
				Vintage: h.Document.Metadata.Vintage,
				Kind:    corpus.Kind(h.Document.Metadata.Type),
				Title:   h.Document.Metadata.Title,
				Content: h.Document.Content,
				Page:    h.Document.Metadata.PageNumber,
			}
			byID[h.Document.ID] = r
		}
		r.SemanticRank = h.Rank
		r.Similarity = h.Similarity
		r.Score += 1.0 / float64(e.rrfK+h.Rank)
	}

	out := make([]Result, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		// Keyword-first tie-break, then unit ID for determinism.
		ki, kj := keywordShare(e.rrfK, out[i]), keywordShare(e.rrfK, out[j])
		if ki != kj {
			return ki > kj
		}
		return out[i].UnitID < out[j].UnitID
	})
	return out
}

// keywordShare is the keyword leg's contribution to a fused score.
func keywordShare(k int, r Result) float64 {
	if r.KeywordRank == 0 {
		return 0
	}
	return 1.0 / float64(k+r.KeywordRank)
}

// annotate resolves each surviving result against the corpus, filling
// locator and page and verifying the unit still exists. A missing unit
// aborts the query: an index pointing at absent rows means the corpus
// and index have desynced, and partial answers would mislead.
func (e *Engine) annotate(ctx context.Context, vintage string, results []Result) error {
	for i := range results {
		u, err := e.store.GetUnit(ctx, vintage, results[i].UnitID)
		if err != nil {
			return err
		}
		results[i].Locator = u.Locator
		results[i].Page = u.Page
		if results[i].Title == "" {
			results[i].Title = u.Title
		}
		if results[i].Content == "" {
			results[i].Content = u.Body
		}
	}
	return nil
}
