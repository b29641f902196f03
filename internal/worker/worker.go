// Package worker is the request/response façade of the diff worker: a
// registry of document mirrors keyed by URI, plus the operations the host
// editor invokes against them. The host serializes calls, so the worker
// holds no locks; every entry point runs to completion synchronously.
package worker

import (
	"time"

	"nbdiff/internal/celldiff"
	"nbdiff/internal/config"
	"nbdiff/internal/errors"
	"nbdiff/internal/logging"
	"nbdiff/internal/notebook"
	"nbdiff/internal/recommend"
	"nbdiff/internal/store"
	"nbdiff/internal/textdiff"
)

// Worker owns the mirror registry. Construct one per worker lifetime; there
// is deliberately no process-wide instance, so test runs stay isolated.
type Worker struct {
	logger       *logging.Logger
	rules        *recommend.Ruleset
	maxScanLines int
	maxCells     int
	db           *store.DB // nil when the snapshot store is disabled
	mirrors      map[string]*notebook.Document
}

// New creates a worker. db may be nil.
func New(cfg *config.Config, rules *recommend.Ruleset, db *store.DB, logger *logging.Logger) *Worker {
	if rules == nil {
		rules = recommend.DefaultRuleset()
	}
	return &Worker{
		logger:       logger,
		rules:        rules,
		maxScanLines: cfg.Scan.MaxLines,
		maxCells:     cfg.Limits.MaxCells,
		db:           db,
		mirrors:      make(map[string]*notebook.Document),
	}
}

// AcceptNewModel creates or overwrites the mirror for uri from a full
// snapshot. Registering and immediately removing a URI is allowed churn.
func (w *Worker) AcceptNewModel(uri string, cells []notebook.CellDto, metadata map[string]interface{}) error {
	if len(cells) > w.maxCells {
		return errors.Newf(errors.InvalidParams, "document %s has %d cells, limit is %d", uri, len(cells), w.maxCells)
	}

	w.mirrors[uri] = notebook.NewDocument(uri, cells, metadata)
	w.logger.Debug("Registered mirror", map[string]interface{}{
		"uri":   uri,
		"cells": len(cells),
	})

	if w.db != nil {
		if _, err := w.db.SaveSnapshot(uri, cells, metadata); err != nil {
			// The store is an audit convenience; registration already
			// succeeded, so the failure is logged and swallowed.
			w.logger.Warn("Failed to persist snapshot", map[string]interface{}{
				"uri":   uri,
				"error": err.Error(),
			})
		}
	}
	return nil
}

// AcceptModelChanged applies one ordered change event to the mirror for
// uri. A missing mirror is a benign race with removal and the event is
// silently dropped; a bad index inside the event is a desynchronization
// fault, surfaced with the mirror left unchanged.
func (w *Worker) AcceptModelChanged(uri string, ev *notebook.ChangeEvent) error {
	doc, ok := w.mirrors[uri]
	if !ok {
		w.logger.Debug("Dropping change for unknown mirror", map[string]interface{}{
			"uri":  uri,
			"kind": string(ev.Kind),
		})
		return nil
	}
	return doc.ApplyChange(ev)
}

// AcceptRemovedModel deletes the mirror for uri; no-op if absent.
func (w *Worker) AcceptRemovedModel(uri string) {
	delete(w.mirrors, uri)
}

// ComputeDiff aligns the two mirrors' fingerprint sequences and returns the
// edit script. A missing mirror here is a caller contract violation, not a
// removable race: returning an empty diff would mask desynchronization.
func (w *Worker) ComputeDiff(originalURI, modifiedURI string) (*celldiff.Result, error) {
	original, ok := w.mirrors[originalURI]
	if !ok {
		return nil, errors.NewMirrorMissing(originalURI)
	}
	modified, ok := w.mirrors[modifiedURI]
	if !ok {
		return nil, errors.NewMirrorMissing(modifiedURI)
	}

	start := time.Now()
	result := celldiff.Compute(celldiff.FromDocument(original), celldiff.FromDocument(modified))
	elapsed := time.Since(start)

	w.logger.Debug("Computed diff", map[string]interface{}{
		"original":    originalURI,
		"modified":    modifiedURI,
		"changes":     len(result.Changes),
		"moves":       len(result.Moves),
		"duration_us": elapsed.Microseconds(),
	})

	if w.db != nil {
		if err := w.db.RecordDiff(originalURI, modifiedURI, len(result.Changes), len(result.Moves), elapsed); err != nil {
			w.logger.Warn("Failed to record diff audit", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return result, nil
}

// CanPromptRecommendation scans the leading lines of the document's code
// cells against the recommendation ruleset. Advisory only: an absent mirror
// or a cell past the line cap simply reports false.
func (w *Worker) CanPromptRecommendation(uri string) bool {
	doc, ok := w.mirrors[uri]
	if !ok {
		return false
	}
	return w.rules.Match(doc, w.maxScanLines)
}

// CellTextDiff returns a unified line diff of one cell's text between two
// mirrors, addressed by the cell's stable handle.
func (w *Worker) CellTextDiff(originalURI, modifiedURI string, handle int64) (string, error) {
	original, ok := w.mirrors[originalURI]
	if !ok {
		return "", errors.NewMirrorMissing(originalURI)
	}
	modified, ok := w.mirrors[modifiedURI]
	if !ok {
		return "", errors.NewMirrorMissing(modifiedURI)
	}

	from := original.CellByHandle(handle)
	if from == nil {
		return "", errors.Newf(errors.CellNotFound, "cell %d not found in %s", handle, originalURI)
	}
	to := modified.CellByHandle(handle)
	if to == nil {
		return "", errors.Newf(errors.CellNotFound, "cell %d not found in %s", handle, modifiedURI)
	}

	patch, err := textdiff.Unified(originalURI, modifiedURI, from.Value(), to.Value(), textdiff.Options{})
	if err != nil {
		return "", errors.New(errors.InternalError, "failed to compute cell text diff", err)
	}
	return patch, nil
}

// HasMirror reports whether a mirror is registered for uri.
func (w *Worker) HasMirror(uri string) bool {
	_, ok := w.mirrors[uri]
	return ok
}

// MirrorLen returns the cell count of the mirror for uri, or -1 if absent.
func (w *Worker) MirrorLen(uri string) int {
	doc, ok := w.mirrors[uri]
	if !ok {
		return -1
	}
	return doc.Len()
}
