package graph

import (
	"context"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	apierrors "github.com/oivmap/oivmap/server/internal/errors"
)

// requiredCollections are the top-level arrays a dataset document must carry.
// A missing collection is a hard error: silently treating it as empty has
// historically masked data corruption.
var requiredCollections = []string{
	"oiv", "edges", "themes", "complexes", "strategies", "programs", "projects",
}

// Loader owns the one-shot load-then-cache lifecycle of the dataset.
//
// Concurrent callers before the first load completes share a single
// in-flight read through singleflight; nobody observes a partially loaded
// dataset. Reload swaps the cached pointer atomically.
type Loader struct {
	path string

	group singleflight.Group

	mu sync.RWMutex
	ds *Dataset
}

// NewLoader creates a loader for the dataset document at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Get returns the cached dataset, loading it on first use.
func (l *Loader) Get(ctx context.Context) (*Dataset, error) {
	l.mu.RLock()
	ds := l.ds
	l.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	v, err, _ := l.group.Do("load", func() (any, error) {
		return l.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Reload reads the document again and atomically replaces the cached
// dataset. Callers holding the previous dataset keep a consistent snapshot.
func (l *Loader) Reload(ctx context.Context) (*Dataset, error) {
	v, err, _ := l.group.Do("reload", func() (any, error) {
		return l.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

func (l *Loader) load(context.Context) (*Dataset, error) {
	buf, err := os.ReadFile(l.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset %s", l.path)
	}

	ds, err := Parse(buf)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.ds = ds
	l.mu.Unlock()
	return ds, nil
}

// Parse decodes and validates a dataset document and resolves name-based
// strategy/program/project membership into IDs.
func Parse(buf []byte) (*Dataset, error) {
	// Decode the top level first to tell a missing collection apart from an
	// empty one.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf, &raw); err != nil {
		return nil, apierrors.DataMalformed("dataset is not a JSON object", err)
	}
	for _, name := range requiredCollections {
		if _, ok := raw[name]; !ok {
			return nil, apierrors.DataMalformed("dataset is missing collection "+name, nil)
		}
	}

	var ds Dataset
	if err := json.Unmarshal(buf, &ds); err != nil {
		return nil, apierrors.DataMalformed("failed to decode dataset", err)
	}

	normalize(&ds)
	return &ds, nil
}

// normalize resolves the document's name-based membership lists against the
// dimension collections once, so the filter engine never repeats the
// name-to-id lookup.
func normalize(ds *Dataset) {
	strategyIDs := nameIndex(ds.Strategies)
	programIDs := nameIndex(ds.Programs)
	projectIDs := nameIndex(ds.Projects)

	for _, org := range ds.Organizations {
		org.StrategyIDs = resolveNames(org.Strategies, strategyIDs)
		org.ProgramIDs = resolveNames(org.Programs, programIDs)
		org.ProjectIDs = resolveNames(org.Projects, projectIDs)
	}
}

func nameIndex(dims []*Dimension) map[string]string {
	index := make(map[string]string, len(dims))
	for _, d := range dims {
		index[d.Name] = d.ID
	}
	return index
}

// resolveNames maps membership names to dimension IDs. Names without a
// matching dimension entry are dropped, mirroring how the views ignored
// them.
func resolveNames(names []string, index map[string]string) []string {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := index[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
