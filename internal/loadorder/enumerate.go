// SPDX-License-Identifier: MPL-2.0

package loadorder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/alvazir/jobasha-sub000/pkg/types"

	"github.com/remeh/sizedwaitgroup"
)

type (
	// Found is a plugin file discovered in a data root.
	Found struct {
		Root int
		Name string
		Path string
	}

	// Catalog maps case-folded plugin names to the file that wins for them.
	Catalog map[string]Found

	rootScan struct {
		found []Found
		err   error
	}
)

// EnumeratePlugins lists plugin files in every root in parallel. The result
// is sorted by (root index, name) regardless of completion order; when
// several roots hold the same name, the later root wins. Roots that cannot be
// listed are reported as *DataDirError values alongside the catalog.
func EnumeratePlugins(ctx context.Context, roots, extensions, ignored []string) (Catalog, []Found, []error) {
	exts := extensionSet(extensions)
	skip := extensionSet(ignored)

	scans := make([]rootScan, len(roots))
	wg := sizedwaitgroup.New(runtime.NumCPU())
	for i, root := range roots {
		if ctx.Err() != nil {
			scans[i].err = ctx.Err()
			continue
		}
		wg.Add()
		go func(i int, root string) {
			defer wg.Done()
			scans[i] = scanRoot(i, root, exts, skip)
		}(i, root)
	}
	wg.Wait()

	var (
		all  []Found
		errs []error
	)
	for i, s := range scans {
		if s.err != nil {
			errs = append(errs, &DataDirError{Dir: roots[i], Cause: s.err})
			continue
		}
		all = append(all, s.found...)
	}
	slices.SortStableFunc(all, func(a, b Found) int {
		if a.Root != b.Root {
			return a.Root - b.Root
		}
		return strings.Compare(a.Name, b.Name)
	})

	catalog := make(Catalog, len(all))
	for _, f := range all {
		catalog[foldName(f.Name)] = f
	}
	return catalog, all, errs
}

// Lookup returns the winning file for name.
func (c Catalog) Lookup(name string) (Found, bool) {
	f, ok := c[foldName(name)]
	return f, ok
}

func scanRoot(index int, root string, exts, skip map[string]struct{}) rootScan {
	entries, err := os.ReadDir(root)
	if err != nil {
		return rootScan{err: err}
	}
	var found []Found
	for _, e := range entries {
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := exts[ext]; !ok {
			continue
		}
		if _, ignored := skip[ext]; ignored {
			continue
		}
		path := filepath.Join(root, name)
		if !e.Type().IsRegular() {
			// Symlinked plugins are common in mod managers.
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		found = append(found, Found{Root: index, Name: name, Path: path})
	}
	return rootScan{found: found}
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = struct{}{}
	}
	return set
}

func foldName(name string) string { return types.Fold(name) }
