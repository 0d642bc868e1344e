// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"os"
	"path/filepath"
	"strings"
)

// packageMarker is the file whose presence makes a directory a
// package.
const packageMarker = "__init__.py"

// PathToModuleName converts a source file path into a dotted module
// name by walking ancestor directories for package markers. exists
// is injectable so the algorithm is testable without real files; nil
// means the real filesystem.
//
//	/proj/pkg/__init__.py  with a marker only under /proj  ->  "pkg"
//	/proj/mod.py           with no markers anywhere        ->  "mod"
func PathToModuleName(path string, exists func(string) bool) string {
	if exists == nil {
		exists = func(p string) bool {
			_, err := os.Stat(p)
			return err == nil
		}
	}
	dir, file := filepath.Split(filepath.Clean(path))
	dir = filepath.Clean(dir)

	name := strings.TrimSuffix(file, filepath.Ext(file))
	if name == strings.TrimSuffix(packageMarker, filepath.Ext(packageMarker)) {
		name = ""
	}
	for exists(filepath.Join(dir, packageMarker)) {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Filesystem root is not a package.
			break
		}
		if name == "" {
			name = filepath.Base(dir)
		} else {
			name = filepath.Base(dir) + "." + name
		}
		dir = parent
	}
	return name
}
