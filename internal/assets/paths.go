// Package assets manages the on-disk layout for uploaded product images and
// their resized derivatives. Originals get a random 128-bit filename so
// concurrent uploads never collide; derivative names are a pure function of
// the original's basename, so readers can recompute them without any
// database round trip.
package assets

import (
	"path"
	"path/filepath"
)

// Class describes one derivative size: where its files live, how they are
// prefixed, and the maximum box (width and height) a derivative may occupy.
type Class struct {
	Name   string
	Dir    string
	Prefix string
	Box    int
}

// The three derivative classes. Dir and Prefix are the wire-visible path
// convention; changing them orphans every previously generated file.
var (
	ClassThumbnail     = Class{Name: "thumbnail", Dir: "thumbnails", Prefix: "thumbnail", Box: 100}
	ClassThumbnail400  = Class{Name: "thumbnail400", Dir: "thumbnail400", Prefix: "thumbnail400", Box: 400}
	ClassThumbnail1200 = Class{Name: "thumbnail1200", Dir: "thumbnail1200", Prefix: "thumbnail1200", Box: 1200}
)

// Classes lists all derivative classes in ascending box size.
var Classes = []Class{ClassThumbnail, ClassThumbnail400, ClassThumbnail1200}

// originalsDir is the subdirectory under the root holding uploaded originals.
const originalsDir = "originals"

// DerivativePath returns the derivative location for an original, using
// forward slashes regardless of platform:
//
//	<root>/<class-dir>/<class-prefix>_<basename(original)>
func (s *Store) DerivativePath(c Class, originalPath string) string {
	base := path.Base(filepath.ToSlash(originalPath))
	return path.Join(filepath.ToSlash(s.root), c.Dir, c.Prefix+"_"+base)
}
