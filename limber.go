// Package limber holds the embedded static assets shared by the binaries.
package limber

import "embed"

// Assets contains the stretch catalog shipped with the binaries.
// Load it with catalog.Load(limber.DefaultCatalog()).
//
//go:embed assets/stretches.yaml
var Assets embed.FS

// DefaultCatalog returns the embedded catalog file contents.
func DefaultCatalog() []byte {
	data, err := Assets.ReadFile("assets/stretches.yaml")
	if err != nil {
		// The asset is compiled in; a read failure is a build defect.
		panic("embedded catalog missing: " + err.Error())
	}
	return data
}
