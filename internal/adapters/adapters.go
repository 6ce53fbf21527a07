// Package adapters registers converters for third party geometry libraries so
// their values can be used anywhere a coordinate source is accepted.
package adapters

import "github.com/woozymasta/simplemap/internal/coords"

// Register installs every adapter of this package into reg.
func Register(reg *coords.Registry) {
	RegisterOrb(reg)
	RegisterS2(reg)
	RegisterGeoJSON(reg)
}
