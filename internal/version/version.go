// ABOUTME: Version constants for the player
// ABOUTME: Single source of truth for product identification
package version

const (
	// Version is the software version, overridden at release time.
	Version = "0.1.0"

	// Product is the product name reported on startup.
	Product = "Playhead"

	// Manufacturer identifies the vendor.
	Manufacturer = "Playhead Media"
)
