// ABOUTME: Build identity constants
// ABOUTME: Product and version strings reported to devices
package version

const (
	// Version is the client library version.
	Version = "0.1.0"

	// Product is the client name reported in the status handshake.
	Product = "Visor Realtime Client"

	// Manufacturer identifies the vendor.
	Manufacturer = "Visor Labs"
)
