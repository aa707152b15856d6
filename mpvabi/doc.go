// Package mpvabi checks the computed structure layouts against the installed
// libmpv headers and releases node trees that libmpv allocated.
//
// The package needs cgo and libmpv development files and is only built with
// the mpv build tag:
//
//	go test -tags mpv ./mpvabi/
package mpvabi
