// Package imagetypes defines the supported-image-format registry: which file
// extensions the viewer can decode, which it can encode, and their MIME types.
package imagetypes
