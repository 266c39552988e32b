// Package media implements the pixel-level collaborators: decoding with
// failure classification, resizing and rotation kernels, EXIF orientation
// transforms, encoding, and an optional libvips fast path.
package media
