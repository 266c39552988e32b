// Package catalog decides which files in a directory are displayable images
// and maintains the ordered listing the viewer navigates over.
//
// The filter policy (IsCandidate, FilterList) is a pure function over the
// filename and optional keyword sets. DirectoryIndex applies it to a real
// directory enumeration and supports position lookups and neighbor
// resolution for next/previous navigation.
package catalog
