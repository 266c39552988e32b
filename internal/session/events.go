package session

import (
	"time"

	"image-viewer/internal/catalog"
)

// EventKind identifies what a display-layer Event carries.
type EventKind int

const (
	// ImageUpdated means the current image buffer changed and should
	// be redrawn. A zero File means the view is now empty.
	ImageUpdated EventKind = iota
	// ThumbnailUpdated means one file's thumbnail finished decoding.
	ThumbnailUpdated
	// InfoMessage is a transient user-visible notice.
	InfoMessage
	// DelayedInfoMessage is an InfoMessage the display shows only if
	// Delay elapses first; an empty Message cancels a pending one.
	DelayedInfoMessage
	// FileUpdated means the current file reference or its size changed.
	FileUpdated
	// DirectoryUpdated means the directory index was rebuilt.
	DirectoryUpdated
	// ErrorDialog asks the display to surface a modal error.
	ErrorDialog
	// FileNotLoaded means a load target could not be displayed.
	FileNotLoaded
)

func (k EventKind) String() string {
	switch k {
	case ImageUpdated:
		return "image-updated"
	case ThumbnailUpdated:
		return "thumbnail-updated"
	case InfoMessage:
		return "info-message"
	case DelayedInfoMessage:
		return "delayed-info-message"
	case FileUpdated:
		return "file-updated"
	case DirectoryUpdated:
		return "directory-updated"
	case ErrorDialog:
		return "error-dialog"
	case FileNotLoaded:
		return "file-not-loaded"
	default:
		return "unknown"
	}
}

// Position hints where the display should place a transient notice.
type Position int

const (
	// PositionCenter overlays the notice on the image area.
	PositionCenter Position = iota
	// PositionBottomLeft puts the notice in the status corner.
	PositionBottomLeft
	// PositionTopLeft puts the notice by the file header.
	PositionTopLeft
)

func (p Position) String() string {
	switch p {
	case PositionBottomLeft:
		return "bottom-left"
	case PositionTopLeft:
		return "top-left"
	default:
		return "center"
	}
}

// Event is one notification to the display layer. Fields beyond Kind
// are populated as the kind requires: Position places InfoMessage and
// DelayedInfoMessage notices, Force marks a DirectoryUpdated the
// watcher triggered rather than the user.
type Event struct {
	Kind     EventKind
	File     catalog.FileRef
	Message  string
	Title    string
	Position Position
	Duration time.Duration
	Delay    time.Duration
	Size     int64
	Force    bool
}

// Notify says whether an operation's failures and informational
// outcomes should be surfaced to the user, or only logged and counted.
// Passing it explicitly keeps the intent readable at call sites.
type Notify struct {
	NotifyUser bool
}

var (
	// Interactive surfaces informational and error outcomes to the user.
	Interactive = Notify{NotifyUser: true}
	// Silent logs outcomes without user-facing messages.
	Silent = Notify{}
)
