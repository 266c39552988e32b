// Package logging provides leveled logging for the image viewer.
//
// The level is taken from the DEBUG and LOG_LEVEL environment variables the
// first time a message is logged, and can be overridden with SetLevel.
package logging
