package recording

import (
	"fmt"
	"time"
)

// Info is the metadata row for one recording.
type Info struct {
	// ID is the store-assigned primary key (_id).
	ID int64 `json:"id" yaml:"id"`

	// Name is the display name shown in the recordings list.
	Name string `json:"name" yaml:"name"`

	// Path is the location of the audio file on disk.
	Path string `json:"path" yaml:"path"`

	// Length is the recording duration in milliseconds.
	Length int64 `json:"length" yaml:"length"`

	// CreatedTime is the insert time in milliseconds since the Unix epoch.
	CreatedTime int64 `json:"created_time" yaml:"created_time"`
}

// Duration returns Length as a time.Duration.
func (i Info) Duration() time.Duration {
	return time.Duration(i.Length) * time.Millisecond
}

// Created returns CreatedTime as a UTC time.Time.
func (i Info) Created() time.Time {
	return time.UnixMilli(i.CreatedTime).UTC()
}

// String renders the info for log lines and text CLI output.
func (i Info) String() string {
	return fmt.Sprintf("#%d %s (%s) %s", i.ID, i.Name, i.Duration(), i.Path)
}
