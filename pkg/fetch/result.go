package fetch

import "github.com/dustin/go-humanize"

// ResultKind classifies how a download ended
type ResultKind string

const (
	ResultSuccess    ResultKind = "success"
	ResultNetwork    ResultKind = "network"    // Request, response or body read failed
	ResultFilesystem ResultKind = "filesystem" // Destination could not be written
)

// Messages reported to action callers
const (
	MessageSucceeded = "Download succeded"
	MessageFailed    = "Download failed"
)

// Result is the outcome of one download
type Result struct {
	Kind  ResultKind
	URL   string
	Path  string
	Bytes int64
	Err   error
}

func (r Result) OK() bool {
	return r.Kind == ResultSuccess
}

// Size is the number of bytes received, for people
func (r Result) Size() string {
	return humanize.Bytes(uint64(r.Bytes))
}

// Message collapses the result into the message reported to the caller
func (r Result) Message() string {
	if r.OK() {
		return MessageSucceeded
	}
	return MessageFailed
}
