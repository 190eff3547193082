package mpbody

import "errors"

// Supported multipart subtypes.
const (
	FormData = "form-data"
	Mixed    = "mixed"
	Related  = "related"
)

var allowedSubtypes = map[string]bool{FormData: true, Mixed: true, Related: true}

var (
	// ErrInvalidSubtype indicates a subtype outside form-data, mixed and related,
	// or an attempt to change a subtype that is already fixed.
	ErrInvalidSubtype = errors.New("invalid multipart subtype")
	// ErrUnsupportedInSubtype indicates a part kind the current subtype does not allow.
	ErrUnsupportedInSubtype = errors.New("part not supported in subtype")
	// ErrFileNotReadable indicates a file part whose path could not be read at build time.
	ErrFileNotReadable = errors.New("file not readable")
	// ErrEmptyValue indicates an empty header name or boundary token.
	ErrEmptyValue = errors.New("empty value")
)

// Header is a single name/value pair. Order is preserved.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Kind tags the variant held by a Part.
type Kind int

const (
	KindField Kind = iota
	KindData
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindData:
		return "data"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// Part is one entry of a multipart body. Only the fields relevant to Kind are set.
type Part struct {
	Kind Kind

	Name  string // field and file
	Value string // field and data

	Path           string // file
	MIMEType       string // file
	RemoteFilename string // file
}
