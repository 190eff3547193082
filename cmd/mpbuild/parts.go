package main

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/emurenMRz/mpbody/internal/mpbody"
)

// partList collects -field, -data and -file flags in command-line order.
type partList []mpbody.Part

func (l *partList) field(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	*l = append(*l, mpbody.Part{Kind: mpbody.KindField, Name: name, Value: value})
	return nil
}

func (l *partList) data(s string) error {
	*l = append(*l, mpbody.Part{Kind: mpbody.KindData, Value: s})
	return nil
}

// file parses name=path[;mime[;remote]]. The MIME type defaults to one
// derived from the extension and the remote name to the base name.
func (l *partList) file(s string) error {
	name, rest, ok := strings.Cut(s, "=")
	if !ok || name == "" || rest == "" {
		return fmt.Errorf("expected name=path[;mime[;remote]], got %q", s)
	}
	fields := strings.SplitN(rest, ";", 3)
	p := mpbody.Part{Kind: mpbody.KindFile, Name: name, Path: fields[0]}
	if len(fields) > 1 {
		p.MIMEType = fields[1]
	}
	if len(fields) > 2 {
		p.RemoteFilename = fields[2]
	}
	if p.MIMEType == "" {
		p.MIMEType = mime.TypeByExtension(filepath.Ext(p.Path))
	}
	if p.MIMEType == "" {
		p.MIMEType = "application/octet-stream"
	}
	if p.RemoteFilename == "" {
		p.RemoteFilename = filepath.Base(p.Path)
	}
	*l = append(*l, p)
	return nil
}

type headerList []mpbody.Header

func (l *headerList) add(s string) error {
	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("expected Name: value, got %q", s)
	}
	*l = append(*l, mpbody.Header{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	return nil
}

func newMessage(subtype, boundary string, headers headerList, parts partList) (*mpbody.Message, error) {
	m, err := mpbody.NewWithType(subtype)
	if err != nil {
		return nil, err
	}
	if boundary != "" {
		if err := m.SetBoundary(boundary); err != nil {
			return nil, err
		}
	}
	for _, h := range headers {
		if err := m.AddHeader(h.Name, h.Value); err != nil {
			return nil, err
		}
	}
	for _, p := range parts {
		switch p.Kind {
		case mpbody.KindField:
			if err := m.AddField(p.Name, p.Value); err != nil {
				return nil, err
			}
		case mpbody.KindData:
			m.AddData(p.Value)
		case mpbody.KindFile:
			m.AddFile(p.Name, p.Path, p.MIMEType, p.RemoteFilename)
		}
	}
	return m, nil
}
