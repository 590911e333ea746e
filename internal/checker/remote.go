package checker

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/wpsix/breakdance-icon-fix/internal/host"
)

//go:embed remote_schema.json
var remoteSchemaJSON string

const remoteSchemaURL = "mem://bif-updater/remote_schema.json"

var (
	ErrMalformedPayload = errors.New("malformed update metadata")

	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// RemoteInfo is the normalized metadata served by the update server.
type RemoteInfo struct {
	Version       string        `json:"version"`
	Name          string        `json:"name"`
	Author        string        `json:"author"`
	AuthorProfile string        `json:"author_profile"`
	Homepage      string        `json:"homepage"`
	DownloadURL   string        `json:"download_url"`
	Tested        string        `json:"tested"`
	Requires      string        `json:"requires"`
	RequiresPHP   string        `json:"requires_php"`
	Sections      host.Sections `json:"sections"`
	Banners       host.Banners  `json:"banners"`
}

// flexString accepts a JSON string, number or null. Update servers are known
// to emit "tested": 6.4 as a number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", b)
		}
		*f = flexString(n.String())
	}
	return nil
}

type wirePayload struct {
	Version       flexString `json:"version"`
	Name          flexString `json:"name"`
	Author        flexString `json:"author"`
	AuthorProfile flexString `json:"author_profile"`
	Homepage      flexString `json:"homepage"`
	DownloadURL   flexString `json:"download_url"`
	Tested        flexString `json:"tested"`
	Requires      flexString `json:"requires"`
	RequiresPHP   flexString `json:"requires_php"`
	Sections      *struct {
		Description flexString `json:"description"`
		Changelog   flexString `json:"changelog"`
	} `json:"sections"`
	Banners *struct {
		High flexString `json:"high"`
		Low  flexString `json:"low"`
	} `json:"banners"`
}

func remoteSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(remoteSchemaURL, remoteSchemaJSON)
	})
	return schema, schemaErr
}

// DecodeRemoteInfo validates body against the metadata schema and returns a
// fully built record. Anything short of an object with a non-empty version is
// rejected, so callers never see a partial record.
func DecodeRemoteInfo(body []byte) (*RemoteInfo, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	sch, err := remoteSchema()
	if err != nil {
		return nil, fmt.Errorf("compile metadata schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var wire wirePayload
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	info := &RemoteInfo{
		Version:       strings.TrimSpace(string(wire.Version)),
		Name:          string(wire.Name),
		Author:        string(wire.Author),
		AuthorProfile: string(wire.AuthorProfile),
		Homepage:      string(wire.Homepage),
		DownloadURL:   string(wire.DownloadURL),
		Tested:        string(wire.Tested),
		Requires:      string(wire.Requires),
		RequiresPHP:   string(wire.RequiresPHP),
	}
	if wire.Sections != nil {
		info.Sections = host.Sections{
			Description: string(wire.Sections.Description),
			Changelog:   string(wire.Sections.Changelog),
		}
	}
	if wire.Banners != nil {
		info.Banners = host.Banners{
			High: string(wire.Banners.High),
			Low:  string(wire.Banners.Low),
		}
	}

	if info.Version == "" {
		return nil, fmt.Errorf("%w: empty version", ErrMalformedPayload)
	}
	return info, nil
}
