// Package timesteps turns a WMS capabilities document into the ordered list of
// time slices an overlay can be stepped through.
package timesteps

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

const capabilitiesQuery = "service=WMS&version=1.3.0&request=GetCapabilities"

// first matching element wins, regardless of the document's namespace
const timeDimensionXPath = "//*[local-name()='Dimension'][@name='time']"

// Sequence is an ordered list of ISO 8601 timestamps. Entries are opaque
// ordering keys and are never validated.
type Sequence []string

func (s Sequence) Len() int { return len(s) }

// At returns the timestamp at i, or false when i is out of range.
func (s Sequence) At(i int) (string, bool) {
	if i < 0 || i >= len(s) {
		return "", false
	}
	return s[i], true
}

// Reversed returns a copy of s in reverse order.
func (s Sequence) Reversed() Sequence {
	out := make(Sequence, len(s))
	for i, ts := range s {
		out[len(s)-1-i] = ts
	}
	return out
}

// Parse extracts the time dimension from a capabilities document. A missing
// dimension or an unreadable document yields an empty sequence.
func Parse(r io.Reader) Sequence {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return Sequence{}
	}

	node, err := xmlquery.Query(doc, timeDimensionXPath)
	if err != nil || node == nil {
		return Sequence{}
	}

	return Split(node.InnerText())
}

// Split breaks a comma separated dimension value into a sequence.
func Split(value string) Sequence {
	seq := Sequence{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		seq = append(seq, part)
	}
	return seq
}

// CapabilitiesURL appends the GetCapabilities query to a WMS base URL. Base
// URLs conventionally end in "?".
func CapabilitiesURL(base string) string {
	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		return base + capabilitiesQuery
	case strings.Contains(base, "?"):
		return base + "&" + capabilitiesQuery
	default:
		return base + "?" + capabilitiesQuery
	}
}

type getter interface {
	Get(ctx context.Context, url, accept string) ([]byte, error)
}

// Registry fetches capabilities documents for overlays.
type Registry struct {
	client getter
}

func NewRegistry(client getter) *Registry {
	return &Registry{client: client}
}

// Fetch requests the capabilities document of the WMS service at baseURL and
// returns its time sequence. Transport and status failures are returned so the
// caller can log them before falling back to an empty sequence.
func (r *Registry) Fetch(ctx context.Context, baseURL string) (Sequence, error) {
	body, err := r.client.Get(ctx, CapabilitiesURL(baseURL), "application/xml, text/xml")
	if err != nil {
		return Sequence{}, fmt.Errorf("failed to fetch capabilities: %w", err)
	}
	return Parse(bytes.NewReader(body)), nil
}
