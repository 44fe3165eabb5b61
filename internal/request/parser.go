// Package request parses the secret-path specification into structured
// item requests.
//
// Each non-blank line of the specification names one item to load:
//
//	<vault>/<item>[/<field>] [<outputName>[!]]
//
// Without a field segment every non-empty field of the item is published,
// each under "<outputName>_<label>". With a field segment only the first
// field whose label matches exactly is published. A trailing '!' on the last
// token suppresses the per-field suffix so the output name is used verbatim;
// it is only valid together with an explicit field.
package request

import (
	"strings"

	acterrors "github.com/chriswardell-glean/1password-actions/internal/errors"
)

// ItemRequest is one parsed line of the secret-path specification.
type ItemRequest struct {
	// Vault is the display name of the vault holding the item.
	Vault string

	// Name is the item title.
	Name string

	// Field is the exact label of the field to publish. Empty means every
	// non-empty field of the item is published.
	Field string

	// OutputName is the base name for published outputs. Derived from the
	// item name unless the line carries an explicit name token.
	OutputName string

	// OutputOverridden suppresses the per-field suffix so OutputName is
	// used verbatim. Only meaningful when Field is set.
	OutputOverridden bool
}

// SpecLine renders the request back to its canonical specification line.
func (r ItemRequest) SpecLine() string {
	var b strings.Builder
	b.WriteString(r.Vault)
	b.WriteByte('/')
	b.WriteString(r.Name)
	if r.Field != "" {
		b.WriteByte('/')
		b.WriteString(r.Field)
	}
	b.WriteByte(' ')
	b.WriteString(r.OutputName)
	if r.OutputOverridden {
		b.WriteByte('!')
	}
	return b.String()
}

// Parse decomposes the raw secret-path specification into an ordered list of
// item requests. The returned order equals line order in the input and is
// the contract for output-emission order downstream.
func Parse(spec string) ([]ItemRequest, error) {
	var requests []ItemRequest

	for _, line := range strings.Split(spec, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		req, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// parseLine decomposes a single non-blank specification line.
func parseLine(line string) (ItemRequest, error) {
	tokens := strings.Fields(line)
	if len(tokens) > 2 {
		return ItemRequest{}, acterrors.MalformedRequestError{
			Line:    line,
			Message: "expected '<vault>/<item>[/<field>] [<outputName>[!]]'",
		}
	}

	// The override marker sits on the last token of the line, whether that
	// token is the path or an explicit output name.
	overridden := false
	last := len(tokens) - 1
	if strings.HasSuffix(tokens[last], "!") {
		overridden = true
		tokens[last] = strings.TrimSuffix(tokens[last], "!")
	}

	segments := strings.Split(tokens[0], "/")
	if len(segments) < 2 || len(segments) > 3 {
		return ItemRequest{}, acterrors.MalformedRequestError{
			Line:    line,
			Message: "path must have two or three '/'-separated segments",
		}
	}
	for _, seg := range segments {
		if seg == "" {
			return ItemRequest{}, acterrors.MalformedRequestError{
				Line:    line,
				Message: "path segments must be non-empty",
			}
		}
	}

	req := ItemRequest{
		Vault:            segments[0],
		Name:             segments[1],
		OutputName:       defaultOutputName(segments[1]),
		OutputOverridden: overridden,
	}
	if len(segments) == 3 {
		req.Field = segments[2]
	}

	if len(tokens) == 2 {
		if tokens[1] == "" {
			return ItemRequest{}, acterrors.MalformedRequestError{
				Line:    line,
				Message: "output name must not be empty",
			}
		}
		req.OutputName = tokens[1]
	}

	// A verbatim output name with no field to bind it to is ambiguous.
	if req.OutputOverridden && req.Field == "" {
		return ItemRequest{}, acterrors.MalformedRequestError{
			Line:    line,
			Message: "'!' requires an explicit field segment",
		}
	}

	return req, nil
}

// defaultOutputName derives the base output name from an item title:
// lower-cased, with every non-alphanumeric byte replaced by '_'.
func defaultOutputName(item string) string {
	name := strings.ToLower(item)
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, name)
}
