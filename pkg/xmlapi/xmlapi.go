// Package xmlapi decodes BoardGameGeek XML API v2 payloads into model types.
//
// Payloads that are well-formed but describe a missing entity (an empty
// <items> list, an "Invalid username" error, a guild without a name, a plays
// document without a total) yield ErrNotFound. Anything that cannot be
// decoded yields a plain error for the caller to wrap.
package xmlapi

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

// Operation names a remote API operation; it selects the decoder in Parse.
type Operation string

const (
	OpThing      Operation = "thing"
	OpSearch     Operation = "search"
	OpCollection Operation = "collection"
	OpGuild      Operation = "guild"
	OpUser       Operation = "user"
	OpPlays      Operation = "plays"
	OpHot        Operation = "hot"
)

// ErrNotFound reports a payload that signals an unknown entity.
var ErrNotFound = errors.New("entity not found")

// APIError is an error message the API returned inside an otherwise valid payload.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "bgg api error: " + e.Message
}

// Parse decodes data according to op and returns the matching model value:
// []model.Game, []model.SearchResult, *model.Collection, *model.Guild,
// *model.User, *model.Plays or []model.HotItem.
func Parse(op Operation, data []byte) (any, error) {
	switch op {
	case OpThing:
		return ParseGames(data)
	case OpSearch:
		return ParseSearch(data)
	case OpCollection:
		return ParseCollection(data)
	case OpGuild:
		return ParseGuild(data)
	case OpUser:
		return ParseUser(data)
	case OpPlays:
		return ParsePlays(data)
	case OpHot:
		return ParseHotItems(data)
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

// rootElement returns the local name of the document element.
func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", errors.New("empty document")
		}
		if err != nil {
			return "", fmt.Errorf("decode xml: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

func decode(data []byte, v any) error {
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode xml: %w", err)
	}
	return nil
}

// valueAttr is the <element value="..."/> shape used throughout the API.
type valueAttr struct {
	Value string `xml:"value,attr"`
}

func (v valueAttr) Int() int       { return atoi(v.Value) }
func (v valueAttr) Float() float64 { return atof(v.Value) }
func (v valueAttr) String() string { return strings.TrimSpace(v.Value) }

// atoi converts optional numeric fields; blanks and garbage read as zero.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// requiredID converts an identifier attribute that must be present.
func requiredID(kind, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid id %q", kind, s)
	}
	return n, nil
}

func flag(s string) bool {
	return strings.TrimSpace(s) == "1"
}

func text(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
