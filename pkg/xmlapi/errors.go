package xmlapi

import (
	"fmt"
	"strings"
)

type xmlError struct {
	MessageAttr string `xml:"message,attr"`
	Message     string `xml:"message"`
	Text        string `xml:",chardata"`
}

func (e xmlError) text() string {
	for _, s := range []string{e.Message, e.MessageAttr, e.Text} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

type xmlErrors struct {
	Errors []xmlError `xml:"error"`
}

// unexpectedRoot turns an error document (or anything that is not the
// expected root) into an error value.
func unexpectedRoot(data []byte, root string) error {
	var msg string
	switch root {
	case "errors":
		var doc xmlErrors
		if err := decode(data, &doc); err != nil {
			return err
		}
		for _, e := range doc.Errors {
			if msg = e.text(); msg != "" {
				break
			}
		}
	case "error", "message":
		var doc xmlError
		if err := decode(data, &doc); err != nil {
			return err
		}
		msg = doc.text()
	case "div":
		// plays answers unknown users and items with an HTML message box
		return fmt.Errorf("%w: unknown user or item", ErrNotFound)
	default:
		return fmt.Errorf("unexpected root element <%s>", root)
	}

	if isNotFoundMessage(msg) {
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return &APIError{Message: msg}
}

func isNotFoundMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "invalid username") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "invalid object")
}
