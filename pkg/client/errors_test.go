package client

import (
	"errors"
	"testing"

	"github.com/Sternrassler/bgg-client/pkg/model"
	"github.com/Sternrassler/bgg-client/pkg/xmlapi"
)

func TestParseError_Error(t *testing.T) {
	err := &ParseError{
		Operation: xmlapi.OpThing,
		Payload:   []byte("<items>"),
		Err:       errors.New("unexpected EOF"),
	}

	expected := "parse thing response (7 bytes): unexpected EOF"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestParseError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &ParseError{Operation: xmlapi.OpUser, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}

	var perr *ParseError
	if !errors.As(error(err), &perr) {
		t.Error("errors.As should extract *ParseError")
	}
}

func TestParse_MapsParserErrors(t *testing.T) {
	tests := []struct {
		name      string
		parserErr error
		check     func(t *testing.T, err error)
	}{
		{
			name:      "unknown entity",
			parserErr: xmlapi.ErrNotFound,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound, got %v", err)
				}
			},
		},
		{
			name:      "api error",
			parserErr: &xmlapi.APIError{Message: "Invalid subtype"},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("expected ErrInvalidRequest, got %v", err)
				}
			},
		},
		{
			name:      "malformed payload",
			parserErr: errors.New("xml syntax error"),
			check: func(t *testing.T, err error) {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("expected *ParseError, got %v", err)
				}
				if string(perr.Payload) != "payload" {
					t.Errorf("Payload = %q", perr.Payload)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(xmlapi.OpCollection, []byte("payload"), func([]byte) (*model.Collection, error) {
				return nil, tt.parserErr
			})
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestInvalidArgument(t *testing.T) {
	err := invalidArgument("game id must be positive (got %d)", -3)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err.Error() != "invalid argument: game id must be positive (got -3)" {
		t.Errorf("Error() = %q", err.Error())
	}
}
