package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/golink"
)

// A Parser decodes request payloads into structs and validates them.
type Parser struct {
	decoder *schema.Decoder
	validator
}

// NewParser constructs a *Parser.
func NewParser() *Parser {
	return &Parser{
		decoder:   newQueryParamDecoder(),
		validator: newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in body.
// If successful, ParseBody runs validation against the contents,
// returning ValidationErrors, which wrap golink.ErrNotValid, if the data fails validation rules.
//
// ParseBody reads the entire body and it can't be read from again.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	if !isStructPtr(structPtr) {
		return fmt.Errorf("golink/http/req: %w: ParseBody called with %T, not a pointer to a struct", golink.ErrUnexpected, structPtr)
	}

	err := json.NewDecoder(body).Decode(structPtr)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("golink/http/req: %w: empty request body", golink.ErrMissingData)
	}

	if err != nil {
		return fmt.Errorf("golink/http/req: %w: failed decoding request body: %s", golink.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("golink/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseQueryParams decodes into a pointer to a struct the query param data in params.
// If successful, ParseQueryParams runs validation against the contents,
// returning ValidationErrors, which wrap golink.ErrNotValid, if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if !isStructPtr(structPtr) {
		return fmt.Errorf("golink/http/req: %w: ParseQueryParams called with %T, not a pointer to a struct", golink.ErrUnexpected, structPtr)
	}

	if err := p.decoder.Decode(structPtr, params); err != nil {
		return fmt.Errorf("golink/http/req: failed decoding request query params: %w", translateDecoderError(err))
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("golink/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

func isStructPtr(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct
}
