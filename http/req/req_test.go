package req_test

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/req"
)

func TestParserParseBody(t *testing.T) {
	// Arrange
	parser := req.NewParser()

	var actual req.ValidationErrors

	type test struct {
		A string `json:"a,omitempty" validate:"required,nospace"`
		B int64  `json:"b" validate:"gt=10,required"`
		C struct {
			Nested bool `json:"nested" validate:"eq=true"`
		} `json:"c"`
		D string `json:"d" validate:"omitempty,url"`
		F string `json:"-"`
	}
	var input, output test

	b := new(bytes.Buffer)
	require.Nil(t, json.NewEncoder(b).Encode(input))

	// Act
	err := parser.ParseBody(b, struct{}{})

	// Assert
	require.ErrorIs(t, err, golink.ErrUnexpected)

	// Act
	err = parser.ParseBody(strings.NewReader(""), &output)

	// Assert
	require.ErrorIs(t, err, golink.ErrMissingData)

	// Arrange
	b.Reset()
	b.WriteByte('\x00')

	// Act
	err = parser.ParseBody(b, &output)

	// Assert
	require.ErrorIs(t, err, golink.ErrBadFormat)

	// Arrange
	input.A = "has space"
	input.D = "not a url"
	expected := req.ValidationErrors{
		{
			Field: "a",
			Got:   "has space",
			Rule:  "nospace; string",
		},
		{
			Field: "b",
			Got:   int64(0),
			Rule:  "gt=10; int64",
		},
		{
			Field: "c.nested",
			Got:   false,
			Rule:  "eq=true; bool",
		},
		{
			Field: "d",
			Got:   "not a url",
			Rule:  "url; string",
		},
	}

	b.Reset()
	require.Nil(t, json.NewEncoder(b).Encode(input))

	// Act
	err = parser.ParseBody(b, &output)

	// Assert
	require.ErrorIs(t, err, golink.ErrNotValid)
	require.Equal(t, input, output)
	require.ErrorAs(t, err, &actual)
	require.Equal(t, expected, actual)

	// Arrange
	input.A = " go "
	input.B = 20
	input.C.Nested = true
	input.D = "https://example.com/{}"
	input.F = "ignore"

	b.Reset()
	require.Nil(t, json.NewEncoder(b).Encode(input))

	// Act
	err = parser.ParseBody(b, &output)

	// Assert
	require.Nil(t, err)
	require.Equal(t, input.A, output.A)
	require.Equal(t, input.B, output.B)
	require.Equal(t, input.C, output.C)
	require.Equal(t, input.D, output.D)
	require.Equal(t, "", output.F)
}

func TestParserParseQueryParams(t *testing.T) {
	// Arrange
	parser := req.NewParser()
	u := make(url.Values)

	// Act
	err := parser.ParseQueryParams(u, struct{}{})

	// Assert
	require.ErrorIs(t, err, golink.ErrUnexpected)

	// Act
	err = parser.ParseQueryParams(u, new(struct {
		A string `schema:"a,required"`
	}))

	// Assert
	require.ErrorIs(t, err, golink.ErrNotImplemented)

	// Arrange
	type test struct {
		A string   `schema:"a" validate:"required"`
		B int64    `schema:"b" validate:"gt=10,required"`
		C []string `schema:"c" validate:"len=2,required"`
		D string   `schema:"-"`
	}

	u.Set("a", "test")
	u.Set("b", "test")

	var actual req.ValidationErrors
	expected := req.ValidationErrors{{
		Field: "b",
		Got:   "bad value at index 0",
		Rule:  "must be int64",
	}}

	// Act
	err = parser.ParseQueryParams(u, new(test))

	// Assert
	require.ErrorIs(t, err, golink.ErrNotValid)
	require.ErrorAs(t, err, &actual)
	require.Equal(t, expected, actual)

	// Arrange
	u.Set("b", "1")
	u.Add("c", "1")

	expected = req.ValidationErrors{
		{
			Field: "b",
			Got:   int64(1),
			Rule:  "gt=10; int64",
		},
		{
			Field: "c",
			Got:   []string{"1"},
			Rule:  "len=2; []string",
		},
	}

	// Act
	err = parser.ParseQueryParams(u, new(test))

	// Assert
	require.ErrorIs(t, err, golink.ErrNotValid)
	require.ErrorAs(t, err, &actual)
	require.Equal(t, expected, actual)

	// Arrange
	u.Set("b", "20")
	u.Add("c", "2")
	u.Set("d", "ignore")
	actualVal := new(test)

	// Act
	err = parser.ParseQueryParams(u, actualVal)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "test", actualVal.A)
	require.Equal(t, int64(20), actualVal.B)
	require.Equal(t, []string{"1", "2"}, actualVal.C)
	require.Equal(t, "", actualVal.D)
}
