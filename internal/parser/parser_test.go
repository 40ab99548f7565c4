package parser

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	stderrors "errors"

	"github.com/mcncl/jsonenv/internal/errors"
	"github.com/mcncl/jsonenv/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`

	value, err := Parse(strings.NewReader(jsonStr))
	require.NoError(t, err)

	expected := models.Object{
		models.Field("name", models.Str("John Doe")),
		models.Field("age", models.Int(30)),
		models.Field("isStudent", models.Boolean(false)),
		models.Field("city", models.NullValue()),
	}
	assert.Equal(t, expected, value)
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	value, err := ParseString(`{"zebra": 1, "apple": 2, "mango": {"y": 1, "b": 2}}`)
	require.NoError(t, err)

	obj, ok := value.(models.Object)
	require.True(t, ok, "root is %T", value)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, obj.Keys())

	inner, ok := obj.Get("mango")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, inner.(models.Object).Keys())
}

func TestParse_DuplicateKeysKept(t *testing.T) {
	value, err := ParseString(`{"k": 1, "k": 2}`)
	require.NoError(t, err)

	assert.Equal(t, models.Object{
		models.Field("k", models.Int(1)),
		models.Field("k", models.Int(2)),
	}, value)
}

func TestParse_SimpleArray(t *testing.T) {
	value, err := ParseString(`[1, "test", true, null, 3.14, [], {}]`)
	require.NoError(t, err)

	expected := models.Array{
		models.Int(1),
		models.Str("test"),
		models.Boolean(true),
		models.NullValue(),
		models.Float(3.14),
		models.Array{},
		models.Object{},
	}
	assert.Equal(t, expected, value)
}

func TestParse_Numbers(t *testing.T) {
	tests := []struct {
		input    string
		expected models.Value
	}{
		{input: "0", expected: models.Int(0)},
		{input: "-9223372036854775808", expected: models.Int(math.MinInt64)},
		{input: "18446744073709551615", expected: models.Uint(math.MaxUint64)},
		{input: "18446744073709551616", expected: models.Float(18446744073709551616)},
		{input: "1e3", expected: models.Float(1000)},
		{input: "-0.5", expected: models.Float(-0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestParse_NumberOutOfRange(t *testing.T) {
	_, err := ParseString(`{"big": 1e400}`)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidJSON))
}

func TestParse_StringEscapes(t *testing.T) {
	value, err := ParseString(`"line\nbreak \"q\" é 😀"`)
	require.NoError(t, err)
	assert.Equal(t, models.Str("line\nbreak \"q\" é 😀"), value)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "whitespace only", input: "   \n\t ", expected: errors.ErrEmptyInput},
		{name: "syntax error", input: `{"name": }`, expected: errors.ErrInvalidJSON},
		{name: "truncated", input: `{"name": "x"`, expected: errors.ErrInvalidJSON},
		{name: "trailing garbage", input: `{"a": 1}]`, expected: errors.ErrInvalidJSON},
		{name: "multiple values", input: `{"a": 1} {"b": 2}`, expected: errors.ErrMultipleJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestParse_TrailingWhitespaceAllowed(t *testing.T) {
	value, err := ParseString("{\"a\": true}\n\n  ")
	require.NoError(t, err)
	assert.Equal(t, models.Object{models.Field("a", models.Boolean(true))}, value)
}

func TestParseString_Empty(t *testing.T) {
	_, err := ParseString("")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEmptyInput))
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeInput}))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	validPath := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(validPath, []byte(`{"id": 1}`), 0644))
	value, err := ParseFile(validPath)
	require.NoError(t, err)
	assert.Equal(t, models.Object{models.Field("id", models.Int(1))}, value)

	emptyPath := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0644))
	_, err = ParseFile(emptyPath)
	assert.True(t, stderrors.Is(err, errors.ErrFileEmpty))

	_, err = ParseFile(filepath.Join(dir, "missing.json"))
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))

	_, err = ParseFile("  ")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidFilePath))
}

func TestParseErrorDetails(t *testing.T) {
	input := `
- field: email
  message: Email is required
  next_actions:
    - Provide an email address
- field: ""
  message: Request body is malformed
`

	details, err := ParseErrorDetails(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, details, 2)

	assert.Equal(t, models.NewErrorDetail("email", "Email is required", "Provide an email address"), details[0])
	assert.Equal(t, "", details[1].Field)
	assert.NotNil(t, details[1].NextActions)
	assert.Empty(t, details[1].NextActions)
}

func TestParseErrorDetails_JSONInput(t *testing.T) {
	input := `[{"field": "age", "message": "Age must be positive", "next_actions": ["Use a number above 0"]}]`

	details, err := ParseErrorDetails(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []models.ErrorDetail{
		models.NewErrorDetail("age", "Age must be positive", "Use a number above 0"),
	}, details)
}

func TestParseErrorDetails_EmptyList(t *testing.T) {
	details, err := ParseErrorDetails(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.NotNil(t, details)
	assert.Empty(t, details)
}

func TestParseErrorDetails_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "empty", input: "", expected: errors.ErrEmptyInput},
		{name: "not a list", input: "field: email", expected: errors.ErrInvalidErrors},
		{name: "unknown key", input: "- field: a\n  message: b\n  hint: c", expected: errors.ErrInvalidErrors},
		{name: "missing message", input: "- field: a", expected: errors.ErrInvalidErrors},
		{name: "blank action", input: "- field: a\n  message: b\n  next_actions: [\"\"]", expected: errors.ErrInvalidErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseErrorDetails(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestParseErrorDetailsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- field: name\n  message: Name is too long\n"), 0644))

	details, err := ParseErrorDetailsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []models.ErrorDetail{models.NewErrorDetail("name", "Name is too long")}, details)
}
