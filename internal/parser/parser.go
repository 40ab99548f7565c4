package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/go-playground/validator/v10"
	"github.com/mcncl/jsonenv/internal/errors" // Custom errors package
	"github.com/mcncl/jsonenv/internal/models"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Parse reads a single JSON value from reader and converts it into a Value
// tree. Object members keep the order they have in the document.
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	raw, err := firstValue(data)
	if err != nil {
		return nil, err
	}

	return toValue(gjson.ParseBytes(raw))
}

// firstValue checks that data holds exactly one well-formed JSON value and returns it.
func firstValue(data []byte) (json.RawMessage, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("failed to decode JSON", err)
	}

	// Anything other than whitespace after the first value is rejected.
	if len(bytes.TrimSpace(data[decoder.InputOffset():])) > 0 {
		var trailing json.RawMessage
		if err := decoder.Decode(&trailing); err != nil {
			return nil, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	return raw, nil
}

// toValue converts a validated gjson result into our model types
func toValue(r gjson.Result) (models.Value, error) {
	switch r.Type {
	case gjson.Null:
		return models.NullValue(), nil
	case gjson.True:
		return models.Boolean(true), nil
	case gjson.False:
		return models.Boolean(false), nil
	case gjson.String:
		return models.Str(r.Str), nil
	case gjson.Number:
		return parseNumber(r.Raw)
	}

	if r.IsArray() {
		arr := models.Array{}
		var convErr error
		r.ForEach(func(_, value gjson.Result) bool {
			v, err := toValue(value)
			if err != nil {
				convErr = err
				return false
			}
			arr = append(arr, v)
			return true
		})
		return arr, convErr
	}

	obj := models.Object{}
	var convErr error
	r.ForEach(func(key, value gjson.Result) bool {
		v, err := toValue(value)
		if err != nil {
			convErr = err
			return false
		}
		obj = append(obj, models.Field(key.Str, v))
		return true
	})
	return obj, convErr
}

// parseNumber keeps integers exact: int64 first, then uint64, then float64.
func parseNumber(raw string) (models.Value, error) {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return models.Int(i), nil
	}
	if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return models.Uint(u), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("number %s is out of range", raw), errors.ErrInvalidJSON)
	}
	return models.Float(f), nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	var value models.Value
	err := withFile(filePath, func(r io.Reader) error {
		var err error
		value, err = Parse(r)
		return err
	})
	return value, err
}

// ParseErrorDetails reads a YAML (or JSON) list of error details:
//
//	- field: email
//	  message: Email is required
//	  next_actions: [Provide an email address]
//
// An explicit empty list is valid and yields no details.
func ParseErrorDetails(reader io.Reader) ([]models.ErrorDetail, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var details []models.ErrorDetail
	if err := decoder.Decode(&details); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("error details input is empty", errors.ErrEmptyInput)
		}
		return nil, errors.NewParsingError(fmt.Sprintf("failed to decode error details: %v", err), errors.ErrInvalidErrors)
	}

	for i := range details {
		if err := validate.Struct(&details[i]); err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("invalid error detail #%d: %v", i+1, err), errors.ErrInvalidErrors)
		}
		if details[i].NextActions == nil {
			details[i].NextActions = []string{}
		}
	}
	if details == nil {
		details = []models.ErrorDetail{}
	}
	return details, nil
}

// ParseErrorDetailsFile reads error details from a file path
func ParseErrorDetailsFile(filePath string) ([]models.ErrorDetail, error) {
	var details []models.ErrorDetail
	err := withFile(filePath, func(r io.Reader) error {
		var err error
		details, err = ParseErrorDetails(r)
		return err
	})
	return details, err
}

// withFile opens filePath, rejects missing or empty files, and hands the file to fn
func withFile(filePath string, fn func(io.Reader) error) error {
	if strings.TrimSpace(filePath) == "" {
		return errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return fn(file)
}
