package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidModel indicates a payload that is not a JSON array of panels.
var ErrInvalidModel = errors.New("invalid model")

// Spec is an ordered list of panels.
type Spec []Panel

// Panel describes one request form.
type Panel struct {
	Title  string  `json:"title"`
	Method string  `json:"method,omitempty"`
	Action string  `json:"action,omitempty"`
	Data   []Field `json:"data,omitempty"`
}

// Field describes one form parameter.
type Field struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	ParamType   string `json:"param_type,omitempty"`
	DataType    string `json:"data_type,omitempty"`
}

// MethodOrDefault returns the panel method, "get" when unset.
func (p Panel) MethodOrDefault() string {
	if p.Method == "" {
		return "get"
	}
	return p.Method
}

// ActionOrDefault returns the panel action, "/" when unset.
func (p Panel) ActionOrDefault() string {
	if p.Action == "" {
		return "/"
	}
	return p.Action
}

// ParamTypeOrDefault returns the parameter type, "string" when unset.
func (f Field) ParamTypeOrDefault() string {
	if f.ParamType == "" {
		return "string"
	}
	return f.ParamType
}

// DataTypeOrDefault returns the data type, "string" when unset.
func (f Field) DataTypeOrDefault() string {
	if f.DataType == "" {
		return "string"
	}
	return f.DataType
}

// HasInput reports whether the field is rendered with an input element.
func (f Field) HasInput() bool {
	switch f.Type {
	case "text", "password", "file", "email":
		return true
	}
	return false
}

// Decode parses body into a Spec. Anything other than a JSON array fails
// with ErrInvalidModel.
func Decode(body []byte) (Spec, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidModel)
	}
	if !gjson.ParseBytes(body).IsArray() {
		return nil, fmt.Errorf("%w: expected an array of panels", ErrInvalidModel)
	}

	var spec Spec
	if err := json.Unmarshal(body, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	return spec, nil
}
