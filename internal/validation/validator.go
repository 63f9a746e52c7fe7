// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

// Package validation checks request parameter structs with
// go-playground/validator v10 and translates failures into the API's
// INVALID_FILTER error shape.
//
// The validator instance is a thread-safe singleton so struct metadata is
// parsed once. Handlers declare constraints as tags and call ValidateStruct:
//
//	type trendParams struct {
//	    Months int `json:"months" validate:"omitempty,min=1,max=36"`
//	}
//
//	if verr := validation.ValidateStruct(&params); verr != nil {
//	    respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/calderonm/vianda/internal/models"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed constraint on one request parameter.
type FieldError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the parameter name that failed.
func (e *FieldError) Field() string { return e.field }

// Tag returns the constraint that failed.
func (e *FieldError) Tag() string { return e.tag }

// Error returns the translated message.
func (e *FieldError) Error() string { return e.message }

// ParamsError collects every failed constraint for one request.
type ParamsError struct {
	fields []FieldError
}

// Fields returns the individual failures.
func (e *ParamsError) Fields() []FieldError { return e.fields }

// Error implements the error interface.
func (e *ParamsError) Error() string {
	if len(e.fields) == 0 {
		return "invalid request parameters"
	}
	messages := make([]string, len(e.fields))
	for i, fe := range e.fields {
		messages[i] = fe.message
	}
	return strings.Join(messages, "; ")
}

// ToAPIError converts the failures into the envelope error shape. Parameter
// errors are caller-correctable query input, so they map to INVALID_FILTER.
func (e *ParamsError) ToAPIError() *models.APIError {
	if len(e.fields) == 0 {
		return &models.APIError{
			Code:    "INVALID_FILTER",
			Message: "invalid request parameters",
		}
	}

	if len(e.fields) == 1 {
		fe := e.fields[0]
		return &models.APIError{
			Code:    "INVALID_FILTER",
			Message: fe.message,
			Details: map[string]interface{}{
				"field": fe.field,
				"tag":   fe.tag,
				"value": fe.value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(e.fields))
	messages := make([]string, len(e.fields))
	for i, fe := range e.fields {
		fields[i] = map[string]interface{}{
			"field":   fe.field,
			"tag":     fe.tag,
			"message": fe.message,
		}
		messages[i] = fe.message
	}

	return &models.APIError{
		Code:    "INVALID_FILTER",
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// getValidator returns the singleton, initialized on first use. Field names
// in messages come from json tags so they match the query parameters.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct checks s against its validate tags. Returns nil when every
// constraint passes.
func ValidateStruct(s interface{}) *ParamsError {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ParamsError{fields: []FieldError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = FieldError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translate(fe),
		}
	}
	return &ParamsError{fields: fields}
}

// messageTemplates maps constraint tags to templates taking the field name.
var messageTemplates = map[string]string{
	"required": "%s is required",
}

// messageTemplatesWithParam maps constraint tags to templates taking the
// field name and the tag parameter.
var messageTemplatesWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// translate converts one validator failure to a request-facing message.
func translate(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := messageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := messageTemplatesWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	switch tag {
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
