package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FindRequest is the body of a candidate ranking request. A nil Limit means the server default.
type FindRequest struct {
	JobDescription string `json:"job_description"`
	Limit          *int   `json:"limit,omitempty" validate:"omitempty,min=1"`
}

// Validate rejects a zero or negative limit.
func (r *FindRequest) Validate() error {
	return validate.Struct(r)
}

// JobQuery returns the query for r, applying defaultLimit when no limit was given
// and capping the limit at maxLimit when maxLimit is positive.
func (r *FindRequest) JobQuery(defaultLimit, maxLimit int) JobQuery {
	limit := defaultLimit
	if r.Limit != nil {
		limit = *r.Limit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return JobQuery{Description: r.JobDescription, Limit: limit}
}

// DefaultLimit is the number of ranked candidates returned when a query sets none.
const DefaultLimit = 10

// JobQuery is a job description to rank candidates against.
type JobQuery struct {
	Description string
	Limit       int
}

// NewJobQuery returns a query with the default limit.
func NewJobQuery(description string) JobQuery {
	return JobQuery{Description: description, Limit: DefaultLimit}
}

// ValidationMessage renders a validation error for API responses.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("validation error: %s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("validation error: %s is %s", fe.Field(), fe.Tag())
	}
	return "validation error: invalid request"
}
