package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "sharkdash/internal/errors"
	"sharkdash/internal/incidents"
)

// PageQuery holds the query parameters shared by every page endpoint
type PageQuery struct {
	Year string `json:"year" validate:"omitempty,year_selection"`
}

// TableQuery names one aggregation table of a page
type TableQuery struct {
	Table string `json:"table" validate:"required,table_name"`
}

// QueryValidator validates dashboard query parameters using struct tags
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a validator with the dashboard rules registered
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("year_selection", isYearSelection)
	v.RegisterValidation("table_name", isTableName)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "query_validator")),
	}
}

// ParsePageQuery validates the year parameter and returns the selection it names.
// A missing parameter selects all years.
func (q *QueryValidator) ParsePageQuery(r *http.Request) (incidents.YearSelection, error) {
	query := PageQuery{Year: strings.TrimSpace(r.URL.Query().Get("year"))}
	if err := q.ValidateStruct(query); err != nil {
		q.logger.DebugContext(r.Context(), "invalid page query",
			slog.String("year", query.Year),
			slog.String("request_id", GetRequestID(r.Context())),
		)
		return incidents.YearSelection{}, err
	}
	return incidents.ParseYearSelection(query.Year)
}

// ValidateTable checks a table name from the path
func (q *QueryValidator) ValidateTable(name string) error {
	return q.ValidateStruct(TableQuery{Table: name})
}

// ValidateStruct validates a struct and returns validation errors
func (q *QueryValidator) ValidateStruct(v interface{}) error {
	err := q.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate query: %w", err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "year_selection":
		return fmt.Sprintf("%s must be %q or a four digit year", field, incidents.AllYearsLabel)
	case "table_name":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(tableNames, ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

var tableNames = []string{
	incidents.TableYearlyCounts,
	incidents.TableAgeByType,
	incidents.TableSpeciesCounts,
	incidents.TableAgeBySex,
	incidents.TableFatality,
	incidents.TableHourCounts,
}

// isYearSelection accepts "all" in any case or a four digit year
func isYearSelection(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if incidents.FoldEqual(value, incidents.AllYearsLabel) {
		return true
	}
	if len(value) != 4 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isTableName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, name := range tableNames {
		if value == name {
			return true
		}
	}
	return false
}
