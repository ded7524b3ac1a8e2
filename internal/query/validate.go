package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mmcdole/arcade/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("yearspec", validYearSpec)
	})
	return validate
}

// validYearSpec accepts "YYYY" or "YYYY-YYYY" with start <= end
func validYearSpec(fl validator.FieldLevel) bool {
	return ValidYear(fl.Field().String())
}

// ValidYear reports whether s is a single year or an ordered year range
func ValidYear(s string) bool {
	if DateRange(s) == "" {
		return false
	}
	from, to, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return true
	}
	a, _ := strconv.Atoi(from)
	b, _ := strconv.Atoi(to)
	return a <= b
}

// ValidateFilter checks a FilterState, returning a domain validation error
func ValidateFilter(f domain.FilterState) error {
	if err := validatorInstance().Struct(f); err != nil {
		return domain.ValidationError("filter", describe(err))
	}
	return nil
}

// ValidateSearch checks SearchParams, returning a domain validation error
func ValidateSearch(p domain.SearchParams) error {
	if err := validatorInstance().Struct(p); err != nil {
		return domain.ValidationError("search", describe(err))
	}
	return nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "yearspec":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not a year or year range", fe.Field(), fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: %q must be one of [%s]", fe.Field(), fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s%s", fe.Namespace(), fe.Tag(), param(fe.Param())))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}
