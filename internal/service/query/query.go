package query

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/repository"
	"github.com/nkiryanov/movierater/internal/service/validate"
)

// Params are raw listing parameters as the client sent them
type Params struct {
	Order string
	Sort  string
	Page  string
	Limit string

	// Optional exact username filter
	Username string
}

func FromValues(v url.Values) Params {
	return Params{
		Order:    v.Get("order"),
		Sort:     v.Get("sort"),
		Page:     v.Get("page"),
		Limit:    v.Get("limit"),
		Username: v.Get("username"),
	}
}

// Options of a listing: defaults and allowed values
type Options struct {
	// Default ordering
	OrderField string
	SortMethod string

	// Fields client is allowed to order by
	OrderFields []string

	// Default and maximum page size
	Length    int
	MaxLength int
}

// Filters converts client parameters to repository filters
// Ordering is applied only if both order and sort are set
// Offset is page * limit, pages are counted from zero
func Filters(p Params, o Options) (repository.Filters, error) {
	f := repository.Filters{
		Username: p.Username,
		OrderBy:  o.OrderField,
		Sort:     o.SortMethod,
		Limit:    o.Length,
	}

	if p.Order != "" && p.Sort != "" {
		if !slices.Contains(o.OrderFields, p.Order) {
			return f, apperrors.New(apperrors.KindInvalidParameterValue, "order")
		}

		sort := strings.ToUpper(p.Sort)
		if sort != "ASC" && sort != "DESC" {
			return f, apperrors.New(apperrors.KindInvalidParameterValue, "sort")
		}

		f.OrderBy, f.Sort = p.Order, sort
	}

	page := 0
	if p.Page != "" {
		n, err := parseNumber("page", p.Page, 0)
		if err != nil {
			return f, err
		}
		page = n
	}

	if p.Limit != "" {
		n, err := parseNumber("limit", p.Limit, 1)
		if err != nil {
			return f, err
		}
		f.Limit = n
	}

	if o.MaxLength > 0 && f.Limit > o.MaxLength {
		f.Limit = o.MaxLength
	}

	if f.Limit > 0 && page > math.MaxInt/f.Limit {
		return f, apperrors.New(apperrors.KindInvalidParameterValue, "page")
	}
	f.Offset = page * f.Limit

	return f, nil
}

// Parse whole number not less than min
func parseNumber(param string, value string, min int) (int, error) {
	if !validate.IsNumber(value) {
		return 0, apperrors.New(apperrors.KindInvalidParameterType, param)
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < min {
		return 0, apperrors.New(apperrors.KindInvalidParameterValue, param)
	}

	return n, nil
}
