package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/repository"
)

var testOptions = Options{
	OrderField:  "id",
	SortMethod:  "ASC",
	OrderFields: []string{"id", "username"},
	Length:      10,
	MaxLength:   100,
}

func TestFilters(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			name     string
			params   Params
			expected repository.Filters
		}{
			{
				name:     "defaults",
				params:   Params{},
				expected: repository.Filters{OrderBy: "id", Sort: "ASC", Limit: 10, Offset: 0},
			},
			{
				name:     "second page",
				params:   Params{Page: "2", Limit: "10"},
				expected: repository.Filters{OrderBy: "id", Sort: "ASC", Limit: 10, Offset: 20},
			},
			{
				name:     "custom order",
				params:   Params{Order: "username", Sort: "desc"},
				expected: repository.Filters{OrderBy: "username", Sort: "DESC", Limit: 10},
			},
			{
				name:     "order without sort ignored",
				params:   Params{Order: "username"},
				expected: repository.Filters{OrderBy: "id", Sort: "ASC", Limit: 10},
			},
			{
				name:     "limit capped",
				params:   Params{Page: "1", Limit: "1000"},
				expected: repository.Filters{OrderBy: "id", Sort: "ASC", Limit: 100, Offset: 100},
			},
			{
				name:     "username passed",
				params:   Params{Username: "alice"},
				expected: repository.Filters{Username: "alice", OrderBy: "id", Sort: "ASC", Limit: 10},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := Filters(tt.params, testOptions)

				require.NoError(t, err)
				require.Equal(t, tt.expected, got)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name     string
			params   Params
			expected error
		}{
			{"page not number", Params{Page: "abc"}, apperrors.New(apperrors.KindInvalidParameterType, "page")},
			{"limit not number", Params{Limit: "ten"}, apperrors.New(apperrors.KindInvalidParameterType, "limit")},
			{"negative page", Params{Page: "-1"}, apperrors.New(apperrors.KindInvalidParameterValue, "page")},
			{"fractional limit", Params{Limit: "2.5"}, apperrors.New(apperrors.KindInvalidParameterValue, "limit")},
			{"zero limit", Params{Limit: "0"}, apperrors.New(apperrors.KindInvalidParameterValue, "limit")},
			{"overflowing page", Params{Page: "9223372036854775807", Limit: "10"}, apperrors.New(apperrors.KindInvalidParameterValue, "page")},
			{"order not allowed", Params{Order: "password", Sort: "ASC"}, apperrors.New(apperrors.KindInvalidParameterValue, "order")},
			{"sort not allowed", Params{Order: "id", Sort: "sideways"}, apperrors.New(apperrors.KindInvalidParameterValue, "sort")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Filters(tt.params, testOptions)

				require.ErrorIs(t, err, tt.expected)
			})
		}
	})
}

func TestFromValues(t *testing.T) {
	v, err := url.ParseQuery("order=username&sort=asc&page=2&limit=5&username=bob")
	require.NoError(t, err)

	require.Equal(t, Params{Order: "username", Sort: "asc", Page: "2", Limit: "5", Username: "bob"}, FromValues(v))
}
