package repository

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	apperrors "useraccounts/internal/errors"
)

// UpdatableColumns is the closed set of user columns a partial update may set.
var UpdatableColumns = map[string]struct{}{
	"name":          {},
	"user_name":     {},
	"profile_photo": {},
	"bio":           {},
	"address":       {},
	"qualification": {},
	"skills":        {},
	"gender":        {},
}

// requiredColumns may be changed but never cleared.
var requiredColumns = map[string]struct{}{
	"user_name": {},
}

// Statement is a parameterized SQL statement and its ordered arguments.
type Statement struct {
	SQL  string
	Args []any
}

// BuildUserUpdate turns a field mapping into an UPDATE of the user with the
// given id. Keys must be in UpdatableColumns and values must be strings or
// nil; only allow-listed column names ever reach the statement text.
func BuildUserUpdate(fields map[string]any, id uuid.UUID) (Statement, error) {
	if len(fields) == 0 {
		return Statement{}, &apperrors.InvalidFieldError{Reason: "update must set at least one field"}
	}

	columns := make([]string, 0, len(fields))
	for key, value := range fields {
		if _, ok := UpdatableColumns[key]; !ok {
			return Statement{}, &apperrors.InvalidFieldError{Field: key, Reason: "not an updatable field"}
		}
		switch v := value.(type) {
		case string:
			if _, required := requiredColumns[key]; required && strings.TrimSpace(v) == "" {
				return Statement{}, &apperrors.InvalidFieldError{Field: key, Reason: "must not be empty"}
			}
		case nil:
			if _, required := requiredColumns[key]; required {
				return Statement{}, &apperrors.InvalidFieldError{Field: key, Reason: "must not be null"}
			}
		default:
			return Statement{}, &apperrors.InvalidFieldError{Field: key, Reason: "value must be a string or null"}
		}
		columns = append(columns, key)
	}
	sort.Strings(columns)

	assignments := make([]string, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("`%s` = ?", column)
		args = append(args, fields[column])
	}
	args = append(args, id)

	return Statement{
		SQL:  "UPDATE `users` SET " + strings.Join(assignments, ", ") + " WHERE `user_id` = ?",
		Args: args,
	}, nil
}
