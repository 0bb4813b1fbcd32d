package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "useraccounts/internal/errors"
)

func TestBuildUserUpdate(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		fields   map[string]any
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "single field",
			fields:   map[string]any{"bio": "new"},
			wantSQL:  "UPDATE `users` SET `bio` = ? WHERE `user_id` = ?",
			wantArgs: []any{"new", id},
		},
		{
			name:     "columns sorted",
			fields:   map[string]any{"skills": "go, sql", "address": "Dhaka", "name": "Ann"},
			wantSQL:  "UPDATE `users` SET `address` = ?, `name` = ?, `skills` = ? WHERE `user_id` = ?",
			wantArgs: []any{"Dhaka", "Ann", "go, sql", id},
		},
		{
			name:     "null clears optional field",
			fields:   map[string]any{"profile_photo": nil},
			wantSQL:  "UPDATE `users` SET `profile_photo` = ? WHERE `user_id` = ?",
			wantArgs: []any{nil, id},
		},
		{
			name:     "value text is never interpolated",
			fields:   map[string]any{"bio": "'; DROP TABLE users; --"},
			wantSQL:  "UPDATE `users` SET `bio` = ? WHERE `user_id` = ?",
			wantArgs: []any{"'; DROP TABLE users; --", id},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := BuildUserUpdate(tt.fields, id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.Equal(t, tt.wantArgs, stmt.Args)
		})
	}
}

func TestBuildUserUpdate_Rejects(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		fields    map[string]any
		wantField string
	}{
		{name: "nil mapping", fields: nil},
		{name: "empty mapping", fields: map[string]any{}},
		{name: "identifier", fields: map[string]any{"user_id": uuid.NewString()}, wantField: "user_id"},
		{name: "email", fields: map[string]any{"email": "other@example.com"}, wantField: "email"},
		{name: "password hash", fields: map[string]any{"hashed_password": "x"}, wantField: "hashed_password"},
		{name: "unknown column", fields: map[string]any{"role": "admin"}, wantField: "role"},
		{name: "injection in key", fields: map[string]any{"bio = 'x', email": "y"}, wantField: "bio = 'x', email"},
		{name: "one bad key among good", fields: map[string]any{"bio": "ok", "created_at": "2020-01-01"}, wantField: "created_at"},
		{name: "non-string value", fields: map[string]any{"skills": []any{"go"}}, wantField: "skills"},
		{name: "numeric value", fields: map[string]any{"gender": 1.0}, wantField: "gender"},
		{name: "null user name", fields: map[string]any{"user_name": nil}, wantField: "user_name"},
		{name: "blank user name", fields: map[string]any{"user_name": "  "}, wantField: "user_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := BuildUserUpdate(tt.fields, id)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidField)
			assert.Empty(t, stmt.SQL)

			var fieldErr *apperrors.InvalidFieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.wantField, fieldErr.Field)
		})
	}
}

func TestNameOrUserNameContains_EscapesWildcards(t *testing.T) {
	tests := []struct {
		term        string
		wantPattern string
	}{
		{term: "ann", wantPattern: "%ann%"},
		{term: "ANN", wantPattern: "%ann%"},
		{term: "50%", wantPattern: "%50!%%"},
		{term: "a_b", wantPattern: "%a!_b%"},
		{term: "wow!", wantPattern: "%wow!!%"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			p := NameOrUserNameContains(tt.term)
			assert.Equal(t, "(LOWER(`name`) LIKE ? ESCAPE '!' OR LOWER(`user_name`) LIKE ? ESCAPE '!')", p.Clause())
			assert.Equal(t, []any{tt.wantPattern, tt.wantPattern}, p.Args())
		})
	}
}

func TestPredicates(t *testing.T) {
	id := uuid.New()

	assert.Empty(t, All().Clause())
	assert.Equal(t, "`user_id` = ?", ByID(id).Clause())
	assert.Equal(t, []any{id}, ByID(id).Args())
	assert.Equal(t, []any{"ann@example.com"}, ByEmail("ann@example.com").Args())
	assert.Equal(t, "`user_name` = ?", ByUserName("ann").Clause())
}
