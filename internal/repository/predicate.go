package repository

import (
	"strings"

	"github.com/google/uuid"
)

// likeEscape is the escape character used in LIKE patterns.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// Predicate is a WHERE condition with bound arguments. Only this package
// builds predicates, so column names never come from callers.
type Predicate struct {
	clause string
	args   []any
}

// All matches every row.
func All() Predicate {
	return Predicate{}
}

// ByID matches the row with the given identifier.
func ByID(id uuid.UUID) Predicate {
	return Predicate{clause: "`user_id` = ?", args: []any{id}}
}

// ByEmail matches rows with exactly this email.
func ByEmail(email string) Predicate {
	return Predicate{clause: "`email` = ?", args: []any{email}}
}

// ByUserName matches rows with exactly this user name.
func ByUserName(userName string) Predicate {
	return Predicate{clause: "`user_name` = ?", args: []any{userName}}
}

// NameOrUserNameContains matches rows whose name or user name contains term,
// ignoring case. Wildcards inside term match literally.
func NameOrUserNameContains(term string) Predicate {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	return Predicate{
		clause: "(LOWER(`name`) LIKE ? ESCAPE '" + likeEscape + "' OR LOWER(`user_name`) LIKE ? ESCAPE '" + likeEscape + "')",
		args:   []any{pattern, pattern},
	}
}

// Clause returns the SQL condition text; empty for All.
func (p Predicate) Clause() string {
	return p.clause
}

// Args returns the bound arguments in placeholder order.
func (p Predicate) Args() []any {
	return p.args
}
