// Package querybuilder assembles parameterized SQL incrementally.
//
// Callers compose a query from raw fragments and bound values; fragment text
// is developer-authored, every caller-supplied value travels through a `?`
// marker and the args list. Build rebinds markers to PostgreSQL positional
// parameters ($1..$n) in the order they appear in the assembled text, so the
// final args slice always lines up with the placeholders index for index.
package querybuilder

import (
	"strconv"
	"strings"
	"time"

	"github.com/rentora-hq/rentora-engine/pkg/apperrors"
	"github.com/rentora-hq/rentora-engine/pkg/sqlguard"
)

// now is stubbed in tests that pin the date-window predicates.
var now = time.Now

// Statement is a fully assembled query: text with $1..$n placeholders and
// the args bound to them, index for index.
type Statement struct {
	Text string
	Args []any
}

type joinKind int

const (
	innerJoin joinKind = iota
	leftJoin
)

func (k joinKind) String() string {
	if k == leftJoin {
		return "LEFT JOIN"
	}
	return "JOIN"
}

type join struct {
	kind      joinKind
	table     string
	alias     string
	condition string
	args      []any
}

type predicate struct {
	expr string
	args []any
}

type cte struct {
	name string
	body string
	args []any
}

type orderTerm struct {
	expr      string
	direction string
}

// Builder composes a single SELECT statement. The zero value is not usable;
// construct with New. Builder methods mutate the receiver and return it for
// chaining. Build is a pure read: calling it twice yields identical output.
type Builder struct {
	selectCols []string
	table      string
	alias      string
	joins      []join
	predicates []predicate
	ctes       []cte
	groupBy    []string
	orderBy    []orderTerm
	fragErrs   []error
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Select appends column expressions. Repeated calls accumulate; nothing is
// deduplicated.
func (b *Builder) Select(columns ...string) *Builder {
	b.selectCols = append(b.selectCols, columns...)
	return b
}

// From sets the source table and alias. A second call overwrites the first.
func (b *Builder) From(table, alias string) *Builder {
	b.table = table
	b.alias = alias
	return b
}

// Join adds an INNER JOIN. The condition is a raw boolean expression; any
// literal value it needs must be a `?` marker with a matching arg.
func (b *Builder) Join(table, alias, condition string, args ...any) *Builder {
	return b.addJoin(innerJoin, table, alias, condition, args)
}

// LeftJoin adds a LEFT JOIN with the same condition rules as Join.
func (b *Builder) LeftJoin(table, alias, condition string, args ...any) *Builder {
	return b.addJoin(leftJoin, table, alias, condition, args)
}

func (b *Builder) addJoin(kind joinKind, table, alias, condition string, args []any) *Builder {
	b.checkFragment(condition)
	b.joins = append(b.joins, join{kind: kind, table: table, alias: alias, condition: condition, args: args})
	return b
}

// Where appends a predicate. Predicates are combined with AND at build time
// in the order they were added.
func (b *Builder) Where(expr string, args ...any) *Builder {
	b.checkFragment(expr)
	b.predicates = append(b.predicates, predicate{expr: expr, args: args})
	return b
}

// WhereLandlord restricts to one landlord when landlordID is non-nil. A nil
// landlordID adds no predicate: the query covers every landlord within the
// current agency. Callers needing fail-closed behavior must check upstream.
func (b *Builder) WhereLandlord(column string, landlordID *int64) *Builder {
	return b.whereOptional(column, landlordID)
}

// WhereProperty restricts to one property when propertyID is non-nil, with
// the same nil-means-unfiltered semantics as WhereLandlord.
func (b *Builder) WhereProperty(column string, propertyID *int64) *Builder {
	return b.whereOptional(column, propertyID)
}

func (b *Builder) whereOptional(column string, id *int64) *Builder {
	if id == nil {
		return b
	}
	return b.Where(column+" = ?", *id)
}

// WhereDaysAhead adds the half-open window (today, today+days] on dateColumn,
// bound through two parameters.
func (b *Builder) WhereDaysAhead(dateColumn string, days int) *Builder {
	today := now().Truncate(24 * time.Hour)
	return b.Where(dateColumn+" > ? AND "+dateColumn+" <= ?", today, today.AddDate(0, 0, days))
}

// WhereYearMonth adds equality predicates on the year and month parts of
// dateColumn.
func (b *Builder) WhereYearMonth(dateColumn string, year, month int) *Builder {
	return b.Where("EXTRACT(YEAR FROM "+dateColumn+") = ? AND EXTRACT(MONTH FROM "+dateColumn+") = ?", year, month)
}

// WithCTE registers a named common table expression. CTEs render before the
// main statement in declaration order, so their args occupy the leading
// placeholder positions regardless of when predicates are added.
func (b *Builder) WithCTE(name, body string, args ...any) *Builder {
	b.ctes = append(b.ctes, cte{name: name, body: body, args: args})
	return b
}

// GroupBy appends a grouping column.
func (b *Builder) GroupBy(column string) *Builder {
	b.groupBy = append(b.groupBy, column)
	return b
}

// OrderBy appends an ordering term. Direction is "ASC" or "DESC"; empty
// means the engine default.
func (b *Builder) OrderBy(column, direction string) *Builder {
	b.orderBy = append(b.orderBy, orderTerm{expr: column, direction: direction})
	return b
}

func (b *Builder) checkFragment(fragment string) {
	if err := sqlguard.CheckFragment(fragment); err != nil {
		b.fragErrs = append(b.fragErrs, err)
	}
}

// Build assembles the final statement. Every fragment's `?` markers are
// rebound to $n in text order while the matching args are appended, which
// keeps placeholder positions and the args slice aligned by construction.
// Build verifies the alignment anyway and returns a BuildError on mismatch.
func (b *Builder) Build() (Statement, error) {
	if len(b.fragErrs) > 0 {
		return Statement{}, &apperrors.BuildError{Detail: b.fragErrs[0].Error()}
	}
	if b.table == "" {
		return Statement{}, &apperrors.BuildError{Detail: "no source table; call From before Build"}
	}

	var text strings.Builder
	var args []any
	pos := 0

	appendFragment := func(fragment string, fragArgs []any) error {
		markers := sqlguard.CountMarkers(fragment)
		if markers != len(fragArgs) {
			return &apperrors.BuildError{
				Placeholders: markers,
				Params:       len(fragArgs),
				Detail:       "fragment " + strconv.Quote(fragment) + " has " + strconv.Itoa(markers) + " markers but " + strconv.Itoa(len(fragArgs)) + " args",
			}
		}
		rebound, next := rebind(fragment, pos)
		pos = next
		text.WriteString(rebound)
		args = append(args, fragArgs...)
		return nil
	}

	for i, c := range b.ctes {
		if i == 0 {
			text.WriteString("WITH ")
		} else {
			text.WriteString(", ")
		}
		text.WriteString(c.name)
		text.WriteString(" AS (")
		if err := appendFragment(c.body, c.args); err != nil {
			return Statement{}, err
		}
		text.WriteString(")")
	}
	if len(b.ctes) > 0 {
		text.WriteString(" ")
	}

	text.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		text.WriteString("*")
	} else {
		text.WriteString(strings.Join(b.selectCols, ", "))
	}

	text.WriteString(" FROM ")
	text.WriteString(b.table)
	if b.alias != "" {
		text.WriteString(" ")
		text.WriteString(b.alias)
	}

	for _, j := range b.joins {
		text.WriteString(" ")
		text.WriteString(j.kind.String())
		text.WriteString(" ")
		text.WriteString(j.table)
		if j.alias != "" {
			text.WriteString(" ")
			text.WriteString(j.alias)
		}
		text.WriteString(" ON ")
		if err := appendFragment(j.condition, j.args); err != nil {
			return Statement{}, err
		}
	}

	for i, p := range b.predicates {
		if i == 0 {
			text.WriteString(" WHERE ")
		} else {
			text.WriteString(" AND ")
		}
		if err := appendFragment(p.expr, p.args); err != nil {
			return Statement{}, err
		}
	}

	if len(b.groupBy) > 0 {
		text.WriteString(" GROUP BY ")
		text.WriteString(strings.Join(b.groupBy, ", "))
	}

	if len(b.orderBy) > 0 {
		text.WriteString(" ORDER BY ")
		for i, o := range b.orderBy {
			if i > 0 {
				text.WriteString(", ")
			}
			text.WriteString(o.expr)
			if o.direction != "" {
				text.WriteString(" ")
				text.WriteString(o.direction)
			}
		}
	}

	stmt := Statement{Text: text.String(), Args: args}
	if err := sqlguard.VerifyAlignment(stmt.Text, len(stmt.Args)); err != nil {
		return Statement{}, err
	}
	return stmt, nil
}

// rebind replaces `?` markers with $n starting at base+1, skipping markers
// inside single-quoted literals. Returns the rebound text and the new base.
func rebind(fragment string, base int) (string, int) {
	var out strings.Builder
	inString := false
	for i := 0; i < len(fragment); i++ {
		ch := fragment[i]
		switch {
		case ch == '\'':
			inString = !inString
			out.WriteByte(ch)
		case ch == '?' && !inString:
			base++
			out.WriteString("$")
			out.WriteString(strconv.Itoa(base))
		default:
			out.WriteByte(ch)
		}
	}
	return out.String(), base
}
