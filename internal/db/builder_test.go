package db

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
)

func TestQuery_Simple(t *testing.T) {
	sql, args := Select("id", "zip_code").
		From(TableRecords).
		Where("active = ?", true).
		WhereIn("state", []string{"IL", "WI"}).
		OrderBy("id ASC").
		Limit(20).
		Offset(40).
		Build()

	want := "SELECT id, zip_code FROM directory_records WHERE active = ? AND state IN (?, ?) ORDER BY id ASC LIMIT 20 OFFSET 40"
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 3 || args[0] != true || args[1] != "IL" || args[2] != "WI" {
		t.Errorf("args = %v", args)
	}
}

func TestQuery_WhereInEmpty(t *testing.T) {
	sql, args := Select("id").From(TableRecords).WhereIn("id", nil).Build()
	if !strings.Contains(sql, "1 = 0") {
		t.Errorf("empty IN must match nothing: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestQuery_ArgsFollowTextOrder(t *testing.T) {
	branch := Select("id").Column("? AS idx", 0).From(TableRecords).Where("x < ?", 1.5)
	q := Select("n.id").
		With("hits", branch, Select("id").Column("? AS idx", 1).From(TableRecords).Where("x < ?", 2.5)).
		Column("? AS tag", "t").
		From("hits n").
		Where("n.idx >= ?", 0)

	sql, args := q.Build()
	if !strings.HasPrefix(sql, "WITH hits AS (SELECT id, ? AS idx") {
		t.Errorf("unexpected sql: %s", sql)
	}
	if !strings.Contains(sql, " UNION ALL ") {
		t.Errorf("missing UNION ALL: %s", sql)
	}
	want := []any{0, 1.5, 1, 2.5, "t", 0}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], want[i])
		}
	}
	if strings.Count(sql, "?") != len(args) {
		t.Errorf("placeholder count %d != args %d", strings.Count(sql, "?"), len(args))
	}
}

func TestQuery_Count(t *testing.T) {
	q := Select("id").
		With("hits", Select("id").From(TableRecords).Where("a = ?", 1)).
		From("hits").
		Where("b = ?", 2).
		OrderBy("id").
		Limit(10).
		Offset(10)

	sql, args := q.Count().Build()
	want := "WITH hits AS (SELECT id FROM directory_records WHERE a = ?) SELECT COUNT(*) FROM (SELECT id FROM hits WHERE b = ?) AS counted"
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}

	// The original query is untouched.
	orig, _ := q.Build()
	if !strings.Contains(orig, "LIMIT 10 OFFSET 10") {
		t.Errorf("Count mutated receiver: %s", orig)
	}
}

func TestQuery_DistinctOn(t *testing.T) {
	sql, _ := Select("id", "d").DistinctOn("id").From("hits").OrderBy("id", "d").Build()
	if sql != "SELECT DISTINCT ON (id) id, d FROM hits ORDER BY id, d" {
		t.Errorf("sql = %s", sql)
	}
}

func TestPostgres_Rebind(t *testing.T) {
	in := `SELECT a FROM t WHERE b = ? AND c LIKE ? ESCAPE '\' AND d = '?' AND e IN (?, ?)`
	got := Postgres{}.Rebind(in)
	want := `SELECT a FROM t WHERE b = $1 AND c LIKE $2 ESCAPE '\' AND d = '?' AND e IN ($3, $4)`
	if got != want {
		t.Errorf("Rebind =\n%s\nwant\n%s", got, want)
	}
	if (SQLite{}).Rebind(in) != in {
		t.Error("sqlite Rebind must be identity")
	}
}

func TestApplyFilters(t *testing.T) {
	prof, _ := filter.NewAnyOf(filter.Profession, "Nurse", "Therapist")
	zip, _ := filter.NewPrefix(filter.ZipCode, "606")
	kw, _ := filter.NewContainsAny(filter.Keyword, "50%_off")
	expr, _ := filter.NewExpression(prof, zip, kw)

	sql, args := ApplyFilters(Select("r.id").From(TableRecords+" r"), expr, "r").Build()

	if !strings.Contains(sql, "LOWER(r.profession) IN (?, ?)") {
		t.Errorf("missing profession predicate: %s", sql)
	}
	if !strings.Contains(sql, `(r.zip_code LIKE ? ESCAPE '\')`) {
		t.Errorf("missing zip predicate: %s", sql)
	}
	if strings.Count(sql, "LOWER(r.bio) LIKE ?") != 1 || !strings.Contains(sql, "LOWER(r.skills) LIKE ?") {
		t.Errorf("missing keyword predicate: %s", sql)
	}
	if args[0] != "nurse" || args[1] != "therapist" {
		t.Errorf("AnyOf values not lowercased: %v", args[:2])
	}
	if args[2] != "606%" {
		t.Errorf("prefix arg = %v", args[2])
	}
	if args[3] != `%50\%\_off%` {
		t.Errorf("keyword arg = %v, want escaped", args[3])
	}
	if len(args) != 3+4 {
		t.Errorf("args len = %d, want 7", len(args))
	}
}

func TestOrderTerms(t *testing.T) {
	tests := []struct {
		sort Sort
		want string
	}{
		{Sort{By: "name"}, "LOWER(r.first_name) ASC, r.last_initial ASC, r.id ASC"},
		{Sort{By: "location", Desc: true}, "r.state DESC, LOWER(r.city) DESC, r.id ASC"},
		{Sort{By: "profession"}, "LOWER(r.profession) ASC, r.id ASC"},
		{Sort{By: "distance"}, "LOWER(r.first_name) ASC, r.last_initial ASC, r.id ASC"},
		{Sort{By: "id; DROP TABLE x"}, "LOWER(r.first_name) ASC, r.last_initial ASC, r.id ASC"},
	}
	for _, tt := range tests {
		got := strings.Join(OrderTerms(tt.sort, "r"), ", ")
		if got != tt.want {
			t.Errorf("OrderTerms(%+v) = %q, want %q", tt.sort, got, tt.want)
		}
	}
	if got := strings.Join(OrderTerms(Sort{By: "profession"}, ""), ", "); got != "LOWER(profession) ASC, id ASC" {
		t.Errorf("unqualified = %q", got)
	}
}

func TestIndexBuilder(t *testing.T) {
	idx := NewIndex("ix_directory_records_geo_point").
		On(TableRecords).
		Using(IndexGiST).
		Column("geo_point").
		MustBuild()

	want := "CREATE INDEX IF NOT EXISTS ix_directory_records_geo_point ON directory_records USING GIST (geo_point)"
	if idx.DDL() != want {
		t.Errorf("DDL() = %q", idx.DDL())
	}

	btree := NewIndex("ix_state").On(TableRecords).Column("state").MustBuild()
	if strings.Contains(btree.DDL(), "USING") {
		t.Errorf("btree DDL = %q", btree.DDL())
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name:    "empty name",
			builder: func() (*IndexDefinition, error) { return NewIndex("").On("t").Column("x").Build() },
			wantErr: "index name is required",
		},
		{
			name:    "invalid characters",
			builder: func() (*IndexDefinition, error) { return NewIndex("ix; drop").On("t").Column("x").Build() },
			wantErr: "invalid characters",
		},
		{
			name:    "no table",
			builder: func() (*IndexDefinition, error) { return NewIndex("ix").Column("x").Build() },
			wantErr: "table is required",
		},
		{
			name:    "no columns",
			builder: func() (*IndexDefinition, error) { return NewIndex("ix").On("t").Build() },
			wantErr: "at least one column",
		},
		{
			name:    "duplicate column",
			builder: func() (*IndexDefinition, error) { return NewIndex("ix").On("t").Column("a", "a").Build() },
			wantErr: "duplicate column",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRecordIndexes_Valid(t *testing.T) {
	for _, idx := range RecordIndexes() {
		if err := idx.Validate(); err != nil {
			t.Errorf("%s: %v", idx.Name, err)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := EscapeLike(`a%b_c\d`); got != `a\%b\_c\\d` {
		t.Errorf("EscapeLike = %q", got)
	}
}
