package orm_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/mickamy/blogly/orm"
	"github.com/mickamy/blogly/scope"
)

type note struct {
	ID        int
	Title     string
	CreatedAt time.Time
}

var noteColumns = []string{"id", "title", "created_at"}

func scanNote(_ *sql.Rows) (note, error) {
	return note{}, nil
}

func noteColValPairs(n *note, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "title", "created_at"}, []any{n.ID, n.Title, n.CreatedAt}
	}
	return []string{"title", "created_at"}, []any{n.Title, n.CreatedAt}
}

func setNotePK(n *note, id int64) {
	n.ID = int(id)
}

func setNoteCreatedAt(n *note, now time.Time) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
}

func newNoteQuery(rec *orm.Recorder) *orm.Query[note] {
	return orm.NewQuery(rec, orm.Schema[note]{
		Table:     "notes",
		Columns:   noteColumns,
		PK:        "id",
		Scan:      scanNote,
		Values:    noteColValPairs,
		SetPK:     setNotePK,
		OnCreate:  setNoteCreatedAt,
		CreatedAt: []string{"created_at"},
	})
}

type link struct {
	NoteID int
	TagID  int
}

func linkColValPairs(l *link, _ bool) ([]string, []any) {
	return []string{"note_id", "tag_id"}, []any{l.NoteID, l.TagID}
}

func newLinkQuery(rec *orm.Recorder) *orm.Query[link] {
	scan := func(*sql.Rows) (link, error) { return link{}, nil }
	return orm.NewQuery(rec, orm.Schema[link]{
		Table:   "notes_tags",
		Columns: []string{"note_id", "tag_id"},
		PK:      "note_id",
		Scan:    scan,
		Values:  linkColValPairs,
	})
}

// --- SELECT ---

func TestBuildSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect orm.Dialect
		build   func(q *orm.Query[note]) *orm.Query[note]
		want    string
		args    int
	}{
		{
			name:    "all",
			dialect: orm.MySQL,
			build:   func(q *orm.Query[note]) *orm.Query[note] { return q },
			want:    "SELECT `id`, `title`, `created_at` FROM `notes`",
		},
		{
			name:    "multiple where",
			dialect: orm.MySQL,
			build: func(q *orm.Query[note]) *orm.Query[note] {
				return q.Where("title = ?", "hello").Where("id > ?", 10)
			},
			want: "SELECT `id`, `title`, `created_at` FROM `notes` WHERE title = ? AND id > ?",
			args: 2,
		},
		{
			name:    "order limit offset",
			dialect: orm.MySQL,
			build: func(q *orm.Query[note]) *orm.Query[note] {
				return q.OrderBy("created_at DESC").OrderBy("id DESC").Limit(5).Offset(10)
			},
			want: "SELECT `id`, `title`, `created_at` FROM `notes` ORDER BY created_at DESC, id DESC LIMIT 5 OFFSET 10",
		},
		{
			name:    "postgres placeholders",
			dialect: orm.PostgreSQL,
			build: func(q *orm.Query[note]) *orm.Query[note] {
				return q.Where("title = ?", "hello").Scopes(scope.In("id", []int{1, 2}))
			},
			want: `SELECT "id", "title", "created_at" FROM "notes" WHERE title = $1 AND id IN ($2, $3)`,
			args: 3,
		},
		{
			name:    "sqlite keeps question marks",
			dialect: orm.SQLite,
			build: func(q *orm.Query[note]) *orm.Query[note] {
				return q.Scopes(scope.In("id", []int{1, 2}))
			},
			want: `SELECT "id", "title", "created_at" FROM "notes" WHERE id IN (?, ?)`,
			args: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := orm.NewRecorder(tt.dialect)
			_, _ = tt.build(newNoteQuery(rec)).All(t.Context())

			got := rec.Last()
			if got.SQL != tt.want {
				t.Errorf("SQL = %q, want %q", got.SQL, tt.want)
			}
			if len(got.Args) != tt.args {
				t.Errorf("Args = %v, want %d args", got.Args, tt.args)
			}
		})
	}
}

func TestBuildSelectWithScopes(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	q := newNoteQuery(rec)

	_, _ = q.Scopes(
		scope.Where("title = ?", "hello"),
		scope.OrderBy("id DESC"),
		scope.Limit(5),
		scope.Offset(10),
	).All(t.Context())

	got := rec.Last()
	want := "SELECT `id`, `title`, `created_at` FROM `notes` WHERE title = ? ORDER BY id DESC LIMIT 5 OFFSET 10"
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

func TestQueryImmutability(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	base := newNoteQuery(rec)

	_ = base.Where("title = ?", "hello")
	_ = base.OrderBy("id")
	_ = base.Limit(10)
	_ = base.Offset(5)
	_ = base.Preload("Tags")

	_, _ = base.All(t.Context())

	got := rec.Last()
	want := "SELECT `id`, `title`, `created_at` FROM `notes`"
	if got.SQL != want {
		t.Errorf("base query was mutated: SQL = %q", got.SQL)
	}
}

func TestFirstAddsLimit(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	_, err := newNoteQuery(rec).Where("id = ?", 3).First(t.Context())
	if err == nil {
		t.Fatal("expected the mock query error to surface")
	}

	got := rec.Last()
	want := "SELECT `id`, `title`, `created_at` FROM `notes` WHERE id = ? LIMIT 1"
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

func TestBuildCount(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.PostgreSQL)
	_, _ = newNoteQuery(rec).Where("id > ?", 1).Count(t.Context())

	got := rec.Last()
	want := `SELECT COUNT(*) FROM "notes" WHERE id > $1`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

// --- INSERT ---

func TestCreateMySQLSetsPKFromLastInsertID(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	n := note{Title: "hello"}
	if err := newNoteQuery(rec).Create(t.Context(), &n); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got := rec.Last()
	want := "INSERT INTO `notes` (`title`, `created_at`) VALUES (?, ?)"
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if n.ID != 41 {
		t.Errorf("ID = %d, want 41", n.ID)
	}
}

func TestCreatePostgreSQLUsesReturning(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.PostgreSQL)
	n := note{Title: "hello"}
	_ = newNoteQuery(rec).Create(t.Context(), &n)

	got := rec.Last()
	want := `INSERT INTO "notes" ("title", "created_at") VALUES ($1, $2) RETURNING "id"`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

func TestCreateStampsCreatedAtFromClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 3, 9, 14, 5, 0, 123456789, time.FixedZone("JST", 9*60*60))
	ctx := orm.WithClock(t.Context(), orm.ClockFunc(func() time.Time { return fixed }))

	rec := orm.NewRecorder(orm.SQLite)
	n := note{Title: "hello"}
	if err := newNoteQuery(rec).Create(ctx, &n); err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := fixed.UTC().Truncate(time.Microsecond)
	if !n.CreatedAt.Equal(want) || n.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want %v", n.CreatedAt, want)
	}
	if got := rec.Last().Args[1]; got != want {
		t.Errorf("created_at arg = %v, want %v", got, want)
	}
}

func TestCreateAllWithoutAutoPK(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.PostgreSQL)
	links := []*link{{NoteID: 1, TagID: 2}, {NoteID: 1, TagID: 3}}
	if err := newLinkQuery(rec).CreateAll(t.Context(), links); err != nil {
		t.Fatalf("CreateAll: %v", err)
	}

	got := rec.Last()
	want := `INSERT INTO "notes_tags" ("note_id", "tag_id") VALUES ($1, $2), ($3, $4)`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 4 {
		t.Errorf("Args = %v, want 4 args", got.Args)
	}
}

func TestCreateAllEmptyIsNoop(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	if err := newLinkQuery(rec).CreateAll(t.Context(), nil); err != nil {
		t.Fatalf("CreateAll: %v", err)
	}
	if len(rec.Statements) != 0 {
		t.Errorf("statements = %v, want none", rec.Statements)
	}
}

func TestCreateClassifiesConstraintViolation(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	rec.ExecErr = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'go' for key 'name'"}

	err := newNoteQuery(rec).Create(t.Context(), &note{Title: "go"})
	if !errors.Is(err, orm.ErrConstraint) {
		t.Fatalf("err = %v, want ErrConstraint", err)
	}
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		t.Errorf("driver error lost from chain: %v", err)
	}
}

// --- UPDATE ---

func TestUpdateSkipsCreatedAt(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	n := note{ID: 1, Title: "edited", CreatedAt: time.Now()}
	if err := newNoteQuery(rec).Update(t.Context(), &n); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := rec.Last()
	want := "UPDATE `notes` SET `title` = ? WHERE `id` = ?"
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
	if len(got.Args) != 2 || got.Args[0] != "edited" || got.Args[1] != 1 {
		t.Errorf("Args = %v", got.Args)
	}
}

func TestUpdatePostgreSQL(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.PostgreSQL)
	n := note{ID: 1, Title: "edited"}
	_ = newNoteQuery(rec).Update(t.Context(), &n)

	got := rec.Last()
	want := `UPDATE "notes" SET "title" = $1 WHERE "id" = $2`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

// --- DELETE ---

func TestDelete(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.SQLite)
	n, err := newLinkQuery(rec).Scopes(scope.In("note_id", []int{4, 5})).Delete(t.Context())
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n != 1 {
		t.Errorf("affected = %d, want 1", n)
	}

	got := rec.Last()
	want := `DELETE FROM "notes_tags" WHERE note_id IN (?, ?)`
	if got.SQL != want {
		t.Errorf("SQL = %q, want %q", got.SQL, want)
	}
}

func TestDeleteWithoutWhereReturnsError(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	if _, err := newNoteQuery(rec).Delete(t.Context()); !errors.Is(err, orm.ErrUnscopedDelete) {
		t.Fatalf("err = %v, want ErrUnscopedDelete", err)
	}
	if len(rec.Statements) != 0 {
		t.Errorf("statements = %v, want none", rec.Statements)
	}
}

// --- Join table ---

var notesTags = orm.JoinTable{Name: "notes_tags", Source: "note_id", Target: "tag_id"}

func TestLoadLinksSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table orm.JoinTable
		want  string
	}{
		{"forward", notesTags, `SELECT "note_id", "tag_id" FROM "notes_tags" WHERE "note_id" IN ($1, $2) ORDER BY "tag_id"`},
		{"reverse", notesTags.Reverse(), `SELECT "tag_id", "note_id" FROM "notes_tags" WHERE "tag_id" IN ($1, $2) ORDER BY "note_id"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := orm.NewRecorder(orm.PostgreSQL)
			_, _ = orm.LoadLinks(t.Context(), rec, tt.table, []int{1, 2})
			if got := rec.Last().SQL; got != tt.want {
				t.Errorf("SQL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadLinksEmpty(t *testing.T) {
	t.Parallel()

	rec := orm.NewRecorder(orm.MySQL)
	links, err := orm.LoadLinks[int](t.Context(), rec, notesTags, nil)
	if err != nil {
		t.Fatalf("LoadLinks: %v", err)
	}
	if len(links.Targets()) != 0 || links.Of(1) != nil {
		t.Errorf("links = %+v, want empty", links)
	}
	if len(rec.Statements) != 0 {
		t.Errorf("statements = %v, want none", rec.Statements)
	}
}
