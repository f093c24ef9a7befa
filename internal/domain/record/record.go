package record

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxIDLength is the maximum record identifier length.
const MaxIDLength = 64

// Attrs carries the raw fields of a directory record.
type Attrs struct {
	ID         string
	FirstName  string
	LastName   string // only the first letter is retained
	Profession string
	Office     string
	City       string
	State      string
	ZipCode    string
	Bio        string
	Skills     []string
	Active     bool
	UpdatedAt  time.Time
	Point      *geo.Point
}

// Record is a directory entry (immutable value object).
type Record struct {
	id          string
	firstName   string
	lastInitial string
	profession  string
	office      string
	city        string
	state       string
	zipCode     string
	bio         string
	skills      []string
	active      bool
	updatedAt   time.Time
	point       *geo.Point
}

// New validates and creates a Record.
// ID: ^[a-zA-Z0-9_-]+$, 1-64 chars. First name required. The zip code is kept
// verbatim (it may be malformed); bio markup is preserved.
func New(a Attrs) (Record, error) {
	if a.ID == "" {
		return Record{}, fmt.Errorf("record ID is required")
	}
	if len(a.ID) > MaxIDLength {
		return Record{}, fmt.Errorf("record ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(a.ID) {
		return Record{}, fmt.Errorf("record ID must be alphanumeric with underscores and hyphens")
	}
	if strings.TrimSpace(a.FirstName) == "" {
		return Record{}, fmt.Errorf("first name is required")
	}
	if a.Point != nil && !a.Point.Valid() {
		return Record{}, fmt.Errorf("invalid point %s", a.Point)
	}

	return Record{
		id:          a.ID,
		firstName:   strings.TrimSpace(a.FirstName),
		lastInitial: Initial(a.LastName),
		profession:  strings.TrimSpace(a.Profession),
		office:      strings.TrimSpace(a.Office),
		city:        strings.TrimSpace(a.City),
		state:       geo.NormalizeState(a.State),
		zipCode:     a.ZipCode,
		bio:         a.Bio,
		skills:      cloneSkills(a.Skills),
		active:      a.Active,
		updatedAt:   a.UpdatedAt,
		point:       clonePoint(a.Point),
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
// LastName is expected to already hold the stored initial.
func Reconstruct(a Attrs) Record {
	return Record{
		id:          a.ID,
		firstName:   a.FirstName,
		lastInitial: a.LastName,
		profession:  a.Profession,
		office:      a.Office,
		city:        a.City,
		state:       a.State,
		zipCode:     a.ZipCode,
		bio:         a.Bio,
		skills:      a.Skills,
		active:      a.Active,
		updatedAt:   a.UpdatedAt,
		point:       a.Point,
	}
}

// Initial returns the uppercased first letter of a surname, or "" when empty.
func Initial(lastName string) string {
	s := strings.TrimSpace(lastName)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// FirstName returns the given name.
func (r *Record) FirstName() string { return r.firstName }

// LastInitial returns the surname initial.
func (r *Record) LastInitial() string { return r.lastInitial }

// Profession returns the profession label.
func (r *Record) Profession() string { return r.profession }

// Office returns the owning office label.
func (r *Record) Office() string { return r.office }

// City returns the city.
func (r *Record) City() string { return r.city }

// State returns the 2-letter state code.
func (r *Record) State() string { return r.state }

// ZipCode returns the zip code exactly as stored.
func (r *Record) ZipCode() string { return r.zipCode }

// Bio returns the free-text bio.
func (r *Record) Bio() string { return r.bio }

// Skills returns the skill keywords.
func (r *Record) Skills() []string { return r.skills }

// Active reports whether the record is visible to search.
func (r *Record) Active() bool { return r.active }

// UpdatedAt returns the last modification time.
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

// Point returns the precomputed location, nil when the store has none.
func (r *Record) Point() *geo.Point { return r.point }

// DisplayName renders "First L." (or just the first name without an initial).
func (r *Record) DisplayName() string {
	if r.lastInitial == "" {
		return r.firstName
	}
	return r.firstName + " " + r.lastInitial + "."
}

func cloneSkills(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func clonePoint(p *geo.Point) *geo.Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
