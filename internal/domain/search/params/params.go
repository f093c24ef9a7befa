package params

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
)

// Hard limits that clamping cannot fix.
const (
	MaxZipCodes    = 25
	MaxKeywords    = 16
	MaxKeywordLen  = 128
	MaxProfessions = 32
)

// SortBy is the user-requested ordering key.
type SortBy string

// Sort keys.
const (
	SortName       SortBy = "name"
	SortLocation   SortBy = "location"
	SortProfession SortBy = "profession"
	SortDistance   SortBy = "distance"
)

// IsValid checks if the sort key is supported.
func (s SortBy) IsValid() bool {
	return s == SortName || s == SortLocation || s == SortProfession || s == SortDistance
}

// Direction is the sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Limits holds the clamping bounds, normally taken from config.
type Limits struct {
	DefaultPageSize    int
	MaxPageSize        int
	DefaultRadiusMiles float64
	MaxRadiusMiles     float64
}

// DefaultLimits returns the built-in bounds.
func DefaultLimits() Limits {
	return Limits{
		DefaultPageSize:    20,
		MaxPageSize:        100,
		DefaultRadiusMiles: 25,
		MaxRadiusMiles:     500,
	}
}

// Input is the raw, unvalidated search request.
type Input struct {
	Keywords      []string
	Professions   []string
	Office        string
	City          string
	State         string
	ZipCode       string
	ZipCodes      []string
	Radius        float64
	RadiusEnabled bool
	Page          int
	PageSize      int
	SortBy        string
	SortDirection string
}

// Params is a clamped, validated search request.
type Params struct {
	keywords      []string
	professions   []string
	office        string
	city          string
	state         string
	zipCodes      []string
	radius        float64
	radiusEnabled bool
	page          int
	pageSize      int
	sortBy        SortBy
	dir           Direction
}

// New clamps malformed values to defaults and rejects only inputs that exceed
// hard size limits. Defaults: page=1, sort=name asc.
func New(in Input, lim Limits) (Params, error) {
	p := Params{
		keywords:      splitList(in.Keywords),
		professions:   splitList(in.Professions),
		office:        strings.TrimSpace(in.Office),
		city:          strings.TrimSpace(in.City),
		state:         geo.NormalizeState(in.State),
		radiusEnabled: in.RadiusEnabled,
		page:          in.Page,
		pageSize:      in.PageSize,
		sortBy:        SortBy(strings.ToLower(strings.TrimSpace(in.SortBy))),
		dir:           Direction(strings.ToLower(strings.TrimSpace(in.SortDirection))),
	}

	zips := make([]string, 0, len(in.ZipCodes)+1)
	if in.ZipCode != "" {
		zips = append(zips, in.ZipCode)
	}
	zips = append(zips, in.ZipCodes...)
	p.zipCodes = splitList(zips)

	if len(p.zipCodes) > MaxZipCodes {
		return Params{}, fmt.Errorf("too many zip codes (max %d)", MaxZipCodes)
	}
	if len(p.keywords) > MaxKeywords {
		return Params{}, fmt.Errorf("too many keywords (max %d)", MaxKeywords)
	}
	for _, k := range p.keywords {
		if len(k) > MaxKeywordLen {
			return Params{}, fmt.Errorf("keyword too long (max %d chars)", MaxKeywordLen)
		}
	}
	if len(p.professions) > MaxProfessions {
		return Params{}, fmt.Errorf("too many professions (max %d)", MaxProfessions)
	}

	if p.page < 1 {
		p.page = 1
	}
	if p.pageSize < 1 {
		p.pageSize = lim.DefaultPageSize
	}
	if p.pageSize > lim.MaxPageSize {
		p.pageSize = lim.MaxPageSize
	}

	p.radius = in.Radius
	if math.IsNaN(p.radius) || math.IsInf(p.radius, 0) || p.radius <= 0 {
		p.radius = lim.DefaultRadiusMiles
	}
	if p.radius > lim.MaxRadiusMiles {
		p.radius = lim.MaxRadiusMiles
	}

	if !p.sortBy.IsValid() {
		p.sortBy = SortName
	}
	if p.dir != Asc && p.dir != Desc {
		p.dir = Asc
	}

	return p, nil
}

// Keywords returns the OR-matched keyword terms.
func (p *Params) Keywords() []string { return p.keywords }

// Professions returns the OR-matched profession labels.
func (p *Params) Professions() []string { return p.professions }

// Office returns the office label filter.
func (p *Params) Office() string { return p.office }

// City returns the city filter.
func (p *Params) City() string { return p.city }

// State returns the uppercased state filter.
func (p *Params) State() string { return p.state }

// ZipCodes returns the merged, de-duplicated zip tokens (not yet normalized).
func (p *Params) ZipCodes() []string { return p.zipCodes }

// RadiusMiles returns the clamped radius.
func (p *Params) RadiusMiles() float64 { return p.radius }

// RadiusRequested reports whether a radius search should run: the flag is set
// and there is a zip or a city to measure from.
func (p *Params) RadiusRequested() bool {
	return p.radiusEnabled && (len(p.zipCodes) > 0 || p.city != "")
}

// Page returns the 1-based page number.
func (p *Params) Page() int { return p.page }

// PageSize returns the page size.
func (p *Params) PageSize() int { return p.pageSize }

// Offset returns the row offset of the page.
func (p *Params) Offset() int { return (p.page - 1) * p.pageSize }

// SortBy returns the sort key.
func (p *Params) SortBy() SortBy { return p.sortBy }

// Direction returns the sort direction.
func (p *Params) Direction() Direction { return p.dir }

// Filters returns the non-location predicates (profession, office, keyword).
func (p *Params) Filters() (filter.Expression, error) {
	var conds []filter.Condition
	if len(p.professions) > 0 {
		c, err := filter.NewAnyOf(filter.Profession, p.professions...)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, c)
	}
	if p.office != "" {
		c, err := filter.NewAnyOf(filter.Office, p.office)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, c)
	}
	if len(p.keywords) > 0 {
		c, err := filter.NewContainsAny(filter.Keyword, p.keywords...)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, c)
	}
	return filter.NewExpression(conds...)
}

// ExactFilters returns Filters plus the plain location predicates used when no
// radius search runs: zip prefix (any of the typed zips), city equality and
// state equality.
func (p *Params) ExactFilters(includeZip bool) (filter.Expression, error) {
	expr, err := p.Filters()
	if err != nil {
		return filter.Expression{}, err
	}
	var conds []filter.Condition
	if includeZip && len(p.zipCodes) > 0 {
		c, err := filter.NewPrefix(filter.ZipCode, p.zipCodes...)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, c)
	}
	if p.city != "" {
		c, err := filter.NewAnyOf(filter.City, p.city)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, c)
	}
	if p.state != "" {
		c, err := filter.NewAnyOf(filter.State, p.state)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, c)
	}
	return expr.And(conds...)
}

// StateOnlyFilters returns Filters plus the state predicate, used when no
// radius center could be resolved.
func (p *Params) StateOnlyFilters() (filter.Expression, error) {
	expr, err := p.Filters()
	if err != nil {
		return filter.Expression{}, err
	}
	if p.state == "" {
		return expr, nil
	}
	c, err := filter.NewAnyOf(filter.State, p.state)
	if err != nil {
		return filter.Expression{}, err
	}
	return expr.And(c)
}

// splitList flattens comma lists, trims, drops blanks and removes duplicates
// while keeping first-seen order.
func splitList(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}
