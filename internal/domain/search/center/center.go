package center

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// Center is a resolved point from which radius distance is measured.
type Center struct {
	label     string
	point     geo.Point
	precision geo.Precision
}

// New creates a search center. Label is the original token (zip or "City, ST").
func New(label string, r geo.Resolution) (Center, error) {
	if strings.TrimSpace(label) == "" {
		return Center{}, fmt.Errorf("center label is required")
	}
	if !r.Point.Valid() {
		return Center{}, fmt.Errorf("invalid center point %s", r.Point)
	}
	return Center{label: label, point: r.Point, precision: r.Precision}, nil
}

// CityLabel renders "City, ST" or just "City" when state is empty.
func CityLabel(city, state string) string {
	city = strings.TrimSpace(city)
	if state = geo.NormalizeState(state); state != "" {
		return city + ", " + state
	}
	return city
}

// Label returns the original location token.
func (c Center) Label() string { return c.label }

// Point returns the center coordinate.
func (c Center) Point() geo.Point { return c.point }

// Precision returns how the center was resolved.
func (c Center) Precision() geo.Precision { return c.precision }
