package directory

import (
	"strings"
	"time"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/record"
)

// FromRow hydrates a domain record from a store row.
func FromRow(row db.RecordRow) record.Record {
	var point *geo.Point
	if row.Lat != nil && row.Lon != nil {
		point = &geo.Point{Lat: *row.Lat, Lon: *row.Lon}
	}
	var updated time.Time
	if row.UpdatedAt > 0 {
		updated = time.Unix(row.UpdatedAt, 0).UTC()
	}
	return record.Reconstruct(record.Attrs{
		ID:         row.ID,
		FirstName:  row.FirstName,
		LastName:   row.LastInitial,
		Profession: row.Profession,
		Office:     row.Office,
		City:       row.City,
		State:      row.State,
		ZipCode:    row.ZipCode,
		Bio:        row.Bio,
		Skills:     splitSkills(row.Skills),
		Active:     row.Active,
		UpdatedAt:  updated,
		Point:      point,
	})
}

func fromRows(rows []db.RecordRow) []record.Record {
	out := make([]record.Record, len(rows))
	for i, row := range rows {
		out[i] = FromRow(row)
	}
	return out
}

// ToRow flattens a domain record for storage.
func ToRow(r *record.Record) db.RecordRow {
	row := db.RecordRow{
		ID:          r.ID(),
		FirstName:   r.FirstName(),
		LastInitial: r.LastInitial(),
		Profession:  r.Profession(),
		Office:      r.Office(),
		City:        r.City(),
		State:       r.State(),
		ZipCode:     r.ZipCode(),
		Bio:         r.Bio(),
		Skills:      strings.Join(r.Skills(), ","),
		Active:      r.Active(),
	}
	if !r.UpdatedAt().IsZero() {
		row.UpdatedAt = r.UpdatedAt().Unix()
	}
	return row
}

func splitSkills(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
