package record

// Candidate is the slim projection of a record used by application-tier radius
// filtering: the zip to resolve plus the keys ranking needs.
type Candidate struct {
	ID          string
	ZipCode     string
	FirstName   string
	LastInitial string
	Profession  string
	City        string
	State       string
}
