package observability

// SampleLimit caps how many identifying samples each diagnostic category
// retains; counts keep growing past the cap.
const SampleLimit = 10

// Diagnostics accumulates non-fatal findings from the parse and
// reconciliation phases so callers can assert on them instead of scraping
// log output. It is not safe for concurrent use; the pipeline is
// sequential.
type Diagnostics struct {
	DuplicateKeys          Tally
	UnmatchedTuples        Tally
	UnmatchedExceptionName Tally
}

// Tally is a count plus a capped sample of identifying detail strings.
type Tally struct {
	Count   int
	Samples []string
}

// Record increments the tally and keeps the detail string while under the
// sample cap.
func (t *Tally) Record(detail string) {
	t.Count++
	if len(t.Samples) < SampleLimit {
		t.Samples = append(t.Samples, detail)
	}
}

// NewDiagnostics returns an empty sink.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// DuplicateKey records a source row whose derived sub-district key was
// already taken.
func (d *Diagnostics) DuplicateKey(key string) {
	d.DuplicateKeys.Record(key)
}

// UnmatchedTuple records a scraped province/district pair that matched no
// canonical district.
func (d *Diagnostics) UnmatchedTuple(province, district string) {
	d.UnmatchedTuples.Record(province + "/" + district)
}

// UnmatchedException records an exception-rule sub-district name absent
// from its candidate pool.
func (d *Diagnostics) UnmatchedException(name string) {
	d.UnmatchedExceptionName.Record(name)
}

// Clean reports whether no diagnostics of any category were recorded.
func (d *Diagnostics) Clean() bool {
	return d.DuplicateKeys.Count == 0 &&
		d.UnmatchedTuples.Count == 0 &&
		d.UnmatchedExceptionName.Count == 0
}
