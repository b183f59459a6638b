package dataset

// MemoryProvider serves an already-merged record slice. It backs tests and
// callers that assemble records from somewhere other than the CSV loader.
type MemoryProvider struct {
	records []Record
}

// NewMemoryProvider creates a provider over the given records. The slice is
// used as-is; callers must not mutate it afterwards.
func NewMemoryProvider(records []Record) *MemoryProvider {
	return &MemoryProvider{records: records}
}

// Filter returns the records matching q.
func (p *MemoryProvider) Filter(q Query) ([]Record, error) {
	return filterRecords(p.records, q), nil
}

// Crops returns the sorted unique crop names.
func (p *MemoryProvider) Crops() ([]string, error) {
	return uniqueSorted(p.records, func(r *Record) string { return r.Crop }), nil
}

// States returns the sorted unique state names.
func (p *MemoryProvider) States() ([]string, error) {
	return uniqueSorted(p.records, func(r *Record) string { return r.State }), nil
}

// Seasons returns the sorted unique season names, whitespace-trimmed.
func (p *MemoryProvider) Seasons() ([]string, error) {
	return uniqueSorted(p.records, func(r *Record) string { return r.SeasonTrimmed() }), nil
}
