package problem

// Record is a student's progress on one problem.
type Record struct {
	Completed bool `json:"completed"`
	Score     int  `json:"score"`
	Attempts  int  `json:"attempts"`
}

// SectionProgress maps problem id to its record.
type SectionProgress map[string]Record

// Progress maps section id to the section's records.
type Progress map[string]SectionProgress

// StudentProgress is the envelope returned by the progress endpoint.
type StudentProgress struct {
	Progress    Progress `json:"progress"`
	TotalPoints float64  `json:"total_points"`
	Badges      []string `json:"badges"`
}

// Section returns the records for sectionID and whether any exist.
func (p Progress) Section(sectionID string) (SectionProgress, bool) {
	sp, ok := p[sectionID]
	if !ok || len(sp) == 0 {
		return nil, false
	}
	return sp, true
}

// Completed reports whether problemID in sectionID is completed.
func (p Progress) Completed(sectionID, problemID string) bool {
	return p[sectionID][problemID].Completed
}

// Clone returns a deep copy.
func (p Progress) Clone() Progress {
	out := make(Progress, len(p))
	for sec, sp := range p {
		cp := make(SectionProgress, len(sp))
		for id, r := range sp {
			cp[id] = r
		}
		out[sec] = cp
	}
	return out
}

// Merge folds fresh into p and returns the result. Completion never
// reverses and attempts never decrease, so a stale or partial response
// cannot un-complete a problem within a session.
func (p Progress) Merge(fresh Progress) Progress {
	out := p.Clone()
	for sec, sp := range fresh {
		cur, ok := out[sec]
		if !ok {
			cur = make(SectionProgress, len(sp))
			out[sec] = cur
		}
		for id, r := range sp {
			old := cur[id]
			r.Completed = r.Completed || old.Completed
			r.Attempts = max(r.Attempts, old.Attempts)
			cur[id] = r
		}
	}
	return out
}
