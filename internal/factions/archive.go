package factions

import "sort"

// Entry is an archive record. Immutable unless expunged. See design doc
// Section 3 (Archive entry).
type Entry struct {
	ID           string   `json:"id"`
	AuthorAgent  string   `json:"author_agent_id"`
	Subject      string   `json:"subject"`
	Content      string   `json:"content"`
	TickWritten  uint64   `json:"tick_written"`
	TimesRead    int      `json:"times_read"`
	Authentic    bool     `json:"authentic"` // false = forged
	Disputes     []string `json:"disputes,omitempty"`
	Expunged     bool     `json:"expunged"`
}

// Archive is a faction's ordered collection of written records.
type Archive struct {
	Entries []*Entry `json:"entries"`
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// Write appends a new entry. Write-time gating (HQ presence, role/trait
// permission) is enforced by the action executor, not here.
func (a *Archive) Write(e *Entry) {
	a.Entries = append(a.Entries, e)
}

// Get returns the entry with the given ID, or nil.
func (a *Archive) Get(id string) *Entry {
	for _, e := range a.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Expunge marks an entry as destroyed; it remains in the slice (append-only
// store) but is excluded from selection and reading.
func (a *Archive) Expunge(id string) bool {
	e := a.Get(id)
	if e == nil {
		return false
	}
	e.Expunged = true
	return true
}

// Live returns every non-expunged entry, in insertion (tick-written) order.
func (a *Archive) Live() []*Entry {
	out := make([]*Entry, 0, len(a.Entries))
	for _, e := range a.Entries {
		if !e.Expunged {
			out = append(out, e)
		}
	}
	return out
}

// readerScore implements the Reader's entry-selection rule (Section
// 4.3.4): every live entry reinforces faction loyalty (+0.3); an entry
// whose subject is the current leader embarrasses them, which the Reader
// either leans into (+0.2) or avoids (−0.4) depending on the Reader's own
// loyalty; an entry read at least once is deprioritized (−0.2) in favor of
// reinforcing less-familiar ones.
func readerScore(e *Entry, leaderID string, readerLoyal bool) float64 {
	score := 0.3
	if leaderID != "" && e.Subject == leaderID {
		if readerLoyal {
			score -= 0.4
		} else {
			score += 0.2
		}
	}
	if e.TimesRead > 0 {
		score -= 0.2
	}
	return score
}

// SelectForRitual picks the top n live entries for recitation by the
// Reader's scoring rule, breaking ties by fewer reads first and then by ID
// for determinism. See design
// doc Section 4.3.4 and scenario 3 (Ritual reinforcement).
func (a *Archive) SelectForRitual(n int, leaderID string, readerLoyal bool) []*Entry {
	live := a.Live()
	sort.Slice(live, func(i, j int) bool {
		si, sj := readerScore(live[i], leaderID, readerLoyal), readerScore(live[j], leaderID, readerLoyal)
		if si != sj {
			return si > sj
		}
		if live[i].TimesRead != live[j].TimesRead {
			return live[i].TimesRead < live[j].TimesRead
		}
		return live[i].ID < live[j].ID
	})
	if n > len(live) {
		n = len(live)
	}
	return live[:n]
}

// MarkRead increments TimesRead for an entry.
func (a *Archive) MarkRead(id string) {
	if e := a.Get(id); e != nil {
		e.TimesRead++
	}
}
