package selection

// Store is the authoritative, ordered list of saved selections.
type Store struct {
	Selections []Selection `json:"selections"`
}

// SaveResult reports what Save did with a valid candidate.
type SaveResult struct {
	// Duplicate is set when a record with the same key and chip set already
	// exists; the store is left unchanged.
	Duplicate bool `json:"duplicate"`
	// Replaced is set when a record with the same key was overwritten.
	Replaced bool `json:"replaced"`
	Index    int  `json:"index"`
}

// Save normalizes and validates the candidate and then replaces the record
// with the same (node, scheme, property) or appends it. A record with the same
// key and an equal chip set is treated as a duplicate.
func (st *Store) Save(candidate Selection) (SaveResult, error) {
	candidate = candidate.Normalize()
	if err := candidate.Validate(); err != nil {
		return SaveResult{}, err
	}

	key := candidate.Key()
	for i, existing := range st.Selections {
		if existing.Key() != key {
			continue
		}
		if SameChips(existing.Chips, candidate.Chips) {
			return SaveResult{Duplicate: true, Index: i}, nil
		}
		st.Selections[i] = candidate.Clone()
		return SaveResult{Replaced: true, Index: i}, nil
	}

	st.Selections = append(st.Selections, candidate.Clone())
	return SaveResult{Index: len(st.Selections) - 1}, nil
}

// DeleteGroup removes every selection of the (node, scheme) row and returns
// how many were removed.
func (st *Store) DeleteGroup(key GroupKey) int {
	kept := st.Selections[:0]
	removed := 0
	for _, s := range st.Selections {
		if s.GroupKey() == key {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	// clear the tail so removed entries are not retained by the backing array
	for i := len(kept); i < len(st.Selections); i++ {
		st.Selections[i] = Selection{}
	}
	st.Selections = kept
	return removed
}

// List returns a copy of the saved selections in insertion order.
func (st *Store) List() []Selection {
	out := make([]Selection, len(st.Selections))
	for i, s := range st.Selections {
		out[i] = s.Clone()
	}
	return out
}

func (st *Store) Len() int {
	return len(st.Selections)
}

// Groups projects the store into grouped rows.
func (st *Store) Groups() []GroupedSelection {
	return Aggregate(st.Selections)
}
