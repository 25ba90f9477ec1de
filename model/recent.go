package model

const MaxRecentPlaces = 5

type RecentPlace struct {
	DisplayName string
	ExternalID  string
}

// RecentPlaces is a most-recently-used list of searched places, newest
// first, unique by ExternalID and never longer than MaxRecentPlaces.
type RecentPlaces struct {
	items []RecentPlace
}

// Add moves p to the front, dropping any older entry with the same id.
func (r *RecentPlaces) Add(p RecentPlace) {
	next := make([]RecentPlace, 0, MaxRecentPlaces)
	next = append(next, p)
	for _, item := range r.items {
		if item.ExternalID == p.ExternalID {
			continue
		}
		if len(next) == MaxRecentPlaces {
			break
		}
		next = append(next, item)
	}
	r.items = next
}

func (r *RecentPlaces) Items() []RecentPlace {
	out := make([]RecentPlace, len(r.items))
	copy(out, r.items)
	return out
}

func (r *RecentPlaces) Len() int {
	return len(r.items)
}
