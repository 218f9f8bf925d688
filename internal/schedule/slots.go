package schedule

import "sort"

// ClinicSlots is the closed set of bookable slot labels, in canonical order.
// Extending it is a configuration change, not a runtime input.
var ClinicSlots = []string{
	"08:00 AM", "09:00 AM", "10:00 AM", "11:00 AM",
	"12:00 PM", "01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM",
}

var slotRank = func() map[string]int {
	m := make(map[string]int, len(ClinicSlots))
	for i, s := range ClinicSlots {
		m[s] = i
	}
	return m
}()

// ValidSlot reports whether label is one of the clinic slot labels.
func ValidSlot(label string) bool {
	_, ok := slotRank[label]
	return ok
}

// SortSlots returns a deduplicated copy of labels in canonical clinic-hour
// order. Lexical ordering would put "12:00 PM" after "01:00 PM", so sorting
// goes through the enumeration rank instead. Unknown labels are dropped.
func SortSlots(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := slotRank[l]; !ok || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return slotRank[out[i]] < slotRank[out[j]]
	})
	return out
}
