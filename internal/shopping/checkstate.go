package shopping

// ApplyCheckState marks items whose normalized name is in checked. Quantity,
// unit and order are untouched.
func ApplyCheckState(items []AggregatedItem, checked CheckState) []AggregatedItem {
	out := make([]AggregatedItem, len(items))
	for i, it := range items {
		it.Checked = checked.Contains(it.Name)
		out[i] = it
	}
	return out
}

// ToggleChecked flips name in the checked set. Keys for items no longer on
// the list are kept; they apply again if the item comes back.
func ToggleChecked(checked CheckState, name string) CheckState {
	return checked.Toggle(name)
}
