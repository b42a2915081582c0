package outline

// Move returns a copy of list with the element at from reinserted at to,
// shifting the elements in between. Out-of-range indexes return list unchanged.
func Move[T any](list []T, from, to int) []T {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return list
	}
	out := make([]T, 0, len(list))
	moved := list[from]
	for i, v := range list {
		if i == from {
			continue
		}
		if len(out) == to {
			out = append(out, moved)
		}
		out = append(out, v)
	}
	if len(out) == to {
		out = append(out, moved)
	}
	return out
}

// FullPath joins the labels of a node's ancestor chain, root first, with sep.
// Unlabelled ancestors are skipped.
func FullPath(labels []string, sep string) string {
	out := ""
	for _, l := range labels {
		if l == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += l
	}
	return out
}
