package cmdutil

// SelectorSet returns a set of non-empty selector strings for membership
// checks.
func SelectorSet(selectors []string) map[string]struct{} {
	set := make(map[string]struct{}, len(selectors))
	for _, s := range selectors {
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

// FilterItems keeps the items whose key is among the selectors. When all
// selectors are blank the original slice is returned unchanged.
func FilterItems[T any](items []T, selectors []string, key func(T) string) []T {
	set := SelectorSet(selectors)
	if len(set) == 0 || key == nil {
		return items
	}
	result := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := set[key(item)]; ok {
			result = append(result, item)
		}
	}
	return result
}
