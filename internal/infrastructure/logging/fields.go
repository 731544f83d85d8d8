package logging

// MergeFields flattens key/value lists into one. A repeated key keeps the
// position of its first appearance and the value of its last. Pairs with a
// non-string or empty key are dropped, as is a trailing unpaired value.
func MergeFields(lists ...[]interface{}) []interface{} {
	size := 0
	for _, list := range lists {
		size += len(list)
	}
	out := make([]interface{}, 0, size)
	index := make(map[string]int, size/2)

	for _, list := range lists {
		for i := 0; i+1 < len(list); i += 2 {
			key, ok := list[i].(string)
			if !ok || key == "" {
				continue
			}
			if at, seen := index[key]; seen {
				out[at+1] = list[i+1]
				continue
			}
			index[key] = len(out)
			out = append(out, key, list[i+1])
		}
	}
	return out
}
