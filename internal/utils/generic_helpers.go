package utils

func Contains[T comparable](in []T, want T) bool {
	for _, v := range in {
		if v == want {
			return true
		}
	}
	return false
}
