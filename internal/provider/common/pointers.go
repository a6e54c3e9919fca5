package common

// GetString returns the empty string for a nil pointer.
func GetString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
