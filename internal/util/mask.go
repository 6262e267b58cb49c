package util

// MaskCode redacts an access code for request-path logging.
func MaskCode(code string) string {
	if len(code) <= 4 {
		return "****"
	}
	return code[:4] + "-****"
}
