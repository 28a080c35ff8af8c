package tabula

var optionMaxRows = 50

// SetOptionMaxRows changes the maximum number of rows rendered by the
// String methods before the output is truncated (default 50).
func SetOptionMaxRows(n int) {
	optionMaxRows = n
}
