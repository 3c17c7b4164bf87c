package lexer

import "strconv"

// parseInt and parseFloat wrap strconv for the two numeric literal forms
// NextToken recognises. Kept separate from lexer.go so the scanning state
// machine stays free of strconv error-plumbing detail.

func parseInt(text string) (int32, error) {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, err
	}
	return int32(uint32(v)), nil
}

func parseFloat(text string) (float32, error) {
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}
