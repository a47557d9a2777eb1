package grades

import "math"

const (
	// AbsentMark is the text written for students with no recorded score
	AbsentMark = "Vắng"
	// InvalidMark is the text written for scores outside the 0-10 scale
	InvalidMark = "Không hợp lệ"
	// wordTen is the word for a full score
	wordTen = "Mười"
)

// numberWords covers the integer parts 0 through 9.
var numberWords = [10]string{
	"Không", "Một", "Hai", "Ba", "Bốn", "Năm", "Sáu", "Bảy", "Tám", "Chín",
}

// Words converts a score on the 0-10 scale to its Vietnamese word form.
// A nil score means the student was absent. Fractions are only
// distinguished at half-point granularity: a fractional part rounding to
// 0.5 (one decimal) gets the " rưỡi" suffix, any other remainder degrades
// to the integer word alone.
func Words(score *float64) string {
	if score == nil {
		return AbsentMark
	}

	s := *score
	if math.IsNaN(s) || s < 0 || s > 10 {
		return InvalidMark
	}

	integer := int(s)
	if integer == 10 {
		return wordTen
	}

	frac := s - float64(integer)
	if frac == 0 {
		return numberWords[integer]
	}
	if math.Round(frac*10) == 5 {
		return numberWords[integer] + " rưỡi"
	}

	return numberWords[integer]
}

// IsHalf reports whether the score's fractional part rounds to 0.5 at one
// decimal, which earns the separate half-point bubble.
func IsHalf(s float64) bool {
	return math.Round((s-math.Floor(s))*10) == 5
}
