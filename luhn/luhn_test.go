package luhn_test

import (
	"strconv"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/cardledger/luhn"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"visa test number", "4012888888881881", true},
		{"visa ones", "4111111111111111", true},
		{"mastercard test number", "5555555555554444", true},
		{"amex test number", "378282246310005", true},
		{"classic example", "79927398713", true},
		{"all zeros", "0000000000000000", true},
		{"wrong check digit", "4012888888881882", false},
		{"transposed digits", "4012888888881818", false},
		{"trailing one", "0000000000000001", false},
		{"empty", "", false},
		{"letters", "4012abcd88881881", false},
		{"spaces", "4012 8888 8888 1881", false},
		{"dashes", "4012-8888-8888-1881", false},
		{"unicode digit", "401288888888188١", false},
		{"single zero", "0", true},
		{"single nonzero", "7", false},
		{"two digits", "18", true},
		{"two digits invalid", "19", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, luhn.Valid(tt.number))
		})
	}
}

func TestValidSingleDigits(t *testing.T) {
	for d := 0; d <= 9; d++ {
		assert.Equal(t, d == 0, luhn.Valid(strconv.Itoa(d)), "digit %d", d)
	}
}

func TestValidDetectsEverySingleDigitSubstitution(t *testing.T) {
	valid := []string{
		"4012888888881881",
		"4111111111111111",
		"5555555555554444",
		"378282246310005",
		"79927398713",
		"18",
	}

	for _, number := range valid {
		t.Run(number, func(t *testing.T) {
			assert.True(t, luhn.Valid(number))

			for i := 0; i < len(number); i++ {
				for d := byte('0'); d <= '9'; d++ {
					if d == number[i] {
						continue
					}
					flipped := number[:i] + string(d) + number[i+1:]
					assert.False(t, luhn.Valid(flipped), "substitution at %d: %s", i, flipped)
				}
			}
		})
	}
}

func TestCheckDigit(t *testing.T) {
	tests := []struct {
		payload string
		want    int
	}{
		{"401288888888188", 1},
		{"411111111111111", 1},
		{"7992739871", 3},
		{"1", 8},
		{"000000000000000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := luhn.CheckDigit(tt.payload)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, luhn.Valid(tt.payload+strconv.Itoa(got)))
		})
	}

	t.Run("empty", func(t *testing.T) {
		_, err := luhn.CheckDigit("")
		assert.IsError(t, err, luhn.ErrEmptyPayload)
	})

	t.Run("non-digit", func(t *testing.T) {
		_, err := luhn.CheckDigit("12a4")
		assert.Error(t, err)
	})
}

func FuzzValid(f *testing.F) {
	seeds := []string{
		"4012888888881881",
		"0000000000000000",
		"79927398713",
		"",
		"0",
		"abc",
		"4012 8888",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, number string) {
		got := luhn.Valid(number)

		for i := 0; i < len(number); i++ {
			if number[i] < '0' || number[i] > '9' {
				if got {
					t.Fatalf("Valid(%q) accepted a non-digit", number)
				}
				return
			}
		}
		if number == "" {
			if got {
				t.Fatal("Valid accepted empty input")
			}
			return
		}

		digit, err := luhn.CheckDigit(number[:len(number)-1])
		if len(number) == 1 {
			if got != (number == "0") {
				t.Fatalf("Valid(%q) = %v", number, got)
			}
			return
		}
		if err != nil {
			t.Fatalf("CheckDigit failed on digits: %v", err)
		}
		want := int(number[len(number)-1]-'0') == digit
		if got != want {
			t.Fatalf("Valid(%q) = %v, check digit is %d", number, got, digit)
		}
	})
}
