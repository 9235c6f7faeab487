package invoice

import (
	"fmt"
	"math"
	"strings"
)

var ones = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
	"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

const (
	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
)

func twoDigits(n int64) string {
	if n < 20 {
		return ones[n]
	}
	s := tens[n/10]
	if n%10 > 0 {
		s += " " + ones[n%10]
	}
	return s
}

func threeDigits(n int64) string {
	if n < 100 {
		return twoDigits(n)
	}
	s := ones[n/100] + " Hundred"
	if n%100 > 0 {
		s += " and " + twoDigits(n%100)
	}
	return s
}

// indianScale spells n (> 0) using crore, lakh and thousand groups. Crore
// counts of 100 or more are spelled with the same scale.
func indianScale(n int64) string {
	var parts []string
	if c := n / crore; c > 0 {
		if c < 1000 {
			parts = append(parts, threeDigits(c)+" Crore")
		} else {
			parts = append(parts, indianScale(c)+" Crore")
		}
		n %= crore
	}
	if l := n / lakh; l > 0 {
		parts = append(parts, threeDigits(l)+" Lakh")
		n %= lakh
	}
	if t := n / thousand; t > 0 {
		parts = append(parts, threeDigits(t)+" Thousand")
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, threeDigits(n))
	}
	return strings.Join(parts, " ")
}

// AmountInWords renders a rupee amount the way it is written on Indian
// financial documents, e.g. 123456.75 becomes "One Lakh Twenty Three
// Thousand Four Hundred and Fifty Six Rupees and 75 Paise".
func AmountInWords(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}

	prefix := ""
	if amount < 0 {
		prefix = "Minus "
		amount = -amount
	}

	rupees := int64(math.Floor(amount))
	paise := int64(math.Round((amount - math.Floor(amount)) * 100))
	if paise >= 100 {
		rupees++
		paise -= 100
	}

	var b strings.Builder
	b.WriteString(prefix)
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(indianScale(rupees))
	}
	b.WriteString(" Rupees")
	if paise > 0 {
		fmt.Fprintf(&b, " and %d Paise", paise)
	}
	return b.String()
}
