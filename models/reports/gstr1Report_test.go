package reports

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassifyGstr1(t *testing.T) {
	cases := []struct {
		gstin string
		total int64
		want  gstr1Class
	}{
		{"27AAPFU0939F1ZV", 5000, gstr1B2B},
		{"27AAPFU0939F1ZV", 900000, gstr1B2B},
		{"", 300000, gstr1B2CLarge},
		{"", 250001, gstr1B2CLarge},
		{"", 250000, gstr1B2CSmall},
		{"", 5000, gstr1B2CSmall},
	}
	for _, c := range cases {
		got := classifyGstr1(c.gstin, decimal.NewFromInt(c.total))
		if got != c.want {
			t.Fatalf("classifyGstr1(%q, %d): expected %v, got %v", c.gstin, c.total, c.want, got)
		}
	}
}
