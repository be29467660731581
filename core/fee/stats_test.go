package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ComputeTotals(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    Totals
	}{
		{
			name: "empty set yields zero totals, not NaN",
			want: Totals{},
		},
		{
			name: "sums split by payment status",
			records: []Record{
				{Amount: 1500, PaymentStatus: StatusPaid},
				{Amount: 1500, PaymentStatus: StatusUnpaid},
				{Amount: 2000.50, PaymentStatus: StatusPaid},
				{Amount: 750.25, PaymentStatus: StatusPending},
			},
			want: Totals{
				Total:          5750.75,
				Paid:           3500.50,
				Outstanding:    2250.25,
				Count:          4,
				PaidCount:      2,
				CollectionRate: 50,
			},
		},
		{
			name: "all paid",
			records: []Record{
				{Amount: 100, PaymentStatus: StatusPaid},
			},
			want: Totals{Total: 100, Paid: 100, Count: 1, PaidCount: 1, CollectionRate: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTotals(tt.records))
		})
	}
}
