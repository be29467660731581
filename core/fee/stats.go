package fee

import "math"

// Totals summarizes a set of fee records. Sums are plain float64 sums;
// two-decimal formatting is a render concern, never applied here or at
// storage time. All derivations are total: an empty set yields zeros.
type Totals struct {
	Total          float64 `json:"total"`
	Paid           float64 `json:"paid"`
	Outstanding    float64 `json:"outstanding"`
	Count          int     `json:"count"`
	PaidCount      int     `json:"paid_count"`
	CollectionRate int     `json:"collection_rate"` // paid rows %, rounded
}

// ComputeTotals aggregates records into amount sums and counts.
func ComputeTotals(records []Record) Totals {
	var t Totals
	for _, rec := range records {
		t.Count++
		t.Total += rec.Amount
		if rec.PaymentStatus == StatusPaid {
			t.PaidCount++
			t.Paid += rec.Amount
		}
	}
	t.Outstanding = t.Total - t.Paid
	if t.Count > 0 {
		t.CollectionRate = int(math.Round(100 * float64(t.PaidCount) / float64(t.Count)))
	}
	return t
}
