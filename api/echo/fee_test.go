package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/fee"
)

func Test_feeApi_set(t *testing.T) {
	f := newAttendanceFixture(t)
	token := getToken(t, f.ctrAUsr)

	tests := []httpTest{
		{
			name: "auth required", body: []byte(`{}`),
			wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken),
		},
		{
			name: "parents are read-only", token: getToken(t, f.parent), body: []byte(`{}`),
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "bad month", token: token,
			body:     []byte(`{"student_id": "` + f.s1.ID + `", "month": "2026-13", "amount": 120, "due_date": "2026-03-10", "payment_status": "Unpaid"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: map[string]string{"month": "must be a month in YYYY-MM format"}}),
		},
		{
			name: "amount must be positive", token: token,
			body:     []byte(`{"student_id": "` + f.s1.ID + `", "month": "2026-03", "amount": -5, "due_date": "2026-03-10", "payment_status": "Unpaid"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "another center's student", token: token,
			body:     []byte(`{"student_id": "` + f.sB.ID + `", "month": "2026-03", "amount": 120, "due_date": "2026-03-10", "payment_status": "Unpaid"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: map[string]string{"student_id": "unknown student: " + f.sB.ID}}),
		},
		{
			name: "set month fee", token: token,
			body:     []byte(`{"student_id": "` + f.s1.ID + `", "month": "2026-03", "amount": 120, "due_date": "2026-03-10", "payment_status": "Unpaid"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "setting the same month replaces the row", token: token,
			body:     []byte(`{"student_id": "` + f.s1.ID + `", "month": "2026-03", "amount": 150, "due_date": "2026-03-15", "payment_status": "Pending"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/fees", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// still a single row, carrying the replacement values
	req, rec := newAuthRequest(http.MethodGet, "/v1/fees?student_id="+f.s1.ID+"&month=2026-03", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query failed; code = %v", rec.Code)
	}
	var records []fee.Record
	unmarshalBody(t, rec, &records)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Amount != 150 || records[0].PaymentStatus != fee.StatusPending {
		t.Errorf("unexpected record after replace: %+v", records[0])
	}
}

func Test_feeApi_markPaid(t *testing.T) {
	f := newAttendanceFixture(t)
	token := getToken(t, f.ctrAUsr)

	setFee := func(studentID, month string) fee.Record {
		t.Helper()
		body := []byte(`{"student_id": "` + studentID + `", "month": "` + month + `", "amount": 100, "due_date": "2026-03-10", "payment_status": "Unpaid"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/fees", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("setting fee failed; code = %v body = %s", rec.Code, rec.Body.String())
		}
		var r fee.Record
		unmarshalBody(t, rec, &r)
		return r
	}
	rec1 := setFee(f.s1.ID, "2026-03")

	req, rec := newAuthRequest(http.MethodPost, "/v1/fees/"+rec1.ID+"/pay", token, []byte(`{"paid_date": "2026-03-08", "remarks": "mpesa"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("markPaid failed; code = %v body = %s", rec.Code, rec.Body.String())
	}
	var paid fee.Record
	unmarshalBody(t, rec, &paid)
	if paid.PaymentStatus != fee.StatusPaid || !paid.PaidDate.Valid || paid.Remarks.String != "mpesa" {
		t.Errorf("unexpected paid record: %+v", paid)
	}

	// unknown and cross-tenant ids are indistinguishable
	for _, tt := range []httpTest{
		{name: "unknown id", path: "/v1/fees/lol/pay", token: token},
		{name: "another center's fee", path: "/v1/fees/" + rec1.ID + "/pay", token: getToken(t, f.ctrBUsr)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token, []byte(`{}`))
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "not found"})}, rec)
		})
	}
}

func Test_feeApi_summary(t *testing.T) {
	f := newAttendanceFixture(t)
	token := getToken(t, f.ctrAUsr)

	// an empty population yields zeros, never NaN
	req, rec := newAuthRequest(http.MethodGet, "/v1/fees/summary", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, fee.Totals{})}, rec)

	seed := []struct {
		studentID, month, amount, status string
	}{
		{f.s1.ID, "2026-03", "100", "Paid"},
		{f.s2.ID, "2026-03", "50", "Unpaid"},
		{f.s1.ID, "2026-04", "100", "Pending"},
	}
	for _, s := range seed {
		body := []byte(`{"student_id": "` + s.studentID + `", "month": "` + s.month + `", "amount": ` + s.amount + `, "due_date": "2026-03-10", "payment_status": "` + s.status + `"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/fees", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("seeding fee failed; code = %v body = %s", rec.Code, rec.Body.String())
		}
	}
	// center B's rows never enter center A's summary
	bBody := []byte(`{"student_id": "` + f.sB.ID + `", "month": "2026-03", "amount": 999, "due_date": "2026-03-10", "payment_status": "Paid"}`)
	req, rec = newAuthRequest(http.MethodPut, "/v1/fees", getToken(t, f.ctrBUsr), bBody)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding center B fee failed; code = %v", rec.Code)
	}

	tests := []httpTest{
		{
			name: "all months", path: "/v1/fees/summary", token: token,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, fee.Totals{Total: 250, Paid: 100, Outstanding: 150, Count: 3, PaidCount: 1, CollectionRate: 33}),
		},
		{
			name: "one month", path: "/v1/fees/summary?month=2026-03", token: token,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, fee.Totals{Total: 150, Paid: 100, Outstanding: 50, Count: 2, PaidCount: 1, CollectionRate: 50}),
		},
		{
			name: "one student", path: "/v1/fees/summary?student_id=" + f.s1.ID, token: token,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, fee.Totals{Total: 200, Paid: 100, Outstanding: 100, Count: 2, PaidCount: 1, CollectionRate: 50}),
		},
		{
			name: "admin sees every center", path: "/v1/fees/summary?month=2026-03", token: getToken(t, f.admin),
			wantCode: http.StatusOK,
			wantData: marshalObj(t, fee.Totals{Total: 1149, Paid: 1099, Outstanding: 50, Count: 3, PaidCount: 2, CollectionRate: 67}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
