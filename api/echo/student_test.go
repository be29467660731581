package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/student"
)

func Test_studentApi_tenantIsolation(t *testing.T) {
	f := newAttendanceFixture(t)
	tokenA := getToken(t, f.ctrAUsr)
	tokenB := getToken(t, f.ctrBUsr)

	tests := []httpTest{
		{
			name: "create: parents may not", method: http.MethodPost, path: "/v1/students", token: getToken(t, f.parent),
			body: []byte(`{}`), wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "retrieve own student", method: http.MethodGet, path: "/v1/students/" + f.s1.ID, token: tokenA,
			wantCode: http.StatusOK, wantData: marshalObj(t, f.s1),
		},
		{
			name: "another center's student reads as missing", method: http.MethodGet, path: "/v1/students/" + f.s1.ID, token: tokenB,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "update: cross-tenant misses too", method: http.MethodPut, path: "/v1/students/" + f.s1.ID, token: tokenB,
			body: []byte(`{"name": "Hijacked"}`), wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "delete: cross-tenant misses too", method: http.MethodDelete, path: "/v1/students/" + f.s1.ID, token: tokenB,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "list only shows own center", method: http.MethodGet, path: "/v1/students", token: tokenB,
			wantCode: http.StatusOK, wantData: marshalList(t, f.sB),
		},
		{
			name: "parents list only their children", method: http.MethodGet, path: "/v1/students", token: getToken(t, f.parent),
			wantCode: http.StatusOK, wantData: marshalList(t, f.s1),
		},
		{
			name: "another child of the center is out of a parent's reach", method: http.MethodGet,
			path: "/v1/students/" + f.s2.ID, token: getToken(t, f.parent),
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "admin lists everyone", method: http.MethodGet, path: "/v1/students", token: getToken(t, f.admin),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_create(t *testing.T) {
	f := newAttendanceFixture(t)

	// a center user always creates in their own center, whatever the body says
	body := []byte(`{"center_id": "` + f.ctrB.ID + `", "name": "Dalia", "grade": "Grade 4", "parent_phone": "+254700000001"}`)
	req, rec := newAuthRequest(http.MethodPost, "/v1/students", getToken(t, f.ctrAUsr), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed; code = %v body = %s", rec.Code, rec.Body.String())
	}
	var s student.Student
	unmarshalBody(t, rec, &s)
	if s.CenterID != f.ctrA.ID {
		t.Errorf("s.CenterID = %s, want caller's center %s", s.CenterID, f.ctrA.ID)
	}
	if !s.IsActive {
		t.Error("new student should be active")
	}

	// admins must say which center
	body = []byte(`{"name": "Eli", "grade": "Grade 4"}`)
	req, rec = newAuthRequest(http.MethodPost, "/v1/students", getToken(t, f.admin), body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marshalObj(t, httpErr{Error: map[string]string{"center_id": "this field is required"}}),
	}, rec)
}
