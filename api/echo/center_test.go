package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/center"
)

func Test_centerApi(t *testing.T) {
	f := newAttendanceFixture(t)
	adminToken := getToken(t, f.admin)
	ctrToken := getToken(t, f.ctrAUsr)
	forbidden := marshalObj(t, httpErr{Error: "permission denied"})

	tests := []httpTest{
		{
			name: "create: admin only", method: http.MethodPost, path: "/v1/centers", token: ctrToken,
			body: []byte(`{"name": "Riverside Tuition"}`), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "create", method: http.MethodPost, path: "/v1/centers", token: adminToken,
			body: []byte(`{"name": "Riverside Tuition", "phone": "+254700000002"}`), wantCode: http.StatusCreated,
		},
		{
			name: "create: duplicate name", method: http.MethodPost, path: "/v1/centers", token: adminToken,
			body:     []byte(`{"name": "Riverside Tuition"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: map[string]string{"name": "a center with this name already exists"}}),
		},
		{
			name: "list: non-admin only sees their own", method: http.MethodGet, path: "/v1/centers", token: ctrToken,
			wantCode: http.StatusOK, wantData: marshalList(t, f.ctrA),
		},
		{
			name: "retrieve: own center", method: http.MethodGet, path: "/v1/centers/" + f.ctrA.ID, token: ctrToken,
			wantCode: http.StatusOK, wantData: marshalObj(t, f.ctrA),
		},
		{
			name: "retrieve: another center reads as missing", method: http.MethodGet, path: "/v1/centers/" + f.ctrB.ID, token: ctrToken,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "update: admin only", method: http.MethodPut, path: "/v1/centers/" + f.ctrA.ID, token: ctrToken,
			body: []byte(`{"name": "Renamed"}`), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "delete: admin only", method: http.MethodDelete, path: "/v1/centers/" + f.ctrA.ID, token: ctrToken,
			wantCode: http.StatusForbidden, wantData: forbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// admin listing carries every center
	req, rec := newAuthRequest(http.MethodGet, "/v1/centers", adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list failed; code = %v", rec.Code)
	}
	var centers []center.Center
	unmarshalBody(t, rec, &centers)
	if len(centers) != 3 {
		t.Errorf("len(centers) = %d, want 3", len(centers))
	}
}
