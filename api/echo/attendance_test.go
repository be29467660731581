package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/center"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	testutil "github.com/trezcool/darasa/tests"
)

// attendanceFixture creates two centers, one user per role and a couple
// of students to attend. The parent user is s1's parent.
type attendanceFixture struct {
	ctrA, ctrB             center.Center
	s1, s2, sB             student.Student
	ctrAUsr, parent, admin user.User
	ctrBUsr                user.User
}

func newAttendanceFixture(t *testing.T) attendanceFixture {
	t.Helper()
	resetDB(t)

	var f attendanceFixture
	f.ctrA = testutil.CreateCenter(t, centerRepo, "Hillside Tuition")
	f.ctrB = testutil.CreateCenter(t, centerRepo, "Lakeside Tuition")
	f.admin = testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "LePassw0rd", core.RoleAdmin, "", true)
	f.ctrAUsr = testutil.CreateUser(t, usrRepo, "A Staff", "astaff", "astaff@test.cd", "LePassw0rd", core.RoleCenter, f.ctrA.ID, true)
	f.ctrBUsr = testutil.CreateUser(t, usrRepo, "B Staff", "bstaff", "bstaff@test.cd", "LePassw0rd", core.RoleCenter, f.ctrB.ID, true)
	f.parent = testutil.CreateUser(t, usrRepo, "Parent", "parent", "parent@test.cd", "LePassw0rd", core.RoleParent, f.ctrA.ID, true)
	f.s1 = testutil.CreateChild(t, studentRepo, f.ctrA.ID, f.parent.ID, "Asha", "Grade 5")
	f.s2 = testutil.CreateStudent(t, studentRepo, f.ctrA.ID, "Binta", "Grade 5")
	f.sB = testutil.CreateStudent(t, studentRepo, f.ctrB.ID, "Chiku", "Grade 6")
	return f
}

func Test_attendanceApi_setForDate(t *testing.T) {
	f := newAttendanceFixture(t)
	token := getToken(t, f.ctrAUsr)

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/attendance/days/2026-03-02",
			body: []byte(`{}`), wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken),
		},
		{
			name: "parents are read-only", path: "/v1/attendance/days/2026-03-02", token: getToken(t, f.parent),
			body: []byte(`{}`), wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "bad date in path", path: "/v1/attendance/days/lol", token: token,
			body:     []byte(`{"entries": [{"student_id": "` + f.s1.ID + `", "status": "Present"}]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "bad status", path: "/v1/attendance/days/2026-03-02", token: token,
			body:     []byte(`{"entries": [{"student_id": "` + f.s1.ID + `", "status": "Late"}]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "entries required", path: "/v1/attendance/days/2026-03-02", token: token,
			body: []byte(`{"entries": []}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "another center's student", path: "/v1/attendance/days/2026-03-02", token: token,
			body:     []byte(`{"entries": [{"student_id": "` + f.sB.ID + `", "status": "Present"}]}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: map[string]string{"student_id": "unknown student: " + f.sB.ID}}),
		},
		{
			name: "set the day", path: "/v1/attendance/days/2026-03-02", token: token,
			body: []byte(`{"entries": [` +
				`{"student_id": "` + f.s1.ID + `", "status": "Present", "time_in": "08:05"},` +
				`{"student_id": "` + f.s2.ID + `", "status": "Absent"}]}`),
			wantCode: http.StatusOK,
		},
		{
			name: "correcting the day is idempotent", path: "/v1/attendance/days/2026-03-02", token: token,
			body:     []byte(`{"entries": [{"student_id": "` + f.s2.ID + `", "status": "Present"}]}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the upsert responds with the stored rows, ids included
	body := []byte(`{"entries": [{"student_id": "` + f.s1.ID + `", "status": "Present"}]}`)
	req, rec := newAuthRequest(http.MethodPut, "/v1/attendance/days/2026-03-02", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert failed; code = %v", rec.Code)
	}
	var stored []attendance.Record
	unmarshalBody(t, rec, &stored)
	if len(stored) != 1 || stored[0].ID == "" {
		t.Errorf("stored = %+v, want the row with its id", stored)
	}

	// the correction replaced s2's row rather than adding one
	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance?from=2026-03-02&to=2026-03-02", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query failed; code = %v", rec.Code)
	}
	var records []attendance.Record
	unmarshalBody(t, rec, &records)
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for _, r := range records {
		if r.StudentID == f.s2.ID && r.Status != attendance.StatusPresent {
			t.Errorf("s2 status = %s, want %s", r.Status, attendance.StatusPresent)
		}
	}
}

func Test_attendanceApi_query_isolation(t *testing.T) {
	f := newAttendanceFixture(t)

	day := func(token, date, studentID, status string) {
		body := []byte(`{"entries": [{"student_id": "` + studentID + `", "status": "` + status + `"}]}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/attendance/days/"+date, token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("seeding attendance failed; code = %v body = %s", rec.Code, rec.Body.String())
		}
	}
	day(getToken(t, f.ctrAUsr), "2026-03-02", f.s1.ID, "Present")
	day(getToken(t, f.ctrAUsr), "2026-03-03", f.s2.ID, "Present")
	day(getToken(t, f.ctrBUsr), "2026-03-02", f.sB.ID, "Absent")

	query := func(token string) []attendance.Record {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("query failed; code = %v", rec.Code)
		}
		var records []attendance.Record
		unmarshalBody(t, rec, &records)
		return records
	}

	// each center only sees its own records; admin sees everything
	if records := query(getToken(t, f.ctrAUsr)); len(records) != 2 {
		t.Errorf("center A sees %+v", records)
	}
	if records := query(getToken(t, f.ctrBUsr)); len(records) != 1 || records[0].StudentID != f.sB.ID {
		t.Errorf("center B sees %+v", records)
	}
	if records := query(getToken(t, f.admin)); len(records) != 3 {
		t.Errorf("admin sees %d records, want 3", len(records))
	}
	// parents only see their own children, not the rest of the center
	if records := query(getToken(t, f.parent)); len(records) != 1 || records[0].StudentID != f.s1.ID {
		t.Errorf("parent sees %+v", records)
	}
}

func Test_attendanceApi_stats(t *testing.T) {
	f := newAttendanceFixture(t)
	token := getToken(t, f.ctrAUsr)

	seed := []struct {
		date      string
		studentID string
		status    string
	}{
		{"2026-03-02", f.s1.ID, "Present"},
		{"2026-03-02", f.s2.ID, "Absent"},
		{"2026-03-03", f.s1.ID, "Present"},
		{"2026-03-03", f.s2.ID, "Absent"},
		{"2026-03-04", f.s1.ID, "Absent"},
	}
	for _, s := range seed {
		body := []byte(`{"entries": [{"student_id": "` + s.studentID + `", "status": "` + s.status + `"}]}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/attendance/days/"+s.date, token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("seeding attendance failed; code = %v body = %s", rec.Code, rec.Body.String())
		}
	}

	tests := []httpTest{
		{
			name: "student stats", path: "/v1/attendance/students/" + f.s1.ID + "/stats", token: token,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, attendance.Stats{Present: 2, Absent: 1, Total: 3, Rate: 67}),
		},
		{
			name: "student stats with range", path: "/v1/attendance/students/" + f.s1.ID + "/stats?from=2026-03-02&to=2026-03-03", token: token,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, attendance.Stats{Present: 2, Absent: 0, Total: 2, Rate: 100}),
		},
		{
			name: "student stats: empty range is all zeros", path: "/v1/attendance/students/" + f.s1.ID + "/stats?from=2026-04-01&to=2026-04-30", token: token,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, attendance.Stats{}),
		},
		{
			name: "student stats: another center's student", path: "/v1/attendance/students/" + f.sB.ID + "/stats", token: token,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "stats: bad from", path: "/v1/attendance/students/" + f.s1.ID + "/stats?from=lol", token: token,
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: map[string]string{"from": "must be a date in YYYY-MM-DD format"}}),
		},
		{
			name: "absentees ranked worst-first", path: "/v1/attendance/absentees", token: token,
			wantCode: http.StatusOK,
			wantData: marshalList(t,
				attendance.StudentAbsence{StudentID: f.s2.ID, Absent: 2, Total: 2, Rate: 100},
				attendance.StudentAbsence{StudentID: f.s1.ID, Absent: 1, Total: 3, Rate: 33},
			),
		},
		{
			name: "absentees: empty range", path: "/v1/attendance/absentees?from=2026-04-01&to=2026-04-30", token: token,
			wantCode: http.StatusOK,
			wantData: marshalList(t),
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
