package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/chapter"
)

func createChapter(t *testing.T, token, body string) chapter.Chapter {
	t.Helper()
	req, rec := newAuthRequest(http.MethodPost, "/v1/chapters", token, []byte(body))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating chapter failed; code = %v body = %s", rec.Code, rec.Body.String())
	}
	var c chapter.Chapter
	unmarshalBody(t, rec, &c)
	return c
}

func Test_chapterApi_complete(t *testing.T) {
	f := newAttendanceFixture(t)
	token := getToken(t, f.ctrAUsr)

	c := createChapter(t, token, `{"subject": "Math", "grade": "Grade 5", "name": "Fractions", "sequence": 1}`)
	if c.Completed || c.CompletedOn.Valid {
		t.Errorf("new chapter must start incomplete: %+v", c)
	}

	complete := func(token string) (*chapter.Chapter, int) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/chapters/"+c.ID+"/complete", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			return nil, rec.Code
		}
		var got chapter.Chapter
		unmarshalBody(t, rec, &got)
		return &got, rec.Code
	}

	if _, code := complete(getToken(t, f.parent)); code != http.StatusForbidden {
		t.Errorf("parent completed a chapter; code = %v", code)
	}

	done, code := complete(token)
	if code != http.StatusOK {
		t.Fatalf("complete failed; code = %v", code)
	}
	if !done.Completed || !done.CompletedOn.Valid {
		t.Errorf("completion not stamped: %+v", done)
	}

	// completing again keeps the original stamp
	again, code := complete(token)
	if code != http.StatusOK {
		t.Fatalf("re-complete failed; code = %v", code)
	}
	if !again.CompletedOn.Time.Equal(done.CompletedOn.Time) {
		t.Errorf("completed_on moved: %v -> %v", done.CompletedOn.Time, again.CompletedOn.Time)
	}

	// un-completing clears the stamp
	req, rec := newAuthRequest(http.MethodPut, "/v1/chapters/"+c.ID, token, []byte(`{"completed": false}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("un-complete failed; code = %v body = %s", rec.Code, rec.Body.String())
	}
	var undone chapter.Chapter
	unmarshalBody(t, rec, &undone)
	if undone.Completed || undone.CompletedOn.Valid {
		t.Errorf("stamp survived un-completing: %+v", undone)
	}
}

func Test_chapterApi_completion(t *testing.T) {
	f := newAttendanceFixture(t)
	token := getToken(t, f.ctrAUsr)

	// empty population reads as zeros
	req, rec := newAuthRequest(http.MethodGet, "/v1/chapters/completion", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, chapter.Completion{})}, rec)

	mathA := createChapter(t, token, `{"subject": "Math", "grade": "Grade 5", "name": "Fractions", "sequence": 1}`)
	createChapter(t, token, `{"subject": "Math", "grade": "Grade 5", "name": "Decimals", "sequence": 2}`)
	createChapter(t, token, `{"subject": "English", "grade": "Grade 5", "name": "Nouns", "sequence": 1}`)
	// center B's syllabus must not bleed into A's numbers
	createChapter(t, getToken(t, f.ctrBUsr), `{"subject": "Math", "grade": "Grade 6", "name": "Algebra", "sequence": 1}`)

	req, rec = newAuthRequest(http.MethodPatch, "/v1/chapters/"+mathA.ID+"/complete", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete failed; code = %v", rec.Code)
	}

	tests := []httpTest{
		{
			name: "whole center", path: "/v1/chapters/completion", token: token,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, chapter.Completion{Completed: 1, Total: 3, Percent: 33}),
		},
		{
			name: "one subject", path: "/v1/chapters/completion?subject=Math", token: token,
			wantCode: http.StatusOK,
			wantData: marshalObj(t, chapter.Completion{Completed: 1, Total: 2, Percent: 50}),
		},
		{
			name: "admin sees all centers", path: "/v1/chapters/completion", token: getToken(t, f.admin),
			wantCode: http.StatusOK,
			wantData: marshalObj(t, chapter.Completion{Completed: 1, Total: 4, Percent: 25}),
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
