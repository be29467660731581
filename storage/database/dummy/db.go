package dummydb

import (
	"sync"

	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/center"
	"github.com/trezcool/darasa/core/chapter"
	"github.com/trezcool/darasa/core/exam"
	"github.com/trezcool/darasa/core/fee"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
)

// DB is an in-memory store backing the dummy repositories; used by
// service and API tests so they run without PostgreSQL.
type (
	DB struct {
		user       *userTable
		center     *centerTable
		student    *studentTable
		attendance *attendanceTable
		fee        *feeTable
		exam       *examTable
		chapter    *chapterTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	centerTable struct {
		sync.RWMutex
		table map[string]*center.Center
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
		order []string // insertion order, stable reads
	}

	feeTable struct {
		sync.RWMutex
		table map[string]*fee.Record
		order []string
	}

	examTable struct {
		sync.RWMutex
		tests   map[string]*exam.Test
		results map[string]*exam.Result
		resOrd  []string
	}

	chapterTable struct {
		sync.RWMutex
		table map[string]*chapter.Chapter
		order []string
	}
)

// Reset empties every table; used between tests.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.center.Lock()
	db.center.table = make(map[string]*center.Center)
	db.center.Unlock()

	db.student.Lock()
	db.student.table = make(map[string]*student.Student)
	db.student.Unlock()

	db.attendance.Lock()
	db.attendance.table = make(map[string]*attendance.Record)
	db.attendance.order = nil
	db.attendance.Unlock()

	db.fee.Lock()
	db.fee.table = make(map[string]*fee.Record)
	db.fee.order = nil
	db.fee.Unlock()

	db.exam.Lock()
	db.exam.tests = make(map[string]*exam.Test)
	db.exam.results = make(map[string]*exam.Result)
	db.exam.resOrd = nil
	db.exam.Unlock()

	db.chapter.Lock()
	db.chapter.table = make(map[string]*chapter.Chapter)
	db.chapter.order = nil
	db.chapter.Unlock()
}

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		center:     &centerTable{table: make(map[string]*center.Center)},
		student:    &studentTable{table: make(map[string]*student.Student)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
		fee:        &feeTable{table: make(map[string]*fee.Record)},
		exam:       &examTable{tests: make(map[string]*exam.Test), results: make(map[string]*exam.Result)},
		chapter:    &chapterTable{table: make(map[string]*chapter.Chapter)},
	}
	return db, nil
}
