// file: internals/testutil/db.go
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	alertModel "sekolahku_backend/internals/features/school/alerts/model"
	attModel "sekolahku_backend/internals/features/school/attendance/model"
	calModel "sekolahku_backend/internals/features/school/calendar/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
)

var dbSeq atomic.Int64

// OpenDB: sqlite in-memory per test. cache=shared + DSN unik supaya koneksi
// pool GORM melihat database yang sama tanpa bocor antar test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&studentModel.StudentModel{},
		&attModel.AttendanceModel{},
		&calModel.StudentCalendarModel{},
		&calModel.SchoolCalendarEventModel{},
		&alertModel.ParentAlertModel{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedStudent: siswa aktif siap pakai; override lewat mutator opsional.
func SeedStudent(t *testing.T, db *gorm.DB, schoolID uuid.UUID, mutate ...func(*studentModel.StudentModel)) *studentModel.StudentModel {
	t.Helper()

	parentID := uuid.New()
	st := &studentModel.StudentModel{
		StudentSchoolID:       schoolID,
		StudentName:           "Siswa Uji",
		StudentClassID:        uuid.New(),
		StudentClassSectionID: uuid.New(),
		StudentParentUserID:   &parentID,
	}
	for _, fn := range mutate {
		fn(st)
	}
	if err := db.Create(st).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return st
}
