package database

import (
	"errors"

	"markiz-admin/models/class"
	"markiz-admin/models/exam"
	"markiz-admin/models/halaqa"
	"markiz-admin/models/schedule"
	"markiz-admin/models/student"

	"gorm.io/gorm"
)

var ErrClassNotFound = errors.New("class not found")

// PurgeClass removes a class and everything hanging off it in one
// transaction: exam results, exams, schedules, halaqas, and the class row
// itself. Students are detached, not deleted. Any failure rolls the whole
// block back.
func PurgeClass(db *gorm.DB, classID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var cls class.Class
		if err := tx.First(&cls, classID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClassNotFound
			}
			return err
		}

		var examIDs []uint
		if err := tx.Model(&exam.Exam{}).Where("class_id = ?", classID).
			Pluck("id", &examIDs).Error; err != nil {
			return err
		}

		if len(examIDs) > 0 {
			if err := tx.Where("exam_id IN ?", examIDs).Delete(&exam.Result{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("class_id = ?", classID).Delete(&exam.Exam{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", classID).Delete(&schedule.Schedule{}).Error; err != nil {
			return err
		}

		// Detach students before their circles disappear.
		if err := tx.Model(&student.Student{}).Where("class_id = ?", classID).
			Updates(map[string]interface{}{"class_id": nil, "halaqa_id": nil}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", classID).Delete(&halaqa.Halaqa{}).Error; err != nil {
			return err
		}

		return tx.Delete(&cls).Error
	})
}
