// file: internals/features/school/alerts/dto/parent_alert_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "sekolahku_backend/internals/features/school/alerts/model"
	"sekolahku_backend/internals/helpers/dates"
)

type ParentAlertResponse struct {
	ParentAlertID           uuid.UUID           `json:"parent_alert_id"`
	ParentAlertStudentID    uuid.UUID           `json:"parent_alert_student_id"`
	ParentAlertAttendanceID uuid.UUID           `json:"parent_alert_attendance_id"`
	ParentAlertType         m.ParentAlertType   `json:"parent_alert_type"`
	ParentAlertDate         string              `json:"parent_alert_date"` // day key
	ParentAlertMessage      string              `json:"parent_alert_message"`
	ParentAlertStatus       m.ParentAlertStatus `json:"parent_alert_status"`
	ParentAlertCreatedAt    time.Time           `json:"parent_alert_created_at"`
}

func FromModelParentAlert(mdl *m.ParentAlertModel) ParentAlertResponse {
	return ParentAlertResponse{
		ParentAlertID:           mdl.ParentAlertID,
		ParentAlertStudentID:    mdl.ParentAlertStudentID,
		ParentAlertAttendanceID: mdl.ParentAlertAttendanceID,
		ParentAlertType:         mdl.ParentAlertType,
		ParentAlertDate:         dates.DayKey(mdl.ParentAlertDate),
		ParentAlertMessage:      mdl.ParentAlertMessage,
		ParentAlertStatus:       mdl.ParentAlertStatus,
		ParentAlertCreatedAt:    mdl.ParentAlertCreatedAt,
	}
}

func FromModelsParentAlert(rows []m.ParentAlertModel) []ParentAlertResponse {
	out := make([]ParentAlertResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModelParentAlert(&rows[i]))
	}
	return out
}
