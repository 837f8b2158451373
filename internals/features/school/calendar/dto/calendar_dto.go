// file: internals/features/school/calendar/dto/calendar_dto.go
package dto

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	m "sekolahku_backend/internals/features/school/calendar/model"
	"sekolahku_backend/internals/helpers/dates"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateSchoolEventRequest struct {
	Title               string      `json:"title" validate:"required,max=160"`
	Description         *string     `json:"description" validate:"omitempty,max=2000"`
	Type                string      `json:"type" validate:"required,oneof=holiday event exam ptm"`
	StartDate           string      `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate             string      `json:"end_date" validate:"required"`   // YYYY-MM-DD
	AppliesToAllClasses *bool       `json:"applies_to_all_classes"`         // default true
	ClassIDs            []uuid.UUID `json:"class_ids" validate:"omitempty,dive,required"`
}

func (r CreateSchoolEventRequest) ToModel(schoolID, createdBy uuid.UUID) (*m.SchoolCalendarEventModel, error) {
	start, err := dates.ParseDay(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := dates.ParseDay(r.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errors.New("end_date must not be before start_date")
	}

	appliesToAll := true
	if r.AppliesToAllClasses != nil {
		appliesToAll = *r.AppliesToAllClasses
	}
	var classIDs pq.StringArray
	if !appliesToAll {
		for _, id := range r.ClassIDs {
			classIDs = append(classIDs, id.String())
		}
	}

	return &m.SchoolCalendarEventModel{
		SchoolCalendarEventSchoolID:            schoolID,
		SchoolCalendarEventTitle:               r.Title,
		SchoolCalendarEventDesc:                r.Description,
		SchoolCalendarEventType:                m.SchoolEventType(r.Type),
		SchoolCalendarEventStartDate:           start,
		SchoolCalendarEventEndDate:             end,
		SchoolCalendarEventAppliesToAllClasses: appliesToAll,
		SchoolCalendarEventClassIDs:            classIDs,
		SchoolCalendarEventCreatedBy:           createdBy,
		SchoolCalendarEventIsActive:            true,
	}, nil
}

type PatchSchoolEventRequest struct {
	Title               *string      `json:"title" validate:"omitempty,max=160"`
	Description         *string      `json:"description" validate:"omitempty,max=2000"`
	Type                *string      `json:"type" validate:"omitempty,oneof=holiday event exam ptm"`
	StartDate           *string      `json:"start_date"`
	EndDate             *string      `json:"end_date"`
	AppliesToAllClasses *bool        `json:"applies_to_all_classes"`
	ClassIDs            *[]uuid.UUID `json:"class_ids"`
	IsActive            *bool        `json:"is_active"`
}

func (r PatchSchoolEventRequest) Apply(ev *m.SchoolCalendarEventModel) error {
	if r.Title != nil {
		ev.SchoolCalendarEventTitle = *r.Title
	}
	if r.Description != nil {
		ev.SchoolCalendarEventDesc = r.Description
	}
	if r.Type != nil {
		if !m.ValidSchoolEventType(*r.Type) {
			return errors.New("invalid event type")
		}
		ev.SchoolCalendarEventType = m.SchoolEventType(*r.Type)
	}
	if r.StartDate != nil {
		t, err := dates.ParseDay(*r.StartDate)
		if err != nil {
			return err
		}
		ev.SchoolCalendarEventStartDate = t
	}
	if r.EndDate != nil {
		t, err := dates.ParseDay(*r.EndDate)
		if err != nil {
			return err
		}
		ev.SchoolCalendarEventEndDate = t
	}
	if ev.SchoolCalendarEventEndDate.Before(ev.SchoolCalendarEventStartDate) {
		return errors.New("end_date must not be before start_date")
	}
	if r.AppliesToAllClasses != nil {
		ev.SchoolCalendarEventAppliesToAllClasses = *r.AppliesToAllClasses
	}
	if r.ClassIDs != nil {
		ev.SchoolCalendarEventClassIDs = nil
		for _, id := range *r.ClassIDs {
			ev.SchoolCalendarEventClassIDs = append(ev.SchoolCalendarEventClassIDs, id.String())
		}
	}
	if ev.SchoolCalendarEventAppliesToAllClasses {
		ev.SchoolCalendarEventClassIDs = nil
	}
	if r.IsActive != nil {
		ev.SchoolCalendarEventIsActive = *r.IsActive
	}
	return nil
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type SchoolEventResponse struct {
	SchoolCalendarEventID uuid.UUID `json:"school_calendar_event_id"`
	Title                 string    `json:"title"`
	Description           *string   `json:"description,omitempty"`
	Type                  string    `json:"type"`
	StartDate             string    `json:"start_date"`
	EndDate               string    `json:"end_date"`
	AppliesToAllClasses   bool      `json:"applies_to_all_classes"`
	ClassIDs              []string  `json:"class_ids,omitempty"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func FromModelSchoolEvent(ev *m.SchoolCalendarEventModel) SchoolEventResponse {
	return SchoolEventResponse{
		SchoolCalendarEventID: ev.SchoolCalendarEventID,
		Title:                 ev.SchoolCalendarEventTitle,
		Description:           ev.SchoolCalendarEventDesc,
		Type:                  string(ev.SchoolCalendarEventType),
		StartDate:             dates.DayKey(ev.SchoolCalendarEventStartDate),
		EndDate:               dates.DayKey(ev.SchoolCalendarEventEndDate),
		AppliesToAllClasses:   ev.SchoolCalendarEventAppliesToAllClasses,
		ClassIDs:              ev.SchoolCalendarEventClassIDs,
		IsActive:              ev.SchoolCalendarEventIsActive,
		CreatedAt:             ev.SchoolCalendarEventCreatedAt,
		UpdatedAt:             ev.SchoolCalendarEventUpdatedAt,
	}
}

func FromModelsSchoolEvent(rows []m.SchoolCalendarEventModel) []SchoolEventResponse {
	out := make([]SchoolEventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModelSchoolEvent(&rows[i]))
	}
	return out
}

type StudentCalendarResponse struct {
	StudentID uuid.UUID         `json:"student_id"`
	Entries   []m.CalendarEntry `json:"entries"`
}
