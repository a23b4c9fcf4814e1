package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unisched/course-scheduler-api/internal/dto"
	"github.com/unisched/course-scheduler-api/internal/models"
	appErrors "github.com/unisched/course-scheduler-api/pkg/errors"
)

type scheduleServiceMock struct {
	generateResp *dto.GenerateScheduleResponse
	generateErr  error
	addResp      *models.Assignment
	addErr       error
	gridResp     *dto.SectionGridResponse
	gridErr      error
	clearResp    *dto.ClearScheduleResponse
	captured     dto.ManualAssignmentRequest
	gridSection  string
}

func (m *scheduleServiceMock) Generate(ctx context.Context) (*dto.GenerateScheduleResponse, error) {
	return m.generateResp, m.generateErr
}

func (m *scheduleServiceMock) AddAssignment(ctx context.Context, req dto.ManualAssignmentRequest) (*models.Assignment, error) {
	m.captured = req
	return m.addResp, m.addErr
}

func (m *scheduleServiceMock) ListAssignments(ctx context.Context, query dto.AssignmentQuery) ([]models.Assignment, *models.Pagination, error) {
	return nil, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *scheduleServiceMock) Grid(ctx context.Context, sectionID string) (*dto.SectionGridResponse, error) {
	m.gridSection = sectionID
	return m.gridResp, m.gridErr
}

func (m *scheduleServiceMock) Clear(ctx context.Context) (*dto.ClearScheduleResponse, error) {
	return m.clearResp, nil
}

func recordJSON(t *testing.T, handler gin.HandlerFunc, method, target string, body []byte, params ...gin.Param) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	handler(c)
	return w
}

func TestScheduleHandlerGenerate(t *testing.T) {
	mockSvc := &scheduleServiceMock{generateResp: &dto.GenerateScheduleResponse{AssignmentCount: 3, SectionCount: 2}}
	h := NewScheduleHandler(mockSvc)

	w := recordJSON(t, h.Generate, http.MethodPost, "/schedules/generate", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"assignment_count":3`)
}

func TestScheduleHandlerGenerateUnschedulable(t *testing.T) {
	mockSvc := &scheduleServiceMock{generateErr: appErrors.ErrUnschedulable}
	h := NewScheduleHandler(mockSvc)

	w := recordJSON(t, h.Generate, http.MethodPost, "/schedules/generate", nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "UNSCHEDULABLE")
}

func TestScheduleHandlerAdd(t *testing.T) {
	mockSvc := &scheduleServiceMock{addResp: &models.Assignment{ID: "a1", SectionID: "s1"}}
	h := NewScheduleHandler(mockSvc)

	payload, _ := json.Marshal(dto.ManualAssignmentRequest{
		CourseID:     "c1",
		InstructorID: "i1",
		RoomID:       "r1",
		TimeSlotID:   "t1",
		SectionID:    "s1",
	})
	w := recordJSON(t, h.Add, http.MethodPost, "/schedules", payload)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "c1", mockSvc.captured.CourseID)
}

func TestScheduleHandlerAddConflict(t *testing.T) {
	mockSvc := &scheduleServiceMock{addErr: appErrors.Clone(appErrors.ErrConflict, "room A01 is already in use at this time")}
	h := NewScheduleHandler(mockSvc)

	payload, _ := json.Marshal(dto.ManualAssignmentRequest{
		CourseID:     "c1",
		InstructorID: "i1",
		RoomID:       "r1",
		TimeSlotID:   "t1",
		SectionID:    "s1",
	})
	w := recordJSON(t, h.Add, http.MethodPost, "/schedules", payload)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already in use")
}

func TestScheduleHandlerAddMalformedBody(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceMock{})

	w := recordJSON(t, h.Add, http.MethodPost, "/schedules", []byte("{not-json"))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerGrid(t *testing.T) {
	mockSvc := &scheduleServiceMock{gridResp: &dto.SectionGridResponse{SectionID: "s1", Days: models.Days}}
	h := NewScheduleHandler(mockSvc)

	w := recordJSON(t, h.Grid, http.MethodGet, "/sections/s1/grid", nil, gin.Param{Key: "id", Value: "s1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", mockSvc.gridSection)
}

func TestScheduleHandlerClear(t *testing.T) {
	mockSvc := &scheduleServiceMock{clearResp: &dto.ClearScheduleResponse{RemovedCount: 7}}
	h := NewScheduleHandler(mockSvc)

	w := recordJSON(t, h.Clear, http.MethodDelete, "/schedules", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"removed_count":7`)
}
