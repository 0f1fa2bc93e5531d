package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/weread-readwise/internal/logger"
)

type fakeTaskStatus struct {
	status backlite.TaskStatus
	err    error
}

func (f fakeTaskStatus) Status(context.Context, string) (backlite.TaskStatus, error) {
	return f.status, f.err
}

func tasksRouter(reader TaskStatusReader) *gin.Engine {
	router := gin.New()
	router.GET("/api/tasks/:id", NewTasksController(reader, logger.NewNop()).GetTaskStatus)
	return router
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	tests := []struct {
		name     string
		reader   fakeTaskStatus
		wantCode int
		wantBody string
	}{
		{"pending", fakeTaskStatus{status: backlite.TaskStatusPending}, http.StatusOK, `{"id":"abc","status":"pending"}`},
		{"running", fakeTaskStatus{status: backlite.TaskStatusRunning}, http.StatusOK, `{"id":"abc","status":"running"}`},
		{"success", fakeTaskStatus{status: backlite.TaskStatusSuccess}, http.StatusOK, `{"id":"abc","status":"success"}`},
		{"failure", fakeTaskStatus{status: backlite.TaskStatusFailure}, http.StatusOK, `{"id":"abc","status":"failure"}`},
		{"not found", fakeTaskStatus{status: backlite.TaskStatusNotFound}, http.StatusNotFound, `{"error":"task not found"}`},
		{"lookup error", fakeTaskStatus{err: errors.New("boom")}, http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tasksRouter(tt.reader), "GET", "/api/tasks/abc")

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
