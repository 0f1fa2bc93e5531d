package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/weread-readwise/internal/entities"
	"github.com/mrlokans/weread-readwise/internal/logger"
	"github.com/mrlokans/weread-readwise/internal/scheduler"
	"github.com/mrlokans/weread-readwise/internal/services"
)

// SyncStatusResponse combines the tracker state with the schedule.
type SyncStatusResponse struct {
	services.SyncStatus
	Schedule            string     `json:"schedule,omitempty"`
	ScheduleDescription string     `json:"schedule_description,omitempty"`
	NextRun             *time.Time `json:"next_run,omitempty"`
}

// SyncController exposes sync status, manual runs and the run journal.
type SyncController struct {
	tracker   SyncStatusReader
	scheduler SyncTrigger
	history   HistoryReader
	log       logger.Logger
}

func NewSyncController(tracker SyncStatusReader, trigger SyncTrigger, history HistoryReader, log logger.Logger) *SyncController {
	return &SyncController{
		tracker:   tracker,
		scheduler: trigger,
		history:   history,
		log:       log,
	}
}

// GetStatus handles GET /api/sync/status
func (sc *SyncController) GetStatus(c *gin.Context) {
	var resp SyncStatusResponse
	if sc.tracker != nil {
		resp.SyncStatus = sc.tracker.Status()
	}
	if sc.scheduler != nil {
		resp.Schedule = sc.scheduler.Schedule()
		if resp.Schedule != "" {
			resp.ScheduleDescription = scheduler.GetCronDescription(resp.Schedule)
		}
		resp.NextRun = sc.scheduler.NextRun()
	}
	c.JSON(http.StatusOK, resp)
}

// RunSync handles POST /api/sync/run. ?dry_run=1 queues a preview.
func (sc *SyncController) RunSync(c *gin.Context) {
	if sc.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue not configured"})
		return
	}

	dryRun := queryFlag(c, "dry_run")
	taskID, err := sc.scheduler.Enqueue(entities.TriggerAPI, dryRun)
	if err != nil {
		respondInternalError(c, sc.log, err, "enqueue sync")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": taskID,
		"dry_run": dryRun,
		"message": "sync queued",
	})
}

// GetHistory handles GET /api/sync/history
func (sc *SyncController) GetHistory(c *gin.Context) {
	if sc.history == nil {
		respondNotFound(c, "run journal")
		return
	}

	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}

	events, total, err := sc.history.GetEvents(limit, offset)
	if err != nil {
		respondInternalError(c, sc.log, err, "sync history")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
