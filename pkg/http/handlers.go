package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/izawa-yuka/uruoi/pkg/household"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func atOrNow(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now()
	}
	return at
}

func statusForLookup(err error) int {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, household.ErrNoActiveRecord) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (rs *RestfulServer) deviceID(c *gin.Context) string {
	return c.GetHeader(HeaderDeviceID)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ---- containers ----

type ContainerRequest struct {
	Name        string  `json:"name"`
	EmptyWeight float64 `json:"emptyWeight"`
}

var containerRequestSchema = z.Struct(z.Shape{
	"Name":        z.String().Required(),
	"EmptyWeight": z.Float64().Optional(),
})

func (rs *RestfulServer) ListContainers(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	containers, err := rs.Household.Container.ListActiveContainers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, containers)
}

func (rs *RestfulServer) AddContainer(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req ContainerRequest
	if err := containerRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	container, err := rs.Household.Container.AddContainer(req.Name, req.EmptyWeight)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, container)
}

func (rs *RestfulServer) UpdateContainer(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req ContainerRequest
	if err := containerRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	container, err := rs.Household.Container.UpdateContainer(c.Param("container_id"), req.Name, req.EmptyWeight)
	if err != nil {
		c.JSON(statusForLookup(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, container)
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

var reorderRequestSchema = z.Struct(z.Shape{
	"IDs": z.Slice(z.String()).Required(),
})

func (rs *RestfulServer) ReorderContainers(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req ReorderRequest
	if err := reorderRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.Household.Container.ReorderContainers(req.IDs); err != nil {
		c.JSON(statusForLookup(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (rs *RestfulServer) ArchiveContainer(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	if err := rs.Household.Container.ArchiveContainer(c.Param("container_id")); err != nil {
		c.JSON(statusForLookup(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (rs *RestfulServer) DeleteContainer(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	if err := rs.Household.Container.DeleteContainer(c.Param("container_id")); err != nil {
		c.JSON(statusForLookup(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// ---- records ----

type StartRecordingRequest struct {
	StartWeight float64   `json:"startWeight"`
	CatCount    int       `json:"catCount"`
	Note        string    `json:"note"`
	At          time.Time `json:"at"`
}

var startRecordingRequestSchema = z.Struct(z.Shape{
	"StartWeight": z.Float64().Required(),
	"CatCount":    z.Int().Required(),
	"Note":        z.String().Optional(),
	"At":          z.Time().Optional(),
})

func (rs *RestfulServer) StartRecording(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req StartRecordingRequest
	if err := startRecordingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	record, err := rs.Household.Record.StartRecording(household.StartRecordingInput{
		ContainerID: c.Param("container_id"),
		StartWeight: req.StartWeight,
		CatCount:    req.CatCount,
		Note:        optional(req.Note),
		At:          atOrNow(req.At),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

type FinishRecordingRequest struct {
	EndWeight        float64   `json:"endWeight"`
	CatCount         int       `json:"catCount"`
	WeatherCondition string    `json:"weatherCondition"`
	Temperature      *float64  `json:"temperature"`
	Note             string    `json:"note"`
	At               time.Time `json:"at"`
	RestartWeight    *float64  `json:"restartWeight"`
}

var finishRecordingRequestSchema = z.Struct(z.Shape{
	"EndWeight":        z.Float64().Optional(),
	"CatCount":         z.Int().Required(),
	"WeatherCondition": z.String().Optional(),
	"Temperature":      z.Ptr(z.Float64()),
	"Note":             z.String().Optional(),
	"At":               z.Time().Optional(),
	"RestartWeight":    z.Ptr(z.Float64()),
})

func (rs *RestfulServer) FinishRecording(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req FinishRecordingRequest
	if err := finishRecordingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	input := household.FinishRecordingInput{
		ContainerID:      c.Param("container_id"),
		EndWeight:        req.EndWeight,
		WeatherCondition: optional(req.WeatherCondition),
		Temperature:      req.Temperature,
		CatCount:         req.CatCount,
		Note:             optional(req.Note),
		At:               atOrNow(req.At),
	}

	var err error
	var record any
	if req.RestartWeight != nil {
		record, err = rs.Household.Record.FinishAndRestartRecording(input, *req.RestartWeight)
	} else {
		record, err = rs.Household.Record.FinishRecording(input)
	}
	if err != nil {
		if errors.Is(err, household.ErrNoActiveRecord) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (rs *RestfulServer) GetActiveRecords(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	records, err := rs.Household.Record.ActiveRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

type UpdateRecordRequest struct {
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	StartWeight float64    `json:"startWeight"`
	EndWeight   *float64   `json:"endWeight"`
	Note        string     `json:"note"`
}

var updateRecordRequestSchema = z.Struct(z.Shape{
	"StartTime":   z.Time().Required(),
	"EndTime":     z.Ptr(z.Time()),
	"StartWeight": z.Float64().Required(),
	"EndWeight":   z.Ptr(z.Float64()),
	"Note":        z.String().Optional(),
})

func (rs *RestfulServer) UpdateRecord(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req UpdateRecordRequest
	if err := updateRecordRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	record, err := rs.Household.Record.UpdateRecord(household.UpdateRecordInput{
		ID:          c.Param("record_id"),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		StartWeight: req.StartWeight,
		EndWeight:   req.EndWeight,
		Note:        optional(req.Note),
	})
	if err != nil {
		c.JSON(statusForLookup(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (rs *RestfulServer) DeleteRecord(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	if err := rs.Household.Record.DeleteRecord(c.Param("record_id")); err != nil {
		c.JSON(statusForLookup(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// ---- stats ----

func (rs *RestfulServer) GetStats(c *gin.Context) {
	if !rs.CheckDeviceLimiter(rs.deviceID(c)) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	catCount := 2
	if raw := c.Query("catCount"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "catCount must be a positive integer"})
			return
		}
		catCount = parsed
	}

	now := time.Now()
	weekly, err := rs.Household.Record.WeeklyAveragePerCat(now, catCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	today, err := rs.Household.Record.TodayTotalPerCat(now, catCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weeklyAveragePerCat": weekly,
		"todayTotalPerCat":    today,
	})
}

// ---- household ----

func (rs *RestfulServer) GetHousehold(c *gin.Context) {
	householdID, err := rs.Household.Settings.HouseholdID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"householdId": householdID})
}

// GetLastRecordDate serves the pre-restore confirmation: when was the cloud
// data of a household last updated.
func (rs *RestfulServer) GetLastRecordDate(c *gin.Context) {
	householdID := c.Query("householdId")
	if householdID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "householdId is required"})
		return
	}

	lastRecordAt, err := rs.Household.Migration.LatestRemoteRecordTimestamp(c.Request.Context(), householdID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lastRecordAt": lastRecordAt})
}

// CreateHousehold mints a new household id, uploads the entire local store to
// it in one batch, persists the id and starts live sync.
func (rs *RestfulServer) CreateHousehold(c *gin.Context) {
	householdID := uuid.NewString()

	if err := rs.Household.Migration.ExportAllToRemote(c.Request.Context(), householdID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := rs.Household.Settings.SetHouseholdID(householdID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := rs.Household.Sync.StartSync(householdID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"householdId": householdID})
}

type JoinHouseholdRequest struct {
	HouseholdID string `json:"householdId"`
}

var joinHouseholdRequestSchema = z.Struct(z.Shape{
	"HouseholdID": z.String().Required(),
})

// JoinHousehold wipes the local store and starts syncing against an existing
// household; the initial snapshot repopulates local data from the cloud.
func (rs *RestfulServer) JoinHousehold(c *gin.Context) {
	var req JoinHouseholdRequest
	if err := joinHouseholdRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.Household.Migration.WipeLocal(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := rs.Household.Settings.SetHouseholdID(req.HouseholdID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := rs.Household.Sync.StartSync(req.HouseholdID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) LeaveHousehold(c *gin.Context) {
	rs.Household.Sync.StopSync()

	if err := rs.Household.Settings.ClearHouseholdID(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// ---- limiter ----

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"Rate":  z.Float64().Required(),
	"Burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(rs.deviceID(c), req.Rate, req.Burst)

	c.Status(http.StatusOK)
}
