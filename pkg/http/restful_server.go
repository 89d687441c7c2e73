package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/izawa-yuka/uruoi/pkg/household"
)

// HeaderDeviceID carries the caller's device id, used for per-device rate
// limiting. Record attribution uses the server-side device provider.
const HeaderDeviceID = "X-Device-ID"

type RestfulServer struct {
	Server             *gin.Engine
	Household          *household.Household
	DeviceLimiterStore *DeviceLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.DeviceLimiterStore == nil {
		return nil
	}
	return rs.DeviceLimiterStore.GetLimiter(deviceID)
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.DeviceLimiterStore == nil {
		return
	}
	rs.DeviceLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.POST("/limiter", rs.PostLimiter)

	containers := rs.Server.Group("/containers")
	{
		containers.GET("", rs.ListContainers)
		containers.POST("", rs.AddContainer)
		containers.POST("/reorder", rs.ReorderContainers)
		containers.PUT("/:container_id", rs.UpdateContainer)
		containers.POST("/:container_id/archive", rs.ArchiveContainer)
		containers.DELETE("/:container_id", rs.DeleteContainer)
		containers.POST("/:container_id/records/start", rs.StartRecording)
		containers.POST("/:container_id/records/finish", rs.FinishRecording)
	}

	records := rs.Server.Group("/records")
	{
		records.GET("/active", rs.GetActiveRecords)
		records.PUT("/:record_id", rs.UpdateRecord)
		records.DELETE("/:record_id", rs.DeleteRecord)
	}

	rs.Server.GET("/stats", rs.GetStats)

	householdGroup := rs.Server.Group("/household")
	{
		householdGroup.GET("", rs.GetHousehold)
		householdGroup.GET("/last-record", rs.GetLastRecordDate)
		householdGroup.POST("", rs.CreateHousehold)
		householdGroup.POST("/join", rs.JoinHousehold)
		householdGroup.DELETE("", rs.LeaveHousehold)
	}
}
