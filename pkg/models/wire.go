package models

import "time"

// Wire documents stored in the remote document store under
// households/{householdID}/containers/{id} and households/{householdID}/records/{id}.
// Field names are the remote document layout and must stay stable across app
// versions and platforms.

type ContainerDocument struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	EmptyWeight float64   `json:"emptyWeight"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
	SortOrder   int       `json:"sortOrder"`
}

func NewContainerDocument(c *Container) ContainerDocument {
	return ContainerDocument{
		ID:          c.ID,
		Name:        c.Name,
		EmptyWeight: c.EmptyWeight,
		IsArchived:  c.IsArchived,
		CreatedAt:   c.CreatedAt,
		SortOrder:   c.SortOrder,
	}
}

// ToModel converts the document back to the local entity.
func (d ContainerDocument) ToModel() Container {
	return Container{
		ID:          d.ID,
		Name:        d.Name,
		EmptyWeight: d.EmptyWeight,
		IsArchived:  d.IsArchived,
		CreatedAt:   d.CreatedAt,
		SortOrder:   d.SortOrder,
	}
}

type RecordDocument struct {
	ID                string     `json:"id"`
	ContainerID       string     `json:"containerId"`
	StartTime         time.Time  `json:"startTime"`
	StartWeight       float64    `json:"startWeight"`
	EndTime           *time.Time `json:"endTime"`
	EndWeight         *float64   `json:"endWeight"`
	CatCount          int        `json:"catCount"`
	WeatherCondition  *string    `json:"weatherCondition"`
	Temperature       *float64   `json:"temperature"`
	Note              *string    `json:"note"`
	CreatedByDeviceID *string    `json:"createdByDeviceId"`
}

func NewRecordDocument(r *WaterRecord) RecordDocument {
	return RecordDocument{
		ID:                r.ID,
		ContainerID:       r.ContainerID,
		StartTime:         r.StartTime,
		StartWeight:       r.StartWeight,
		EndTime:           r.EndTime,
		EndWeight:         r.EndWeight,
		CatCount:          r.CatCount,
		WeatherCondition:  r.WeatherCondition,
		Temperature:       r.Temperature,
		Note:              r.Note,
		CreatedByDeviceID: r.CreatedByDeviceID,
	}
}

func (d RecordDocument) ToModel() WaterRecord {
	return WaterRecord{
		ID:                d.ID,
		ContainerID:       d.ContainerID,
		StartTime:         d.StartTime,
		StartWeight:       d.StartWeight,
		EndTime:           d.EndTime,
		EndWeight:         d.EndWeight,
		CatCount:          d.CatCount,
		WeatherCondition:  d.WeatherCondition,
		Temperature:       d.Temperature,
		Note:              d.Note,
		CreatedByDeviceID: d.CreatedByDeviceID,
	}
}
