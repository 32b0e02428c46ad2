package persistence

import (
	"time"
)

// EstimateModel represents the estimates table.
// ShipAnalysis holds the analysis document as pretty-printed JSON text.
type EstimateModel struct {
	ID           string    `gorm:"column:id;primaryKey;not null"`
	Reference    string    `gorm:"column:reference;index"`
	ShipAnalysis string    `gorm:"column:ship_analysis;type:text"`
	Currency     string    `gorm:"column:currency"`
	Status       string    `gorm:"column:status;not null;default:'DRAFT'"`
	VoyageID     string    `gorm:"column:voyage_id"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;index"`
}

func (EstimateModel) TableName() string {
	return "estimates"
}

// VoyageModel represents the voyages table. One voyage per estimate.
type VoyageModel struct {
	ID         string         `gorm:"column:id;primaryKey;not null"`
	EstimateID string         `gorm:"column:estimate_id;uniqueIndex;not null"`
	Estimate   *EstimateModel `gorm:"foreignKey:EstimateID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VesselID   int            `gorm:"column:vessel_id"`
	VesselName string         `gorm:"column:vessel_name"`
	FirstETD   string         `gorm:"column:first_etd"` // "YYYY-MM-DD HH:MM"
	LastETA    string         `gorm:"column:last_eta"`
	Profit     float64        `gorm:"column:profit"`
	Currency   string         `gorm:"column:currency"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null"`
}

func (VoyageModel) TableName() string {
	return "voyages"
}

// SessionLogModel represents the session_logs table
type SessionLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string    `gorm:"column:session_id;not null;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null;default:'INFO'"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (SessionLogModel) TableName() string {
	return "session_logs"
}
