package models

import "time"

// AppSettings holds global preferences. Single-row table (ID=1).
type AppSettings struct {
	ID               uint   `gorm:"primaryKey"`
	Version          int    `gorm:"not null;default:1"`
	CurrentAssistant string `gorm:"size:64"`
	OpenIn           string `gorm:"size:32;not null;default:inAppBrowser"`

	// Speech capture preferences. The capture pipeline itself is pluggable;
	// these only drive the session's buffer and auto-submit behavior.
	SpeechLocale          string  `gorm:"size:32"`
	AutoSubmitOnSilence   bool    `gorm:"not null;default:false"`
	SilenceDuration       float64 `gorm:"not null;default:2"` // seconds
	StartWithMicMuted     bool    `gorm:"not null;default:false"`
	ManuallyConfirmSpeech bool    `gorm:"not null;default:false"`

	RenderMarkdown bool   `gorm:"not null;default:true"`
	SheetDetent    string `gorm:"size:16"`

	UpdatedAt time.Time
}

// SettingBlob is one persisted settings document, keyed by a fixed
// per-backend string. Values are opaque JSON; writes overwrite the row.
type SettingBlob struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"size:128;not null;uniqueIndex"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
