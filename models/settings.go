// models/settings.go
package models

type Settings struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	ClientID uint `json:"client_id" gorm:"not null;uniqueIndex"`

	// Score bands for the dashboard colour coding
	RedMin    int `json:"red_min" gorm:"default:0"`
	RedMax    int `json:"red_max" gorm:"default:40"`
	OrangeMin int `json:"orange_min" gorm:"default:41"`
	OrangeMax int `json:"orange_max" gorm:"default:55"`
	WhiteMin  int `json:"white_min" gorm:"default:56"`
	WhiteMax  int `json:"white_max" gorm:"default:70"`
	GreenMin  int `json:"green_min" gorm:"default:71"`
	GreenMax  int `json:"green_max" gorm:"default:80"`

	// Reminder emails ahead of the rating due date
	NotifyOneWeek   bool `json:"notify_1_week" gorm:"column:notify_1_week;default:false"`
	NotifyThreeDays bool `json:"notify_3_days" gorm:"column:notify_3_days;default:true"`
	NotifyOneDay    bool `json:"notify_1_day" gorm:"column:notify_1_day;default:false"`

	// Rating cadence
	FrequencyWeekly    bool `json:"frequency_weekly" gorm:"default:false"`
	FrequencyBiWeekly  bool `json:"frequency_bi_weekly" gorm:"default:false"`
	FrequencyMonthly   bool `json:"frequency_monthly" gorm:"default:true"`
	FrequencyQuarterly bool `json:"frequency_quarterly" gorm:"default:false"`
}

func (Settings) TableName() string {
	return "settings"
}

// ScoreRange is one colour band.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// BandFor returns the colour band a total score falls into.
func (s *Settings) BandFor(score int) string {
	switch {
	case score >= s.GreenMin:
		return "green"
	case score >= s.WhiteMin:
		return "white"
	case score >= s.OrangeMin:
		return "orange"
	default:
		return "red"
	}
}

// ToMap renders settings in the nested shape the settings screen consumes.
func (s *Settings) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"score_ranges": map[string]ScoreRange{
			"red":    {Min: s.RedMin, Max: s.RedMax},
			"orange": {Min: s.OrangeMin, Max: s.OrangeMax},
			"white":  {Min: s.WhiteMin, Max: s.WhiteMax},
			"green":  {Min: s.GreenMin, Max: s.GreenMax},
		},
		"email_notifications": map[string]bool{
			"1_week": s.NotifyOneWeek,
			"3_days": s.NotifyThreeDays,
			"1_day":  s.NotifyOneDay,
		},
		"rating_frequency": map[string]bool{
			"weekly":    s.FrequencyWeekly,
			"bi_weekly": s.FrequencyBiWeekly,
			"monthly":   s.FrequencyMonthly,
			"quarterly": s.FrequencyQuarterly,
		},
	}
}
