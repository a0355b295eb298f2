package arcade

import "time"

// HighScore is a persisted game result.
type HighScore struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	PlayerName string    `gorm:"size:50;not null" json:"player_name"`
	Score      int       `gorm:"not null;index:idx_score_desc,sort:desc" json:"score"`
	Level      int       `gorm:"not null" json:"level"`
	Lines      int       `gorm:"not null" json:"lines"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (HighScore) TableName() string { return "high_scores" }

// highScoreRequest carries a score submission. The player name comes from
// the session, never from the body.
type highScoreRequest struct {
	Score *int `json:"score" validate:"required,gte=0"`
	Level *int `json:"level" validate:"required,gte=0"`
	Lines *int `json:"lines" validate:"required,gte=0"`
}
