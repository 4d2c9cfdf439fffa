package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Chapter is a titled sequence of video references inside a course.
type Chapter struct {
	Title  string   `json:"title"`
	Videos []string `json:"videos"`
}

// Chapters is a custom type for storing the chapter list as JSONB
type Chapters []Chapter

// Rating is a single student rating of one chapter. At most one rating per
// (student, chapter) pair; a later rating replaces the earlier one.
type Rating struct {
	Student string    `json:"student"`
	Chapter int       `json:"chapter"`
	Rating  float64   `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// Ratings is a custom type for storing ratings as JSONB
type Ratings []Rating

// Enrollments is the set of enrolled student usernames, stored as JSONB
type Enrollments []string

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("failed to unmarshal JSONB value")
	}
}

// Scan implements the sql.Scanner interface for reading from database
func (c *Chapters) Scan(value interface{}) error {
	*c = Chapters{}
	return scanJSON(value, c)
}

// Value implements the driver.Valuer interface for writing to database
func (c Chapters) Value() (driver.Value, error) {
	if len(c) == 0 {
		return []byte("[]"), nil // Return empty JSON array instead of nil
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for reading from database
func (r *Ratings) Scan(value interface{}) error {
	*r = Ratings{}
	return scanJSON(value, r)
}

// Value implements the driver.Valuer interface for writing to database
func (r Ratings) Value() (driver.Value, error) {
	if len(r) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for reading from database
func (e *Enrollments) Scan(value interface{}) error {
	*e = Enrollments{}
	return scanJSON(value, e)
}

// Value implements the driver.Valuer interface for writing to database
func (e Enrollments) Value() (driver.Value, error) {
	if len(e) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(e)
}

// Contains checks set membership for an enrollment list.
func (e Enrollments) Contains(username string) bool {
	for _, s := range e {
		if s == username {
			return true
		}
	}
	return false
}

// Course represents a tutor-owned course with chapters, ratings and enrollments
// held inline on the course document.
type Course struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	TutorUsername string         `gorm:"not null;index" json:"tutor_username"`
	Title         string         `gorm:"not null" json:"title"`
	Subject       string         `gorm:"index" json:"subject"`
	Grade         string         `gorm:"index" json:"grade"`
	Description   string         `gorm:"type:text" json:"description"`
	Chapters      Chapters       `gorm:"type:jsonb" json:"chapters"`
	Ratings       Ratings        `gorm:"type:jsonb" json:"ratings"`
	Enrollments   Enrollments    `gorm:"type:jsonb" json:"enrollments"`

	// Derived views, computed on read (0 when no ratings exist, never null)
	ChapterRatings  map[int]float64 `gorm:"-" json:"chapter_ratings,omitempty"`
	AvgRating       float64         `gorm:"-" json:"avg_rating"`
	TotalVideos     int             `gorm:"-" json:"total_videos"`
	EnrollmentCount int             `gorm:"-" json:"enrollment_count"`
}

// ComputeDerived fills the read-side aggregate fields from the stored
// chapters, ratings and enrollments.
func (c *Course) ComputeDerived() {
	perChapter := make(map[int][]float64)
	sum := 0.0
	for _, r := range c.Ratings {
		perChapter[r.Chapter] = append(perChapter[r.Chapter], r.Rating)
		sum += r.Rating
	}

	c.ChapterRatings = make(map[int]float64, len(c.Chapters))
	for i := range c.Chapters {
		vals := perChapter[i]
		if len(vals) == 0 {
			c.ChapterRatings[i] = 0
			continue
		}
		chapterSum := 0.0
		for _, v := range vals {
			chapterSum += v
		}
		c.ChapterRatings[i] = chapterSum / float64(len(vals))
	}

	if len(c.Ratings) > 0 {
		c.AvgRating = sum / float64(len(c.Ratings))
	} else {
		c.AvgRating = 0
	}

	c.TotalVideos = 0
	for _, ch := range c.Chapters {
		c.TotalVideos += len(ch.Videos)
	}
	c.EnrollmentCount = len(c.Enrollments)
}
