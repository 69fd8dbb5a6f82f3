package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseStats struct {
	TotalViews int `json:"total_views" bson:"totalViews"`
}

type Course struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Subject     string             `json:"subject" bson:"subject"`
	Level       string             `json:"level" bson:"level"`
	VideoURL    string             `json:"video_url" bson:"videoUrl"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	IsSuspended bool               `json:"is_suspended" bson:"isSuspended"`
	Stats       CourseStats        `json:"stats" bson:"stats"`
	CreatedAt   time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updatedAt"`
}

// Summary trims a course down to the fields embedded in notifications.
func (c Course) Summary() CourseSummary {
	return CourseSummary{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Subject:     c.Subject,
		Level:       c.Level,
	}
}
