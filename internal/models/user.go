package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

// Enrollment associates a student with a course and carries the student's
// progress state. At most one enrollment per (student, course) pair; the
// uniqueness is enforced by the assignment service before any store write.
type Enrollment struct {
	Course    primitive.ObjectID `json:"course" bson:"course"`
	Completed bool               `json:"completed" bson:"completed"`
	Progress  int                `json:"progress" bson:"progress"`
}

type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Password        string             `json:"-" bson:"password"`
	Role            UserRole           `json:"role" bson:"role"`
	Subject         string             `json:"subject,omitempty" bson:"subject,omitempty"`
	EnrolledCourses []Enrollment       `json:"enrolled_courses" bson:"enrolledCourses"`
	IsSuspended     bool               `json:"is_suspended" bson:"isSuspended"`
	CreatedAt       time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updatedAt"`
}

// EnrolledCourse is an enrollment with the course document populated in
// place of the bare reference, for client responses.
type EnrolledCourse struct {
	Course    Course `json:"course" bson:"course"`
	Completed bool   `json:"completed" bson:"completed"`
	Progress  int    `json:"progress" bson:"progress"`
}

// StudentView is the denormalized student returned by enrollment mutations
// and student-facing reads. Password is never carried here.
type StudentView struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Role            UserRole           `json:"role" bson:"role"`
	Subject         string             `json:"subject,omitempty" bson:"subject,omitempty"`
	EnrolledCourses []EnrolledCourse   `json:"enrolled_courses" bson:"enrolledCourses"`
	IsSuspended     bool               `json:"is_suspended" bson:"isSuspended"`
}
