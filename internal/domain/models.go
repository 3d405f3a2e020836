package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account holder. There is no update-profile operation, so a user
// document never changes after sign-up.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, never in JSON
	Avatar   *string            `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// TaskList is a shared list of to-dos. UserIDs always contains the creator
// and is append-only through the exposed operations. Progress is never
// stored; it is derived from the list's to-dos on every read.
type TaskList struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	CreatedAt string               `bson:"createdAt" json:"createdAt"` // ISO-8601, set once at creation
	UserIDs   []primitive.ObjectID `bson:"userIds" json:"userIds"`
}

// ToDo belongs to exactly one task list. The owning list is not re-validated
// on reads, so a to-do can outlive its list.
type ToDo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content     string             `bson:"content" json:"content"`
	IsCompleted bool               `bson:"isCompleted" json:"isCompleted"`
	TaskListID  primitive.ObjectID `bson:"taskListId" json:"taskListId"`
}

// Course is read-only reference data; no mutation operations exist for it.
type Course struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DivisionCode   string             `bson:"divisionCode" json:"divisionCode"`
	CourseCode     string             `bson:"courseCode" json:"courseCode"`
	CourseTitle    string             `bson:"courseTitle" json:"courseTitle"`
	Credits        float64            `bson:"credits" json:"credits"`
	CreditTypeCode string             `bson:"creditTypeCode" json:"creditTypeCode"`
}
