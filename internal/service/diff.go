// Package service holds the assignment use case: the enrollment differ and
// the orchestrator that applies deltas and fans out notifications.
package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Vulture98/student-courses-backend/internal/models"
)

// AddDelta returns the requested course IDs the student is not yet enrolled
// in, preserving request order and dropping duplicates. Inputs are not
// modified.
func AddDelta(current []models.Enrollment, requested []primitive.ObjectID) []primitive.ObjectID {
	enrolled := make(map[primitive.ObjectID]struct{}, len(current))
	for _, e := range current {
		enrolled[e.Course] = struct{}{}
	}

	seen := make(map[primitive.ObjectID]struct{}, len(requested))
	delta := make([]primitive.ObjectID, 0, len(requested))
	for _, id := range requested {
		if _, ok := enrolled[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		delta = append(delta, id)
	}
	return delta
}

// RemoveDelta returns the requested course IDs the student IS enrolled in,
// with the same ordering and dedup rules as AddDelta.
func RemoveDelta(current []models.Enrollment, requested []primitive.ObjectID) []primitive.ObjectID {
	enrolled := make(map[primitive.ObjectID]struct{}, len(current))
	for _, e := range current {
		enrolled[e.Course] = struct{}{}
	}

	seen := make(map[primitive.ObjectID]struct{}, len(requested))
	delta := make([]primitive.ObjectID, 0, len(requested))
	for _, id := range requested {
		if _, ok := enrolled[id]; !ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		delta = append(delta, id)
	}
	return delta
}
