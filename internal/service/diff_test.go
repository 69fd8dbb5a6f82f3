package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Vulture98/student-courses-backend/internal/models"
)

func enrollments(ids ...primitive.ObjectID) []models.Enrollment {
	out := make([]models.Enrollment, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Enrollment{Course: id})
	}
	return out
}

func TestAddDelta(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	t.Run("returns only courses not yet enrolled", func(t *testing.T) {
		delta := AddDelta(enrollments(a), []primitive.ObjectID{a, b, c})
		assert.Equal(t, []primitive.ObjectID{b, c}, delta)
	})

	t.Run("preserves requested order and drops duplicates", func(t *testing.T) {
		delta := AddDelta(nil, []primitive.ObjectID{c, b, c, b, a})
		assert.Equal(t, []primitive.ObjectID{c, b, a}, delta)
	})

	t.Run("empty when everything is already assigned", func(t *testing.T) {
		delta := AddDelta(enrollments(a, b), []primitive.ObjectID{b, a})
		assert.Empty(t, delta)
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		current := enrollments(a)
		requested := []primitive.ObjectID{a, b}
		AddDelta(current, requested)
		require.Len(t, current, 1)
		assert.Equal(t, a, current[0].Course)
		assert.Equal(t, []primitive.ObjectID{a, b}, requested)
	})
}

func TestRemoveDelta(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	t.Run("returns only enrolled courses", func(t *testing.T) {
		delta := RemoveDelta(enrollments(a, b), []primitive.ObjectID{b, c})
		assert.Equal(t, []primitive.ObjectID{b}, delta)
	})

	t.Run("empty when nothing is enrolled", func(t *testing.T) {
		delta := RemoveDelta(enrollments(a), []primitive.ObjectID{b, c})
		assert.Empty(t, delta)
	})

	t.Run("deduplicates while keeping order", func(t *testing.T) {
		delta := RemoveDelta(enrollments(a, b), []primitive.ObjectID{b, a, b})
		assert.Equal(t, []primitive.ObjectID{b, a}, delta)
	})
}

func TestDeltaSymmetry(t *testing.T) {
	// for any request, add-delta and remove-delta partition the deduplicated
	// request set
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()
	current := enrollments(a, c)
	requested := []primitive.ObjectID{a, b, c, b}

	add := AddDelta(current, requested)
	remove := RemoveDelta(current, requested)
	assert.Len(t, add, 1)
	assert.Len(t, remove, 2)
	assert.NotContains(t, add, remove[0])
	assert.NotContains(t, add, remove[1])
}
