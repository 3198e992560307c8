package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogBaselineOnly(t *testing.T) {
	c := NewCatalog(NewSessions())
	assert.Equal(t, BaselineExercises, c.ListFor(1))
}

func TestCatalogAppendsCustomExercises(t *testing.T) {
	s := NewSessions()
	c := NewCatalog(s)

	s.EnsureExercise(1, "Гребля")
	s.EnsureExercise(1, "Присідання") // already in the baseline
	s.EnsureExercise(1, "Канат")

	list := c.ListFor(1)
	assert.Equal(t, append(append([]string{}, BaselineExercises...), "Гребля", "Канат"), list)

	// other users see only the baseline
	assert.Equal(t, BaselineExercises, c.ListFor(2))
}
