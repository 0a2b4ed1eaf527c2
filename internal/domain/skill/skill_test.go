package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	in := []Category{
		{Category: " Backend ", Skills: []string{"Go", " ", "Spring Boot "}},
		{Category: "", Skills: []string{"orphan"}},
		{Category: "Empty", Skills: []string{" ", ""}},
		{Category: "Cloud", Skills: []string{"AWS"}},
	}

	got := Sanitize(in)

	assert.Equal(t, []Category{
		{Category: "Backend", Skills: []string{"Go", "Spring Boot"}},
		{Category: "Cloud", Skills: []string{"AWS"}},
	}, got)
}
