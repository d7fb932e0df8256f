package color

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForUser_Deterministic(t *testing.T) {
	assert.Equal(t, ForUser("alice"), ForUser("alice"))
	assert.NotEqual(t, ForUser("alice"), ForUser("bob"))
}

func TestForUser_Format(t *testing.T) {
	hexColor := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for _, id := range []string{"alice", "bob", "", "user-with-long-name-42"} {
		assert.Regexp(t, hexColor, ForUser(id))
	}
}
