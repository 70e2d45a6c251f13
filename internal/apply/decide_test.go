package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
		force  bool
		want   Action
	}{
		{name: "new item without force", exists: false, force: false, want: ActionSet},
		{name: "existing item without force", exists: true, force: false, want: ActionSkip},
		{name: "new item with force", exists: false, force: true, want: ActionSet},
		{name: "existing item with force", exists: true, force: true, want: ActionSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.exists, tt.force))
		})
	}
}
