package executor

import (
	"testing"

	"github.com/docker/docker/api/types"
)

func TestPickContainer(t *testing.T) {
	const tag = "certbot/certbot"

	tests := []struct {
		name   string
		list   []types.Container
		wantID string
		wantOK bool
	}{
		{
			name: "running preferred over earlier exited",
			list: []types.Container{
				{ID: "stale", Image: tag, State: "exited"},
				{ID: "other", Image: "nginx:1.19-alpine", State: "running"},
				{ID: "live", Image: tag, State: "running"},
			},
			wantID: "live",
			wantOK: true,
		},
		{
			name: "falls back to first stopped match",
			list: []types.Container{
				{ID: "first", Image: tag, State: "exited"},
				{ID: "second", Image: tag, State: "created"},
			},
			wantID: "first",
			wantOK: true,
		},
		{
			name: "no match",
			list: []types.Container{{ID: "other", Image: "nginx:1.19-alpine", State: "running"}},
		},
		{
			name: "empty list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := pickContainer(tt.list, tag)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("pickContainer() = (%q, %v), want (%q, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
