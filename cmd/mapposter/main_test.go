package main

import (
	"fmt"
	"testing"

	"github.com/matzehuels/mapposter/pkg/errors"
)

func TestErrorLine(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "coded",
			err:  errors.New(errors.ErrCodeGeocode, "no match for %q", "Atlantis"),
			want: `Error: no match for "Atlantis"`,
		},
		{
			name: "coded with cause",
			err:  errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("connection refused"), "overpass query"),
			want: "Error: overpass query: connection refused",
		},
		{
			name: "plain",
			err:  fmt.Errorf("unknown command %q", "plot"),
			want: `Error: unknown command "plot"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorLine(tt.err); got != tt.want {
				t.Errorf("errorLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
