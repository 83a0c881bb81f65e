package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"30s"`, 30 * time.Second, false},
		{`"10m"`, 10 * time.Minute, false},
		{`"1h30m"`, 90 * time.Minute, false},
		{`1000000000`, time.Second, false},
		{`"not a duration"`, 0, true},
		{`[1, 2]`, 0, true},
	}

	for _, tt := range tests {
		var d Duration
		err := yaml.Unmarshal([]byte(tt.in), &d)
		if tt.wantErr {
			if err == nil {
				t.Errorf("unmarshal %s: expected an error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("unmarshal %s: unexpected error: %v", tt.in, err)
			continue
		}
		if d.Std() != tt.want {
			t.Errorf("unmarshal %s: got %v, want %v", tt.in, d.Std(), tt.want)
		}
	}
}

func TestDurationMarshal(t *testing.T) {
	out, err := yaml.Marshal(Duration(90 * time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "1m30s\n" {
		t.Errorf("got %q", out)
	}
}
