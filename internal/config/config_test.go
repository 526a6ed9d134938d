package config

import "testing"

func TestParseStreams(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []StreamSpec
		wantErr bool
	}{
		{
			name: "single stream",
			spec: "probe-a:2@30000",
			want: []StreamSpec{{ID: "probe-a", Channels: 2, SampleRate: 30000}},
		},
		{
			name: "multiple streams with whitespace",
			spec: " probe-a:4@30000 , probe-b:2@44100 ",
			want: []StreamSpec{
				{ID: "probe-a", Channels: 4, SampleRate: 30000},
				{ID: "probe-b", Channels: 2, SampleRate: 44100},
			},
		},
		{
			name: "zero channels allowed",
			spec: "idle:0@30000",
			want: []StreamSpec{{ID: "idle", Channels: 0, SampleRate: 30000}},
		},
		{name: "missing rate", spec: "probe-a:2", wantErr: true},
		{name: "missing id", spec: ":2@30000", wantErr: true},
		{name: "negative channels", spec: "probe-a:-1@30000", wantErr: true},
		{name: "zero rate", spec: "probe-a:2@0", wantErr: true},
		{name: "duplicate id", spec: "a:1@30000,a:2@30000", wantErr: true},
		{name: "empty", spec: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStreams(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStreams(%q) succeeded, want error", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStreams(%q): %v", tt.spec, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d streams, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("stream %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
