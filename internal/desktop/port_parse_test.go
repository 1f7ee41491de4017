package desktop

import "testing"

const netstatSample = `
Active Connections

  Proto  Local Address          Foreign Address        State           PID
  TCP    0.0.0.0:135            0.0.0.0:0              LISTENING       1044
  TCP    127.0.0.1:3004         127.0.0.1:52311        ESTABLISHED     7777
  TCP    0.0.0.0:3004           0.0.0.0:0              LISTENING       5120
  TCP    [::]:3004              [::]:0                 LISTENING       5120
  TCP    0.0.0.0:30040          0.0.0.0:0              LISTENING       9999
`

func TestParseNetstatPID(t *testing.T) {
	tests := []struct {
		name string
		out  string
		port int
		want int
	}{
		{name: "listener found", out: netstatSample, port: 3004, want: 5120},
		{name: "other port", out: netstatSample, port: 135, want: 1044},
		{name: "prefix port not matched", out: netstatSample, port: 3004 * 10, want: 9999},
		{name: "free port", out: netstatSample, port: 8080, want: -1},
		{name: "localized state column", out: "  TCP    0.0.0.0:3004    0.0.0.0:0    ABHÖREN    42\n", port: 3004, want: 42},
		{name: "empty output", out: "", port: 3004, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNetstatPID(tt.out, tt.port); got != tt.want {
				t.Errorf("parseNetstatPID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseLsofPID(t *testing.T) {
	tests := []struct {
		out  string
		want int
	}{
		{out: "5120\n", want: 5120},
		{out: "\n  812\n813\n", want: 812},
		{out: "", want: -1},
		{out: "garbage\n", want: -1},
	}

	for _, tt := range tests {
		if got := parseLsofPID(tt.out); got != tt.want {
			t.Errorf("parseLsofPID(%q) = %d, want %d", tt.out, got, tt.want)
		}
	}
}
