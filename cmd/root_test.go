package cmd

import "testing"

func TestConfigFlagValue(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"login"}, ""},
		{[]string{"--config", "/tmp/alt.yaml", "login"}, "/tmp/alt.yaml"},
		{[]string{"login", "-c", "/tmp/alt.yaml"}, "/tmp/alt.yaml"},
		{[]string{"--config=/tmp/alt.yaml"}, "/tmp/alt.yaml"},
		{[]string{"-c=/tmp/alt.yaml"}, "/tmp/alt.yaml"},
		{[]string{"--config"}, ""}, // value missing
	}

	for _, tc := range cases {
		if got := configFlagValue(tc.args); got != tc.want {
			t.Errorf("configFlagValue(%v) = %q, want %q", tc.args, got, tc.want)
		}
	}
}
